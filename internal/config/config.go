package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// TargetFeature pairs a feature column with a palette hint for target charts.
type TargetFeature struct {
	Feature string `mapstructure:"feature" yaml:"feature"`
	Palette string `mapstructure:"palette" yaml:"palette"`
}

// Global configuration structure.
type Global struct {
	ProjectsDir  string `mapstructure:"projects_dir" yaml:"projects_dir"`
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir"`
	FigureFormat string `mapstructure:"figure_format" yaml:"figure_format"`

	// Report display
	PreviewRows         int `mapstructure:"preview_rows" yaml:"preview_rows"`
	DisplayMaxColumns   int `mapstructure:"display_max_columns" yaml:"display_max_columns"`
	DisplayMaxCellWidth int `mapstructure:"display_max_cell_width" yaml:"display_max_cell_width"`

	// Grid charts
	HistSlotsPerRow int  `mapstructure:"hist_slots_per_row" yaml:"hist_slots_per_row"`
	CatSlotsPerRow  int  `mapstructure:"cat_slots_per_row" yaml:"cat_slots_per_row"`
	HistBins        int  `mapstructure:"hist_bins" yaml:"hist_bins"`
	KDE             bool `mapstructure:"kde" yaml:"kde"`

	// Target-conditioned charts
	TargetColumn   string          `mapstructure:"target_column" yaml:"target_column"`
	TargetFeatures []TargetFeature `mapstructure:"target_features" yaml:"target_features"`

	// Input decoding for CSV/TSV files
	InputEncoding string `mapstructure:"input_encoding" yaml:"input_encoding"`
}

// Dir returns the per-user configuration directory, ~/.edaloom.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edaloom"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edaloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDALOOM")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("output_dir", ".")
	v.SetDefault("figure_format", "png")
	v.SetDefault("preview_rows", 5)
	v.SetDefault("display_max_columns", 0)
	v.SetDefault("display_max_cell_width", 80)
	v.SetDefault("hist_slots_per_row", 5)
	v.SetDefault("cat_slots_per_row", 3)
	v.SetDefault("hist_bins", 0)
	v.SetDefault("kde", true)
	v.SetDefault("target_column", "churn")
	v.SetDefault("target_features", []map[string]string{
		{"feature": "area code", "palette": "Set2"},
		{"feature": "voice mail plan", "palette": "Spectral"},
		{"feature": "international plan", "palette": "twilight"},
	})
	v.SetDefault("input_encoding", "utf-8")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	// Resolve projects_dir default: ~/.edaloom/projects
	if c.ProjectsDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	return &c, nil
}

// Validate rejects values no command could run with.
func (c *Global) Validate() error {
	if c.HistSlotsPerRow < 1 {
		return fmt.Errorf("hist_slots_per_row must be at least 1, got %d", c.HistSlotsPerRow)
	}
	if c.CatSlotsPerRow < 1 {
		return fmt.Errorf("cat_slots_per_row must be at least 1, got %d", c.CatSlotsPerRow)
	}
	if c.HistBins < 0 {
		return fmt.Errorf("hist_bins must not be negative, got %d", c.HistBins)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must not be negative, got %d", c.PreviewRows)
	}
	for i, tf := range c.TargetFeatures {
		if tf.Feature == "" {
			return fmt.Errorf("target_features[%d]: feature is required", i)
		}
	}
	return nil
}
