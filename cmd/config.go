package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/edaloom-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set edaloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		fmt.Printf("projects_dir: %s\n", c.ProjectsDir)
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		fmt.Printf("figure_format: %s\n", c.FigureFormat)
		fmt.Printf("preview_rows: %d\n", c.PreviewRows)
		fmt.Printf("display_max_columns: %d\n", c.DisplayMaxColumns)
		fmt.Printf("display_max_cell_width: %d\n", c.DisplayMaxCellWidth)
		fmt.Printf("hist_slots_per_row: %d\n", c.HistSlotsPerRow)
		fmt.Printf("cat_slots_per_row: %d\n", c.CatSlotsPerRow)
		if c.HistBins > 0 {
			fmt.Printf("hist_bins: %d\n", c.HistBins)
		} else {
			fmt.Println("hist_bins: auto")
		}
		fmt.Printf("kde: %t\n", c.KDE)
		fmt.Printf("target_column: %s\n", c.TargetColumn)
		fmt.Printf("target_features: %s\n", formatTargetFeatures(c.TargetFeatures))
		fmt.Printf("input_encoding: %s\n", c.InputEncoding)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

target_features takes a comma-separated list of feature[:palette] entries,
for example "area code:Set2,international plan:twilight".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := setConfigValue(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "projects_dir":
		c.ProjectsDir = val
	case "output_dir":
		c.OutputDir = val
	case "figure_format":
		f := strings.ToLower(val)
		if chart.FormatFromPath("x."+f, "") == "" {
			return fmt.Errorf("invalid figure_format: %s (use %s)", val, strings.Join(chart.Formats(), "|"))
		}
		c.FigureFormat = f
	case "preview_rows":
		c.PreviewRows, err = atoi()
	case "display_max_columns":
		c.DisplayMaxColumns, err = atoi()
	case "display_max_cell_width":
		c.DisplayMaxCellWidth, err = atoi()
	case "hist_slots_per_row":
		c.HistSlotsPerRow, err = atoi()
	case "cat_slots_per_row":
		c.CatSlotsPerRow, err = atoi()
	case "hist_bins":
		c.HistBins, err = atoi()
	case "kde":
		b, perr := strconv.ParseBool(val)
		if perr != nil {
			return fmt.Errorf("invalid bool for kde: %w", perr)
		}
		c.KDE = b
	case "target_column":
		c.TargetColumn = val
	case "target_features":
		var out []cfgpkg.TargetFeature
		for _, part := range strings.Split(val, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			s, perr := chart.ParseTargetSpec(part)
			if perr != nil {
				return fmt.Errorf("invalid target_features entry %q: %w", part, perr)
			}
			out = append(out, cfgpkg.TargetFeature{Feature: s.Feature, Palette: s.Palette})
		}
		c.TargetFeatures = out
	case "input_encoding":
		c.InputEncoding = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}

func formatTargetFeatures(tf []cfgpkg.TargetFeature) string {
	if len(tf) == 0 {
		return "(none)"
	}
	parts := make([]string, len(tf))
	for i, f := range tf {
		parts[i] = f.Feature
		if f.Palette != "" {
			parts[i] += ":" + f.Palette
		}
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
