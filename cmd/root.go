package cmd

import (
	"fmt"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/edaloom-cli/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Display flags (override config if set)
	flagMaxColumns   int
	flagMaxCellWidth int

	// Loaded configuration
	cfg *cfgpkg.Global

	logger log.Logger = log.NewNopLogger()
)

var rootCmd = &cobra.Command{
	Use:   "edaloom",
	Short: "edaloom CLI: quick exploratory analysis of tabular datasets",
	Long:  `edaloom inspects CSV/TSV/XLSX datasets (preview, statistics, schema, missing values, duplicates) and renders grid-laid-out histograms, category frequency charts and target breakdowns.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(debug)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edaloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().IntVar(&flagMaxColumns, "max-columns", 0, "max columns shown in previews, 0 = all (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxCellWidth, "max-cell-width", 0, "truncate preview cells wider than this (overrides config)")
}

func newLogger(debug bool) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	allow := level.AllowInfo()
	if debug {
		allow = level.AllowDebug()
	}
	l = level.NewFilter(l, allow)
	return log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	applyOverrides(c)
	cfg = c
}

// applyOverrides copies explicitly set global flags over config values.
func applyOverrides(c *cfgpkg.Global) {
	f := rootCmd.PersistentFlags()
	if f.Changed("max-columns") && flagMaxColumns >= 0 {
		c.DisplayMaxColumns = flagMaxColumns
	}
	if f.Changed("max-cell-width") && flagMaxCellWidth > 0 {
		c.DisplayMaxCellWidth = flagMaxCellWidth
	}
}

// settings returns the loaded configuration, or loads it on demand when
// Execute was bypassed. Built-in defaults are used if loading fails.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		level.Warn(logger).Log("msg", "using default settings", "err", err)
		c = &cfgpkg.Global{
			OutputDir:           ".",
			FigureFormat:        "png",
			PreviewRows:         5,
			DisplayMaxCellWidth: 80,
			HistSlotsPerRow:     5,
			CatSlotsPerRow:      3,
			KDE:                 true,
			TargetColumn:        "churn",
		}
	}
	applyOverrides(c)
	return c
}
