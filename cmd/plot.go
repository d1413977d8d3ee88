package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/chart"
	"github.com/KaramelBytes/edaloom-cli/internal/project"
	"github.com/KaramelBytes/edaloom-cli/internal/table"
	"github.com/KaramelBytes/edaloom-cli/internal/utils"
)

// plotFlags are bound once per plot subcommand.
type plotFlags struct {
	loadFlags
	project     string
	description string
	output      string
	outDir      string
	format      string
	columns     []string
	slots       int
	bins        int
	kde         bool
	target      string
	features    []string
}

var (
	histFlags   plotFlags
	catFlags    plotFlags
	targetFlags plotFlags
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render grid-laid-out charts of a dataset",
}

var plotHistCmd = &cobra.Command{
	Use:   "hist <file>",
	Short: "Histograms with a density curve for numerical columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &histFlags
		c := settings()
		t, err := f.load(args[0])
		if err != nil {
			return err
		}
		t, cols, err := subjectColumns(t, f.columns, (*table.Table).NumericColumns)
		if err != nil {
			return err
		}
		opt := chart.GridOptions{SlotsPerRow: c.HistSlotsPerRow, Bins: c.HistBins, KDE: c.KDE}
		if cmd.Flags().Changed("slots") {
			opt.SlotsPerRow = f.slots
		}
		if cmd.Flags().Changed("bins") {
			opt.Bins = f.bins
		}
		if cmd.Flags().Changed("kde") {
			opt.KDE = f.kde
		}
		fig, err := chart.Histograms(t, cols, opt)
		if err != nil {
			return err
		}
		return writeFigures(f, args[0], []*chart.Figure{fig})
	},
}

var plotCatCmd = &cobra.Command{
	Use:   "cat <file>",
	Short: "Category frequency bar charts for categorical columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &catFlags
		c := settings()
		t, err := f.load(args[0])
		if err != nil {
			return err
		}
		t, cols, err := subjectColumns(t, f.columns, (*table.Table).CategoricalColumns)
		if err != nil {
			return err
		}
		opt := chart.GridOptions{SlotsPerRow: c.CatSlotsPerRow}
		if cmd.Flags().Changed("slots") {
			opt.SlotsPerRow = f.slots
		}
		fig, err := chart.Frequencies(t, cols, opt)
		if err != nil {
			return err
		}
		return writeFigures(f, args[0], []*chart.Figure{fig})
	},
}

var plotTargetCmd = &cobra.Command{
	Use:   "target <file>",
	Short: "Count charts of categorical features split by the target column",
	Long: `Count charts of categorical features split by the target column.

Each --feature is "name" or "name:palette" (palettes: ` + strings.Join(chart.PaletteNames(), ", ") + `).
Without --feature the target_features list from config is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := &targetFlags
		t, err := f.load(args[0])
		if err != nil {
			return err
		}
		target, specs, err := targetSettings(f)
		if err != nil {
			return err
		}
		figs, err := chart.TargetCharts(t, target, specs)
		if err != nil {
			return err
		}
		return writeFigures(f, args[0], figs)
	},
}

// targetSettings resolves the target column and feature list from flags,
// then the project, then global config.
func targetSettings(f *plotFlags) (string, []chart.TargetSpec, error) {
	c := settings()
	target := c.TargetColumn
	if f.project != "" {
		p, err := openProject(f.project)
		if err != nil {
			return "", nil, err
		}
		if p.Config.TargetColumn != "" {
			target = p.Config.TargetColumn
		}
	}
	if f.target != "" {
		target = f.target
	}
	if target == "" {
		return "", nil, fmt.Errorf("no target column: pass --target or set target_column")
	}

	var specs []chart.TargetSpec
	for _, raw := range f.features {
		s, err := chart.ParseTargetSpec(raw)
		if err != nil {
			return "", nil, fmt.Errorf("--feature %q: %w", raw, err)
		}
		specs = append(specs, s)
	}
	if len(specs) == 0 {
		for _, tf := range c.TargetFeatures {
			specs = append(specs, chart.TargetSpec{Feature: tf.Feature, Palette: tf.Palette})
		}
	}
	if len(specs) == 0 {
		specs = chart.DefaultTargetSpecs()
	}
	return target, specs, nil
}

// writeFigures renders figures to -o (single figure), the project's artifacts
// directory (-p), or the output directory.
func writeFigures(f *plotFlags, dataset string, figs []*chart.Figure) error {
	if f.output != "" && len(figs) > 1 {
		return fmt.Errorf("--output takes a single figure, got %d; use --out-dir", len(figs))
	}
	var p *project.Project
	if f.project != "" {
		var err error
		if p, err = openProject(f.project); err != nil {
			return err
		}
	}
	format, err := figureFormat(f, p)
	if err != nil {
		return err
	}

	outDir := f.outDir
	if outDir == "" {
		outDir = settings().OutputDir
	}
	if p != nil && f.outDir == "" {
		if outDir, err = projectOutputDir(p); err != nil {
			return err
		}
	}
	if err := utils.EnsureDir(outDir); err != nil {
		return err
	}

	r := chart.NewRenderer(logger)
	base := datasetBase(dataset, f.sheet)
	for _, fig := range figs {
		var path string
		switch {
		case f.output != "":
			path = f.output
		case p != nil:
			path = uniquePath(outDir, base+"_"+fig.Name, "."+format)
		default:
			path = filepath.Join(outDir, base+"_"+fig.Name+"."+format)
		}
		if err := r.WriteFile(fig, path, format); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s (%d panels, %dx%d grid, %d hidden)\n",
			path, len(fig.Panels), fig.Layout.Rows, fig.Layout.SlotsPerRow, fig.Layout.Hidden())
		if p != nil {
			desc := f.description
			if desc == "" {
				desc = "Auto-generated " + fig.Name + " figure"
			}
			if err := attachArtifact(p, project.ArtifactFigure, path, dataset, desc); err != nil {
				return err
			}
		}
	}
	if p != nil {
		fmt.Printf("✓ Added %d figure(s) to project '%s'\n", len(figs), p.Name)
	}
	return nil
}

// figureFormat picks --format, else the -o extension, else the project's
// format, else the configured default.
func figureFormat(f *plotFlags, p *project.Project) (string, error) {
	format := settings().FigureFormat
	if p != nil && p.Config.FigureFormat != "" {
		format = p.Config.FigureFormat
	}
	if f.output != "" {
		format = chart.FormatFromPath(f.output, format)
	}
	if f.format != "" {
		format = strings.ToLower(f.format)
	}
	if format == "" {
		format = "png"
	}
	if chart.FormatFromPath("x."+format, "") == "" {
		return "", fmt.Errorf("unsupported --format: %s (use %s)", format, strings.Join(chart.Formats(), "|"))
	}
	return format, nil
}

func registerPlotFlags(cmd *cobra.Command, f *plotFlags) {
	f.loadFlags.register(cmd)
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project name to attach figures")
	cmd.Flags().StringVar(&f.description, "desc", "", "description when attaching to project")
	cmd.Flags().StringVar(&f.format, "format", "", "figure format: "+strings.Join(chart.Formats(), " | ")+" (default from config)")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "", "directory for figures (default output_dir, or the project)")
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.AddCommand(plotHistCmd, plotCatCmd, plotTargetCmd)

	registerPlotFlags(plotHistCmd, &histFlags)
	plotHistCmd.Flags().StringVarP(&histFlags.output, "output", "o", "", "figure path (format from extension)")
	plotHistCmd.Flags().StringSliceVar(&histFlags.columns, "columns", nil, "numerical columns in slot order (default all numeric columns)")
	plotHistCmd.Flags().IntVar(&histFlags.slots, "slots", chart.HistogramSlotsPerRow, "charts per grid row")
	plotHistCmd.Flags().IntVar(&histFlags.bins, "bins", 0, "histogram bins, 0 = automatic")
	plotHistCmd.Flags().BoolVar(&histFlags.kde, "kde", true, "overlay a density curve")

	registerPlotFlags(plotCatCmd, &catFlags)
	plotCatCmd.Flags().StringVarP(&catFlags.output, "output", "o", "", "figure path (format from extension)")
	plotCatCmd.Flags().StringSliceVar(&catFlags.columns, "columns", nil, "categorical columns in slot order (default all string and bool columns)")
	plotCatCmd.Flags().IntVar(&catFlags.slots, "slots", chart.FrequencySlotsPerRow, "charts per grid row")

	registerPlotFlags(plotTargetCmd, &targetFlags)
	plotTargetCmd.Flags().StringVar(&targetFlags.target, "target", "", "target column (default from project or config)")
	plotTargetCmd.Flags().StringArrayVar(&targetFlags.features, "feature", nil, "feature[:palette] to chart against the target (repeatable)")
}
