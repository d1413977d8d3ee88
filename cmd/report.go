package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	"github.com/KaramelBytes/edaloom-cli/internal/project"
	"github.com/KaramelBytes/edaloom-cli/internal/utils"
)

// reportFlags are bound once per report command.
type reportFlags struct {
	loadFlags
	project     string
	outputPath  string
	description string
	head        int
	quiet       bool
}

var (
	inspectFlags reportFlags
	cleanFlags   reportFlags
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Preview rows, summary statistics, dimensions and schema of datasets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := reportOptions(&inspectFlags, cmd)
		opt.Clean = false
		return runReports(args, &inspectFlags, opt, "inspect")
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <files...>",
	Short: "Report missing values per column and duplicate rows of datasets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt := reportOptions(&cleanFlags, cmd)
		opt.Inspect = false
		return runReports(args, &cleanFlags, opt, "clean")
	},
}

func reportOptions(f *reportFlags, cmd *cobra.Command) analysis.Options {
	c := settings()
	opt := analysis.DefaultOptions()
	opt.PreviewRows = c.PreviewRows
	if cmd.Flags().Changed("head") && f.head >= 0 {
		opt.PreviewRows = f.head
	}
	opt.Display = analysis.DisplayOptions{MaxColumns: c.DisplayMaxColumns, MaxCellWidth: c.DisplayMaxCellWidth}
	return opt
}

func runReports(args []string, f *reportFlags, opt analysis.Options, kind string) error {
	files, err := expandInputs(args)
	if err != nil {
		return err
	}
	if f.outputPath != "" && len(files) > 1 {
		return fmt.Errorf("--output takes a single input file, got %d", len(files))
	}
	var p *project.Project
	if f.project != "" {
		if p, err = openProject(f.project); err != nil {
			return err
		}
	}

	total := len(files)
	for i, path := range files {
		if total > 1 && !f.quiet {
			fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
		}
		md, err := buildReport(path, &f.loadFlags, opt)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}

		written := false
		if f.outputPath != "" {
			if err := utils.SafeWriteFile(f.outputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote %s report to %s\n", kind, f.outputPath)
			written = true
		}
		if p != nil {
			outDir, err := projectOutputDir(p)
			if err != nil {
				return err
			}
			outFile := uniquePath(outDir, datasetBase(path, f.sheet)+"."+kind, ".md")
			if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
				return fmt.Errorf("write project report: %w", err)
			}
			desc := f.description
			if desc == "" {
				desc = "Auto-generated " + kind + " report"
			}
			if err := attachArtifact(p, project.ArtifactReport, outFile, path, desc); err != nil {
				return err
			}
			if !f.quiet {
				fmt.Printf("✓ Added %s report to project '%s' as %s\n", kind, p.Name, filepath.Base(outFile))
			}
			written = true
		}
		if !written && !f.quiet {
			fmt.Println(md)
		}
	}
	return nil
}

// buildReport loads one dataset and renders the selected report sections.
func buildReport(path string, lf *loadFlags, opt analysis.Options) (string, error) {
	t, err := lf.load(path)
	if err != nil {
		return "", err
	}
	rep, err := analysis.Build(t, opt)
	if err != nil {
		return "", err
	}
	for _, w := range rep.Warnings {
		level.Warn(logger).Log("msg", w, "file", filepath.Base(path))
	}
	return rep.Markdown(), nil
}

func writeReport(w io.Writer, md string) error {
	_, err := io.WriteString(w, md+"\n")
	return err
}

func registerReportFlags(cmd *cobra.Command, f *reportFlags, what string) {
	f.loadFlags.register(cmd)
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "project name to attach the "+what+" report")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "optional path to write the report (Markdown)")
	cmd.Flags().StringVar(&f.description, "desc", "", "description when attaching to project")
	cmd.Flags().BoolVar(&f.quiet, "quiet", false, "suppress progress and non-essential output")
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(cleanCmd)
	registerReportFlags(inspectCmd, &inspectFlags, "inspect")
	inspectCmd.Flags().IntVar(&inspectFlags.head, "head", 5, "number of preview rows (default from config)")
	registerReportFlags(cleanCmd, &cleanFlags, "clean")
}
