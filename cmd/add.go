package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/chart"
	"github.com/KaramelBytes/edaloom-cli/internal/project"
)

var (
	addProjectName string
	addDesc        string
	addKind        string
	addDataset     string
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Attach an existing report or figure to a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addProjectName == "" {
			return fmt.Errorf("--project is required")
		}
		kind, err := artifactKind(file, addKind)
		if err != nil {
			return err
		}
		p, err := openProject(addProjectName)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		if err := attachArtifact(p, kind, abs, addDataset, addDesc); err != nil {
			return err
		}
		fmt.Printf("✓ Added %s: %s\n", kind, filepath.Base(file))
		return nil
	},
}

// artifactKind uses the explicit kind, or infers one from the extension:
// figure formats are figures, anything else is a report.
func artifactKind(path, explicit string) (project.ArtifactKind, error) {
	switch strings.ToLower(explicit) {
	case "report":
		return project.ArtifactReport, nil
	case "figure":
		return project.ArtifactFigure, nil
	case "":
	default:
		return "", fmt.Errorf("invalid --kind: %s (use report|figure)", explicit)
	}
	switch chart.FormatFromPath(path, "") {
	case "png", "svg", "pdf":
		return project.ArtifactFigure, nil
	}
	return project.ArtifactReport, nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addProjectName, "project", "p", "", "project name")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "artifact description")
	addCmd.Flags().StringVar(&addKind, "kind", "", "report | figure (default from extension)")
	addCmd.Flags().StringVar(&addDataset, "dataset", "", "dataset the artifact was derived from")
}
