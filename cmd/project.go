package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/chart"
	"github.com/KaramelBytes/edaloom-cli/internal/project"
)

var (
	pmProject string
	pmClear   bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

var projectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show a project's settings and artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if pmProject == "" {
			return fmt.Errorf("--project is required")
		}
		p, err := openProject(pmProject)
		if err != nil {
			return err
		}
		fmt.Print(p.Summary())
		if p.Config.TargetColumn != "" {
			fmt.Printf("\ntarget_column: %s\n", p.Config.TargetColumn)
		}
		if p.Config.FigureFormat != "" {
			fmt.Printf("figure_format: %s\n", p.Config.FigureFormat)
		}
		return nil
	},
}

var projectSetTargetCmd = &cobra.Command{
	Use:   "set-target <column>",
	Short: "Set or clear a project's target column",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProjectConfig(args, "target column", func(c *project.ProjectConfig, v string) error {
			c.TargetColumn = v
			return nil
		})
	},
}

var projectSetFormatCmd = &cobra.Command{
	Use:   "set-format <format>",
	Short: "Set or clear a project's figure format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateProjectConfig(args, "figure format", func(c *project.ProjectConfig, v string) error {
			v = strings.ToLower(v)
			if v != "" && chart.FormatFromPath("x."+v, "") == "" {
				return fmt.Errorf("invalid figure format: %s (use %s)", v, strings.Join(chart.Formats(), "|"))
			}
			c.FigureFormat = v
			return nil
		})
	},
}

func updateProjectConfig(args []string, what string, set func(*project.ProjectConfig, string) error) error {
	if pmProject == "" {
		return fmt.Errorf("--project is required")
	}
	p, err := openProject(pmProject)
	if err != nil {
		return err
	}
	val := ""
	if !pmClear {
		if len(args) == 0 || args[0] == "" {
			return fmt.Errorf("%s is required unless --clear is set", what)
		}
		val = args[0]
	}
	if err := set(p.Config, val); err != nil {
		return err
	}
	if err := p.Save(); err != nil {
		return err
	}
	if pmClear {
		fmt.Printf("✓ Cleared project %s for %s\n", what, p.Name)
	} else {
		fmt.Printf("✓ Set project %s for %s: %s\n", what, p.Name, val)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectSetTargetCmd)
	projectCmd.AddCommand(projectSetFormatCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name (\".\" for the enclosing project)")
	projectSetTargetCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the project's target column override")
	projectSetFormatCmd.Flags().BoolVar(&pmClear, "clear", false, "clear the project's figure format override")
}
