package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	listProjects  bool
	listArtifacts bool
	listProjName  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or the artifacts of a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listArtifacts { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --artifacts")
		}
		if listProjects {
			return listAllProjects()
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --artifacts")
		}
		p, err := openProject(listProjName)
		if err != nil {
			return err
		}
		arts := p.SortedArtifacts()
		if len(arts) == 0 {
			fmt.Println("(no artifacts)")
			return nil
		}
		for _, a := range arts {
			fmt.Printf("- %s: %s [%s] (%s)\n", a.ID, a.Name, a.Kind, a.Description)
		}
		return nil
	},
}

func listAllProjects() error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		pj := filepath.Join(root, e.Name(), "project.json")
		if _, err := os.Stat(pj); err == nil {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listArtifacts, "artifacts", false, "list reports and figures in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --artifacts")
}
