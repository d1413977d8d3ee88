package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HistSlotsPerRow != 5 || c.CatSlotsPerRow != 3 || c.PreviewRows != 5 {
		t.Fatalf("unexpected grid defaults: %+v", c)
	}
	if c.TargetColumn != "churn" || len(c.TargetFeatures) != 3 {
		t.Fatalf("unexpected target defaults: %+v", c)
	}
	if c.TargetFeatures[1] != (TargetFeature{Feature: "voice mail plan", Palette: "Spectral"}) {
		t.Fatalf("unexpected target feature: %+v", c.TargetFeatures[1])
	}
	if want := filepath.Join(home, ".edaloom", "projects"); c.ProjectsDir != want {
		t.Fatalf("projects_dir = %s, want %s", c.ProjectsDir, want)
	}
}

func TestSaveLoadAndEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.TargetColumn = "Exited"
	c.TargetFeatures = []TargetFeature{{Feature: "Geography", Palette: "Set2"}}
	c.FigureFormat = "svg"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Setenv("EDALOOM_HIST_BINS", "12")
	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.TargetColumn != "Exited" || got.FigureFormat != "svg" || got.HistBins != 12 {
		t.Fatalf("unexpected config: %+v", got)
	}
	if len(got.TargetFeatures) != 1 || got.TargetFeatures[0].Feature != "Geography" {
		t.Fatalf("unexpected target features: %+v", got.TargetFeatures)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cat_slots_per_row: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for zero slots per row")
	}
}
