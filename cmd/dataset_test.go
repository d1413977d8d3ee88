package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/edaloom-cli/internal/project"
	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

func TestDatasetBase(t *testing.T) {
	cases := map[[2]string]string{
		{"/data/churn.csv", ""}:          "churn",
		{"/data/churn.xlsx", "Q1 Sales"}: "churn__sheet-q1-sales",
		{"/data/churn.xlsx", "%%"}:       "churn__sheet-sheet",
		{"/data/churn.test.tsv", ""}:     "churn.test",
	}
	for in, want := range cases {
		if got := datasetBase(in[0], in[1]); got != want {
			t.Fatalf("datasetBase(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	first := uniquePath(dir, "churn.inspect", ".md")
	if filepath.Base(first) != "churn.inspect.md" {
		t.Fatalf("unexpected first path %s", first)
	}
	if err := os.WriteFile(first, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	second := uniquePath(dir, "churn.inspect", ".md")
	if filepath.Base(second) != "churn.inspect__2.md" {
		t.Fatalf("unexpected second path %s", second)
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.csv", "a.csv", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := expandInputs([]string{filepath.Join(dir, "*.csv"), filepath.Join(dir, "a.csv")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.csv" || filepath.Base(files[1]) != "b.csv" {
		t.Fatalf("unexpected files %v", files)
	}
	if _, err := expandInputs([]string{filepath.Join(dir, "*.xlsx")}); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}

func TestLoadFlagsDelimiter(t *testing.T) {
	l := loadFlags{delimiter: "tab", encoding: "latin1"}
	opt, err := l.options()
	if err != nil {
		t.Fatal(err)
	}
	if opt.Delimiter != '\t' || opt.Encoding != "latin1" {
		t.Fatalf("unexpected options %+v", opt)
	}
	l.delimiter = "::"
	if _, err := l.options(); err == nil {
		t.Fatalf("expected error for unsupported delimiter")
	}
}

func TestArtifactKind(t *testing.T) {
	cases := []struct {
		path, explicit string
		want           project.ArtifactKind
	}{
		{"hist.png", "", project.ArtifactFigure},
		{"hist.SVG", "", project.ArtifactFigure},
		{"fig.json", "", project.ArtifactReport},
		{"fig.json", "figure", project.ArtifactFigure},
		{"notes.md", "", project.ArtifactReport},
	}
	for _, c := range cases {
		got, err := artifactKind(c.path, c.explicit)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("artifactKind(%q, %q) = %s, want %s", c.path, c.explicit, got, c.want)
		}
	}
	if _, err := artifactKind("x.md", "notes"); err == nil {
		t.Fatalf("expected error for invalid kind")
	}
}

func TestSubjectColumns(t *testing.T) {
	tb, err := table.ReadCSV(strings.NewReader(churnCSV), "churn.csv", table.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}

	sub, cols, err := subjectColumns(tb, []string{"total day minutes", "account length"}, (*table.Table).NumericColumns)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(cols, ",") != "total day minutes,account length" || sub.Cols() != 2 {
		t.Fatalf("unexpected subset %v (%d cols)", cols, sub.Cols())
	}
	if tb.Cols() != 7 {
		t.Fatalf("source table changed to %d cols", tb.Cols())
	}

	same, cols, err := subjectColumns(tb, nil, (*table.Table).CategoricalColumns)
	if err != nil {
		t.Fatal(err)
	}
	if same != tb || strings.Join(cols, ",") != "state,international plan,voice mail plan,churn" {
		t.Fatalf("unexpected default columns %v", cols)
	}

	_, _, err = subjectColumns(tb, []string{"state", "tenure"}, (*table.Table).CategoricalColumns)
	var missing *table.MissingColumnError
	if !errors.As(err, &missing) || missing.Column != "tenure" {
		t.Fatalf("expected MissingColumnError for tenure, got %v", err)
	}
}
