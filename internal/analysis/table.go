package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

// Options controls which sections a Report carries and how they display.
type Options struct {
	// PreviewRows is the number of leading rows shown; 0 omits the preview.
	PreviewRows int
	Display     DisplayOptions
	// Inspect and Clean select the inspector and cleaner sections.
	Inspect bool
	Clean   bool
}

// DefaultOptions returns the full inspect-and-clean report with a 5-row preview.
func DefaultOptions() Options {
	return Options{
		PreviewRows: 5,
		Display:     DisplayOptions{MaxCellWidth: 80},
		Inspect:     true,
		Clean:       true,
	}
}

// Report is a markdown-friendly summary of a table.
type Report struct {
	Name       string
	Preview    *Preview
	Stats      []Describe
	Dims       *Dimensions
	Schema     *Schema
	Missing    []ColumnCount
	Duplicates *int
	Warnings   []string
}

// Build runs the inspector and cleaner sections selected by opt.
func Build(t *table.Table, opt Options) (*Report, error) {
	rep := &Report{Name: t.Name}
	if opt.Inspect {
		in := NewInspector(t)
		if opt.PreviewRows > 0 {
			rep.Preview = in.PreviewRows(opt.PreviewRows, opt.Display)
		}
		stats, err := in.SummaryStatistics()
		if err != nil {
			return nil, fmt.Errorf("summary statistics: %w", err)
		}
		rep.Stats = stats
		dims := in.Dimensions()
		rep.Dims = &dims
		schema, err := in.SchemaReport()
		if err != nil {
			return nil, fmt.Errorf("schema report: %w", err)
		}
		rep.Schema = schema
		if t.Rows() == 0 {
			rep.Warnings = append(rep.Warnings, "table has no rows; statistics are undefined")
		}
	}
	if opt.Clean {
		cl := NewCleaner(t)
		miss, err := cl.MissingValueReport()
		if err != nil {
			return nil, fmt.Errorf("missing values: %w", err)
		}
		rep.Missing = miss
		dups := cl.DuplicateRowCount()
		rep.Duplicates = &dups
	}
	return rep, nil
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Preview != nil {
		b.WriteString("\n[HEAD]\n")
		writePreview(&b, r.Preview)
	}
	if r.Dims != nil {
		b.WriteString("\n[DIMENSIONS]\n")
		b.WriteString(r.Dims.Sentence())
		b.WriteString("\n")

		b.WriteString("\n[STATISTICS]\n")
		if len(r.Stats) == 0 {
			b.WriteString("(no numerical features)\n")
		} else {
			b.WriteString("Concise Statistic Summary For Numerical Features:\n")
			writeStats(&b, r.Stats)
		}
	}
	if r.Schema != nil {
		b.WriteString("\n[SCHEMA]\n")
		for _, c := range r.Schema.Columns {
			b.WriteString(fmt.Sprintf("- %s: %s (non-null %d)\n", safeName(c.Name), c.Kind, c.NonNull))
		}
		b.WriteString("\nData Types:\n")
		for _, tc := range r.Schema.Counts {
			b.WriteString(fmt.Sprintf("%d columns of type %s\n", tc.Count, tc.Kind))
		}
	}
	if r.Missing != nil {
		b.WriteString("\n[MISSING VALUES]\n")
		for _, m := range r.Missing {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(m.Column), m.Count))
		}
	}
	if r.Duplicates != nil {
		b.WriteString("\n[DUPLICATES]\n")
		b.WriteString(fmt.Sprintf("Number of Duplicate Rows: %d\n", *r.Duplicates))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writePreview(b *strings.Builder, p *Preview) {
	cols := make([]string, 0, len(p.Columns)+1)
	for _, c := range p.Columns {
		cols = append(cols, safeName(c))
	}
	// Elided columns sit between the leading and trailing halves.
	split := -1
	if p.Elided > 0 {
		split = (len(p.Columns) + 1) / 2
		cols = insertAt(cols, split, "...")
	}
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
	for _, row := range p.Rows {
		vals := make([]string, 0, len(row)+1)
		for _, v := range row {
			vals = append(vals, safeVal(v))
		}
		if split >= 0 {
			vals = insertAt(vals, split, "...")
		}
		b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
	}
	if p.Elided > 0 {
		b.WriteString(fmt.Sprintf("(%d columns hidden)\n", p.Elided))
	}
}

func writeStats(b *strings.Builder, stats []Describe) {
	b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, d := range stats {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			safeVal(d.Column), d.Count, num(d.Mean), num(d.Std), num(d.Min), num(d.Q25), num(d.Q50), num(d.Q75), num(d.Max)))
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.6g", v)
}

func insertAt(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

// safeVal keeps a cell on one Markdown table row.
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
