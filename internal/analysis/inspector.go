package analysis

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

// DisplayOptions controls how previews are formatted. It is passed per call.
type DisplayOptions struct {
	// MaxColumns limits columns shown in a preview; 0 shows all.
	MaxColumns int
	// MaxCellWidth truncates long cells; 0 disables truncation.
	MaxCellWidth int
}

// Inspector reports structural facts about a table. It never mutates it.
type Inspector struct {
	t *table.Table
}

func NewInspector(t *table.Table) *Inspector { return &Inspector{t: t} }

// Preview is the first rows of a table, ready for display.
type Preview struct {
	Columns []string
	Rows    [][]string
	// Elided is the number of middle columns hidden by MaxColumns.
	Elided int
}

// PreviewRows returns the first n rows (5 when n <= 0).
func (in *Inspector) PreviewRows(n int, opt DisplayOptions) *Preview {
	if n <= 0 {
		n = 5
	}
	if n > in.t.Rows() {
		n = in.t.Rows()
	}
	names := in.t.Names()
	keep := columnWindow(len(names), opt.MaxColumns)
	p := &Preview{Elided: len(names) - len(keep)}
	for _, j := range keep {
		p.Columns = append(p.Columns, names[j])
	}
	for i := 0; i < n; i++ {
		row := in.t.Row(i)
		out := make([]string, len(keep))
		for k, j := range keep {
			out[k] = truncate(row[j], opt.MaxCellWidth)
		}
		p.Rows = append(p.Rows, out)
	}
	return p
}

// columnWindow picks the leading and trailing column indexes shown when a
// preview is limited to limit columns.
func columnWindow(n, limit int) []int {
	idx := make([]int, 0, n)
	if limit <= 0 || n <= limit {
		for i := 0; i < n; i++ {
			idx = append(idx, i)
		}
		return idx
	}
	head := (limit + 1) / 2
	tail := limit - head
	for i := 0; i < head; i++ {
		idx = append(idx, i)
	}
	for i := n - tail; i < n; i++ {
		idx = append(idx, i)
	}
	return idx
}

// truncate cuts s to width runes, ending in "...".
func truncate(s string, width int) string {
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// SummaryStatistics describes every numeric column, one row per column.
func (in *Inspector) SummaryStatistics() ([]Describe, error) {
	var out []Describe
	for _, name := range in.t.NumericColumns() {
		vals, err := in.t.Floats(name)
		if err != nil {
			return nil, err
		}
		out = append(out, describe(name, vals))
	}
	return out, nil
}

// Dimensions is the shape of a table.
type Dimensions struct {
	Rows int
	Cols int
}

func (d Dimensions) Sentence() string {
	return fmt.Sprintf("We have %d Rows and %d Columns in our DataFrame.", d.Rows, d.Cols)
}

func (in *Inspector) Dimensions() Dimensions {
	return Dimensions{Rows: in.t.Rows(), Cols: in.t.Cols()}
}

// ColumnInfo is one line of a schema report.
type ColumnInfo struct {
	Name    string
	Kind    table.Kind
	NonNull int
}

// TypeCount is the number of columns sharing a kind.
type TypeCount struct {
	Kind  table.Kind
	Count int
}

// Schema lists column kinds and how many columns share each kind.
type Schema struct {
	Columns []ColumnInfo
	Counts  []TypeCount
}

// SchemaReport returns kinds and non-null counts per column. Counts are
// ordered by descending count, ties by kind name.
func (in *Inspector) SchemaReport() (*Schema, error) {
	s := &Schema{}
	kinds := in.t.Kinds()
	tally := map[table.Kind]int{}
	for i, name := range in.t.Names() {
		miss, err := in.t.Missing(name)
		if err != nil {
			return nil, err
		}
		nn := 0
		for _, m := range miss {
			if !m {
				nn++
			}
		}
		s.Columns = append(s.Columns, ColumnInfo{Name: name, Kind: kinds[i], NonNull: nn})
		tally[kinds[i]]++
	}
	for k, c := range tally {
		s.Counts = append(s.Counts, TypeCount{Kind: k, Count: c})
	}
	sort.Slice(s.Counts, func(i, j int) bool {
		if s.Counts[i].Count == s.Counts[j].Count {
			return s.Counts[i].Kind < s.Counts[j].Kind
		}
		return s.Counts[i].Count > s.Counts[j].Count
	})
	return s, nil
}
