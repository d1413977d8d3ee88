package table

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind is the inferred value kind of a column.
type Kind string

const (
	KindInt    Kind = Kind(series.Int)
	KindFloat  Kind = Kind(series.Float)
	KindBool   Kind = Kind(series.Bool)
	KindString Kind = Kind(series.String)
)

// Numeric reports whether values of this kind are numbers.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// NATokens are the cell values treated as missing on load.
var NATokens = []string{"", "NA", "NaN", "N/A", "null", "<nil>"}

// Table is a read-only, column-oriented view over a gota DataFrame.
type Table struct {
	Name string
	df   dataframe.DataFrame
}

// Empty returns a table with no rows and no columns.
func Empty(name string) *Table {
	return &Table{Name: name}
}

// New wraps an existing DataFrame.
func New(name string, df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("dataframe: %w", df.Err)
	}
	return &Table{Name: name, df: df}, nil
}

// FromRecords builds a table from a header row followed by data rows.
// Column kinds are detected from the data; NATokens become missing values.
// Short rows must already be padded to the header width.
func FromRecords(name string, records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return Empty(name), nil
	}
	header := records[0]
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), len(header))
		}
	}
	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, h := range header {
			cols[i] = series.New([]string{}, series.String, h)
		}
		return New(name, dataframe.New(cols...))
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NATokens),
	)
	return New(name, df)
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.df.Nrow() }

// Cols returns the number of columns.
func (t *Table) Cols() int { return t.df.Ncol() }

// Names returns column names in table order.
func (t *Table) Names() []string {
	if t.df.Ncol() == 0 {
		return nil
	}
	return t.df.Names()
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	for _, n := range t.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Require returns a *MissingColumnError for the first absent name.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return &MissingColumnError{Column: n, Available: t.Names()}
		}
	}
	return nil
}

// Column returns the named series.
func (t *Table) Column(name string) (series.Series, error) {
	if err := t.Require(name); err != nil {
		return series.Series{}, err
	}
	return t.df.Col(name), nil
}

// Kind returns the inferred kind of the named column.
func (t *Table) Kind(name string) (Kind, error) {
	s, err := t.Column(name)
	if err != nil {
		return "", err
	}
	return Kind(s.Type()), nil
}

// Kinds returns the kind of every column in table order.
func (t *Table) Kinds() []Kind {
	if t.df.Ncol() == 0 {
		return nil
	}
	types := t.df.Types()
	out := make([]Kind, len(types))
	for i, tp := range types {
		out[i] = Kind(tp)
	}
	return out
}

// NumericColumns returns the names of int and float columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	kinds := t.Kinds()
	for i, n := range t.Names() {
		if kinds[i].Numeric() {
			out = append(out, n)
		}
	}
	return out
}

// CategoricalColumns returns the names of string and bool columns in table order.
func (t *Table) CategoricalColumns() []string {
	var out []string
	kinds := t.Kinds()
	for i, n := range t.Names() {
		if !kinds[i].Numeric() {
			out = append(out, n)
		}
	}
	return out
}

// Select returns a table restricted to the given columns, in the given order.
func (t *Table) Select(names []string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return Empty(t.Name), nil
	}
	return New(t.Name, t.df.Select(names))
}

// Missing returns a per-row missing flag for the named column.
func (t *Table) Missing(name string) ([]bool, error) {
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return s.IsNaN(), nil
}

// Values returns the named column rendered as text; missing cells are "NaN".
func (t *Table) Values(name string) ([]string, error) {
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]string, s.Len())
	for i := range out {
		out[i] = cellText(s, i)
	}
	return out, nil
}

// Floats returns the non-missing values of a numeric column.
// A non-numeric column yields a *MalformedDataError naming the first bad cell.
func (t *Table) Floats(name string) ([]float64, error) {
	s, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	miss := s.IsNaN()
	if !Kind(s.Type()).Numeric() {
		recs := s.Records()
		for i, v := range recs {
			if miss[i] {
				continue
			}
			if _, perr := strconv.ParseFloat(v, 64); perr != nil {
				return nil, &MalformedDataError{Column: name, Row: i, Value: v, Want: "numeric"}
			}
		}
		return nil, &MalformedDataError{Column: name, Row: -1, Want: "numeric"}
	}
	all := s.Float()
	out := make([]float64, 0, len(all))
	for i, v := range all {
		if miss[i] {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// Row returns the cells of row i rendered as text.
func (t *Table) Row(i int) []string {
	out := make([]string, t.Cols())
	for j, n := range t.Names() {
		out[j] = cellText(t.df.Col(n), i)
	}
	return out
}

// Records returns all data rows rendered as text, without the header.
func (t *Table) Records() [][]string {
	if t.Cols() == 0 || t.Rows() == 0 {
		return nil
	}
	cols := make([]series.Series, t.Cols())
	for j, n := range t.Names() {
		cols[j] = t.df.Col(n)
	}
	out := make([][]string, t.Rows())
	for i := range out {
		rec := make([]string, len(cols))
		for j, s := range cols {
			rec[j] = cellText(s, i)
		}
		out[i] = rec
	}
	return out
}

// cellText renders cell i of s. Floats use the shortest exact decimal form.
func cellText(s series.Series, i int) string {
	e := s.Elem(i)
	if s.Type() == series.Float && !e.IsNA() {
		return strconv.FormatFloat(e.Float(), 'f', -1, 64)
	}
	return e.String()
}
