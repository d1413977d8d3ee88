package chart

import (
	"github.com/KaramelBytes/edaloom-cli/internal/analysis"
	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

// Frequencies lays out one category-frequency bar chart per column. Float
// columns are rejected as continuous.
func Frequencies(t *table.Table, columns []string, opt GridOptions) (*Figure, error) {
	if len(columns) == 0 {
		return nil, &table.EmptyInputError{Op: "frequencies"}
	}
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	counts := make([][]analysis.CategoryCount, len(columns))
	for i, col := range columns {
		kind, err := t.Kind(col)
		if err != nil {
			return nil, err
		}
		if kind == table.KindFloat {
			return nil, &table.MalformedDataError{Column: col, Row: -1, Want: "categorical"}
		}
		if counts[i], err = analysis.ValueCounts(t, col); err != nil {
			return nil, err
		}
	}
	slots := opt.SlotsPerRow
	if slots == 0 {
		slots = FrequencySlotsPerRow
	}
	layout, err := NewLayout(len(columns), slots)
	if err != nil {
		return nil, err
	}
	fig := &Figure{
		Name:   "frequencies",
		Width:  15,
		Height: 5 * float64(layout.Rows),
		Layout: layout,
	}
	color := Colors("skyblue", 1)[0]
	for i, col := range columns {
		cats := make([]string, len(counts[i]))
		vals := make([]float64, len(counts[i]))
		for j, c := range counts[i] {
			cats[j] = c.Value
			vals[j] = float64(c.Count)
		}
		fig.Panels = append(fig.Panels, Panel{
			Kind:           PanelBar,
			Column:         col,
			Title:          "Bar Chart for " + col,
			XLabel:         "Categories",
			YLabel:         "Frequency",
			XLabelRotation: 45,
			Categories:     cats,
			Series:         []Series{{Name: col, Counts: vals, Color: color}},
			Palette:        "skyblue",
		})
	}
	return fig, nil
}
