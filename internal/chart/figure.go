// Package chart lays out per-column charts on a grid and renders them.
//
// Builders (Histograms, Frequencies, TargetCharts) validate their inputs and
// return a Figure, a plain description of what to draw. A Renderer turns a
// Figure into an image or its JSON form.
package chart

// PanelKind selects how a panel is drawn.
type PanelKind string

const (
	PanelHistogram  PanelKind = "histogram"
	PanelBar        PanelKind = "bar"
	PanelGroupedBar PanelKind = "grouped_bar"
)

// Figure is a complete chart description: a canvas size, a grid layout and one
// panel per visible slot, in slot order.
type Figure struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width_in"`
	Height float64 `json:"height_in"`
	Layout Layout  `json:"layout"`
	Panels []Panel `json:"panels"`
}

// Panel is one chart in a figure slot.
type Panel struct {
	Kind   PanelKind `json:"kind"`
	Column string    `json:"column"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
	// XLabelRotation is in degrees.
	XLabelRotation float64 `json:"x_label_rotation,omitempty"`
	Grid           bool    `json:"grid"`

	// Histogram panels.
	Bins    []Bin   `json:"bins,omitempty"`
	Density []Point `json:"density,omitempty"`

	// Bar and grouped bar panels. Series[i].Counts aligns with Categories.
	Categories  []string `json:"categories,omitempty"`
	Series      []Series `json:"series,omitempty"`
	LegendTitle string   `json:"legend_title,omitempty"`
	Palette     string   `json:"palette,omitempty"`
}

// Bin is a histogram bin covering [Min, Max).
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Series is one colored set of bars.
type Series struct {
	Name   string    `json:"name"`
	Counts []float64 `json:"counts"`
	Color  string    `json:"color"`
}
