package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/edaloom-cli/internal/utils"
)

// Formats lists the output formats a Renderer accepts.
func Formats() []string { return []string{"png", "svg", "pdf", "json"} }

// FormatFromPath infers the output format from a file extension, or returns
// fallback when the extension is not a known format.
func FormatFromPath(path, fallback string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats() {
		if ext == f {
			return f
		}
	}
	return fallback
}

// Renderer draws figures with gonum/plot.
type Renderer struct {
	logger log.Logger
}

// NewRenderer returns a Renderer. A nil logger discards output.
func NewRenderer(logger log.Logger) *Renderer {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Renderer{logger: logger}
}

// WriteFile renders fig to path atomically.
func (r *Renderer) WriteFile(fig *Figure, path, format string) error {
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return r.Render(fig, w, format)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	level.Debug(r.logger).Log("msg", "wrote figure", "figure", fig.Name, "path", path, "format", format)
	return nil
}

// Render writes fig to w in the given format. Hidden slots are left blank.
func (r *Renderer) Render(fig *Figure, w io.Writer, format string) error {
	if fig == nil {
		return fmt.Errorf("nil figure")
	}
	format = strings.ToLower(format)
	if format == "json" {
		b, err := utils.PrettyJSON(fig)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	if fig.Layout.Rows == 0 {
		return fmt.Errorf("figure %q has no panels to draw", fig.Name)
	}

	grid := make([][]*plot.Plot, fig.Layout.Rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, fig.Layout.SlotsPerRow)
	}
	for i, panel := range fig.Panels {
		if !fig.Layout.Visible(i) {
			break
		}
		p, err := buildPlot(panel)
		if err != nil {
			return fmt.Errorf("panel %q: %w", panel.Column, err)
		}
		row, col := fig.Layout.Cell(i)
		grid[row][col] = p
	}

	c, err := draw.NewFormattedCanvas(vg.Length(fig.Width)*vg.Inch, vg.Length(fig.Height)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	dc := draw.New(c)
	tiles := draw.Tiles{
		Rows:      fig.Layout.Rows,
		Cols:      fig.Layout.SlotsPerRow,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i, p := range grid[j] {
			if p != nil {
				p.Draw(canvases[j][i])
			}
		}
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	level.Debug(r.logger).Log("msg", "rendered figure", "figure", fig.Name, "panels", len(fig.Panels), "hidden", fig.Layout.Hidden())
	return nil
}

func buildPlot(panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel
	p.Y.Min = 0
	if panel.Grid {
		p.Add(plotter.NewGrid())
	}

	switch panel.Kind {
	case PanelHistogram:
		if err := addHistogram(p, panel); err != nil {
			return nil, err
		}
	case PanelBar, PanelGroupedBar:
		if err := addBars(p, panel); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown panel kind %q", panel.Kind)
	}

	if panel.XLabelRotation != 0 {
		p.X.Tick.Label.Rotation = panel.XLabelRotation * math.Pi / 180
		p.X.Tick.Label.XAlign = text.XRight
		p.X.Tick.Label.YAlign = text.YCenter
	}
	return p, nil
}

func addHistogram(p *plot.Plot, panel Panel) error {
	if len(panel.Bins) == 0 {
		return nil
	}
	fill, err := parseHex(Colors("default", 1)[0], 0.6)
	if err != nil {
		return err
	}
	bins := make([]plotter.HistogramBin, len(panel.Bins))
	for i, b := range panel.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     panel.Bins[0].Max - panel.Bins[0].Min,
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
	p.Add(h)

	if len(panel.Density) > 0 {
		xys := make(plotter.XYs, len(panel.Density))
		for i, pt := range panel.Density {
			xys[i].X, xys[i].Y = pt.X, pt.Y
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = color.NRGBA{R: 0x1f, G: 0x3b, B: 0x73, A: 0xff}
		p.Add(line)
	}
	return nil
}

func addBars(p *plot.Plot, panel Panel) error {
	if len(panel.Categories) == 0 || len(panel.Series) == 0 {
		return nil
	}
	n := len(panel.Series)
	width := vg.Points(40) / vg.Length(n)
	if len(panel.Categories) > 10 {
		width = vg.Points(20) / vg.Length(n)
	}
	alpha := 1.0
	if panel.Kind == PanelBar {
		alpha = 0.7
	}
	if panel.LegendTitle != "" {
		p.Legend.Add(panel.LegendTitle)
		p.Legend.Top = true
	}
	for i, s := range panel.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Counts), width)
		if err != nil {
			return err
		}
		fill, err := parseHex(s.Color, alpha)
		if err != nil {
			return err
		}
		bars.Color = fill
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * (vg.Length(i) - vg.Length(n-1)/2)
		p.Add(bars)
		if panel.Kind == PanelGroupedBar {
			p.Legend.Add(s.Name, bars)
		}
	}
	p.NominalX(panel.Categories...)
	return nil
}
