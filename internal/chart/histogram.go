package chart

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

const (
	// HistogramSlotsPerRow is the grid width of the distribution figure.
	HistogramSlotsPerRow = 5
	// FrequencySlotsPerRow is the grid width of the categorical figure.
	FrequencySlotsPerRow = 3

	maxAutoBins = 100
	kdeSamples  = 200
)

// GridOptions configures the grid-laid-out figures.
type GridOptions struct {
	// SlotsPerRow overrides the variant's default grid width when > 0.
	SlotsPerRow int
	// Bins fixes the histogram bin count; 0 picks one from the data.
	Bins int
	// KDE overlays a density curve on histograms.
	KDE bool
}

// Histograms lays out one distribution histogram per numeric column.
// Every column is validated before any panel is built.
func Histograms(t *table.Table, columns []string, opt GridOptions) (*Figure, error) {
	if len(columns) == 0 {
		return nil, &table.EmptyInputError{Op: "histograms"}
	}
	if err := t.Require(columns...); err != nil {
		return nil, err
	}
	data := make([][]float64, len(columns))
	for i, col := range columns {
		vals, err := t.Floats(col)
		if err != nil {
			return nil, err
		}
		data[i] = vals
	}
	slots := opt.SlotsPerRow
	if slots == 0 {
		slots = HistogramSlotsPerRow
	}
	layout, err := NewLayout(len(columns), slots)
	if err != nil {
		return nil, err
	}
	fig := &Figure{
		Name:   "histograms",
		Width:  20,
		Height: 4 * float64(layout.Rows),
		Layout: layout,
	}
	for i, col := range columns {
		p := Panel{
			Kind:   PanelHistogram,
			Column: col,
			Title:  col,
			XLabel: "Value",
			YLabel: "Frequency",
			Bins:   histogramBins(data[i], opt.Bins),
		}
		if opt.KDE && len(p.Bins) > 0 {
			p.Density = densityCurve(data[i], p.Bins[0].Max-p.Bins[0].Min)
		}
		fig.Panels = append(fig.Panels, p)
	}
	return fig, nil
}

// histogramBins splits [min, max] into n equal bins; the last bin is closed.
func histogramBins(vals []float64, n int) []Bin {
	if len(vals) == 0 {
		return nil
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if n <= 0 {
		n = autoBinCount(vals, lo, hi)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Min: lo + float64(i)*width, Max: lo + float64(i+1)*width}
	}
	bins[n-1].Max = hi
	for _, v := range vals {
		idx := int(math.Floor((v - lo) / width))
		if idx >= n {
			idx = n - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].Count++
	}
	return bins
}

// autoBinCount takes the larger of the Sturges and Freedman-Diaconis estimates.
func autoBinCount(vals []float64, lo, hi float64) int {
	if lo == hi {
		return 1
	}
	n := len(vals)
	best := int(math.Ceil(math.Log2(float64(n)))) + 1
	sorted := make([]float64, n)
	copy(sorted, vals)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	if iqr > 0 {
		h := 2 * iqr / math.Cbrt(float64(n))
		if fd := int(math.Ceil((hi - lo) / h)); fd > best {
			best = fd
		}
	}
	if best > maxAutoBins {
		best = maxAutoBins
	}
	if best < 1 {
		best = 1
	}
	return best
}

// densityCurve is a Gaussian KDE with Scott's bandwidth, scaled to histogram
// counts for bins of binWidth. Constant data has no curve.
func densityCurve(vals []float64, binWidth float64) []Point {
	if len(vals) < 2 {
		return nil
	}
	std := stat.StdDev(vals, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	bw := std * math.Pow(float64(len(vals)), -0.2)
	lo, hi := floats.Min(vals), floats.Max(vals)
	pts := make([]Point, kdeSamples)
	for i := range pts {
		x := lo + (hi-lo)*float64(i)/float64(kdeSamples-1)
		var sum float64
		for _, v := range vals {
			sum += distuv.UnitNormal.Prob((x - v) / bw)
		}
		pts[i] = Point{X: x, Y: sum / bw * binWidth}
	}
	return pts
}
