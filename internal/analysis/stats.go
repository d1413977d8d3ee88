package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Describe holds descriptive statistics for one numeric column.
// With Count == 0 every other field is NaN; Std is NaN below two values.
type Describe struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

func describe(name string, vals []float64) Describe {
	d := Describe{Column: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}
	d.Mean, d.Std = stat.MeanStdDev(vals, nil)
	if len(vals) < 2 {
		d.Std = math.NaN()
	}
	d.Min = floats.Min(vals)
	d.Max = floats.Max(vals)
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	d.Q25 = quantile(cp, 0.25)
	d.Q50 = quantile(cp, 0.5)
	d.Q75 = quantile(cp, 0.75)
	return d
}

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
