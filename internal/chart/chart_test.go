package chart

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

const churnCSV = `state,account length,area code,international plan,voice mail plan,total day minutes,churn
KS,128,415,no,yes,265.1,False
OH,107,415,no,yes,161.6,False
NJ,137,415,no,no,243.4,False
OH,84,408,yes,no,299.4,False
OK,75,415,yes,no,166.7,False
AL,118,510,yes,no,223.4,False
MA,121,510,no,yes,218.2,True
MO,147,415,yes,no,157,True
`

func loadChurn(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(churnCSV), "churn.csv", table.LoadOptions{})
	require.NoError(t, err)
	return tbl
}

func TestNewLayout(t *testing.T) {
	cases := []struct {
		subjects, slots     int
		rows, total, hidden int
	}{
		{1, 5, 1, 5, 4},
		{5, 5, 1, 5, 0},
		{6, 3, 2, 6, 0},
		{7, 3, 3, 9, 2},
		{0, 3, 0, 0, 0},
	}
	for _, c := range cases {
		l, err := NewLayout(c.subjects, c.slots)
		require.NoError(t, err)
		require.Equal(t, c.rows, l.Rows, "rows for %d/%d", c.subjects, c.slots)
		require.Equal(t, c.total, l.TotalSlots)
		require.Equal(t, c.hidden, l.Hidden())
	}

	_, err := NewLayout(3, 0)
	require.Error(t, err)
}

func TestLayoutProperties(t *testing.T) {
	for s := 0; s <= 20; s++ {
		for k := 1; k <= 6; k++ {
			l, err := NewLayout(s, k)
			require.NoError(t, err)
			require.GreaterOrEqual(t, l.TotalSlots, s)
			require.Less(t, l.Hidden(), k)
			if s > 0 {
				// the last row always holds at least one chart
				require.Greater(t, s, (l.Rows-1)*k)
			}
			for i := 0; i < l.TotalSlots; i++ {
				require.Equal(t, i < s, l.Visible(i))
			}
		}
	}
	l, _ := NewLayout(7, 3)
	row, col := l.Cell(4)
	require.Equal(t, 1, row)
	require.Equal(t, 1, col)
}

func TestHistograms(t *testing.T) {
	tbl := loadChurn(t)
	fig, err := Histograms(tbl, []string{"account length"}, GridOptions{Bins: 4, KDE: true})
	require.NoError(t, err)
	require.Equal(t, 1, fig.Layout.Rows)
	require.Equal(t, 5, fig.Layout.TotalSlots)
	require.Equal(t, 4, fig.Layout.Hidden())
	require.Equal(t, 20.0, fig.Width)
	require.Equal(t, 4.0, fig.Height)
	require.Len(t, fig.Panels, 1)

	p := fig.Panels[0]
	require.Equal(t, "account length", p.Title)
	require.Equal(t, "Value", p.XLabel)
	require.Equal(t, "Frequency", p.YLabel)
	require.Len(t, p.Bins, 4)
	require.Equal(t, 75.0, p.Bins[0].Min)
	require.Equal(t, 147.0, p.Bins[3].Max)
	total := 0
	for _, b := range p.Bins {
		total += b.Count
	}
	require.Equal(t, tbl.Rows(), total)
	require.Len(t, p.Density, kdeSamples)
}

func TestHistogramsSixColumnsFillTwoRows(t *testing.T) {
	tbl := loadChurn(t)
	cols := []string{"account length", "area code", "total day minutes", "account length", "area code", "total day minutes"}
	fig, err := Histograms(tbl, cols, GridOptions{SlotsPerRow: 3})
	require.NoError(t, err)
	require.Equal(t, 2, fig.Layout.Rows)
	require.Equal(t, 0, fig.Layout.Hidden())
	require.Len(t, fig.Panels, 6)
}

func TestHistogramErrors(t *testing.T) {
	tbl := loadChurn(t)

	_, err := Histograms(tbl, nil, GridOptions{})
	var empty *table.EmptyInputError
	require.True(t, errors.As(err, &empty))

	_, err = Histograms(tbl, []string{"account length", "tenure"}, GridOptions{})
	var missing *table.MissingColumnError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "tenure", missing.Column)

	_, err = Histograms(tbl, []string{"state"}, GridOptions{})
	var malformed *table.MalformedDataError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "state", malformed.Column)
}

func TestHistogramConstantColumn(t *testing.T) {
	bins := histogramBins([]float64{3, 3, 3}, 0)
	require.Len(t, bins, 1)
	require.Equal(t, 3, bins[0].Count)
	require.Nil(t, densityCurve([]float64{3, 3, 3}, 1))
}

func TestFrequencies(t *testing.T) {
	tbl := loadChurn(t)
	fig, err := Frequencies(tbl, []string{"international plan", "voice mail plan", "churn", "area code"}, GridOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, fig.Layout.Rows)
	require.Equal(t, 2, fig.Layout.Hidden())
	require.Equal(t, 15.0, fig.Width)
	require.Equal(t, 10.0, fig.Height)

	p := fig.Panels[0]
	require.Equal(t, "Bar Chart for international plan", p.Title)
	require.Equal(t, "Categories", p.XLabel)
	require.Equal(t, 45.0, p.XLabelRotation)
	require.False(t, p.Grid)
	require.Equal(t, []string{"no", "yes"}, p.Categories)
	require.Equal(t, []float64{4, 4}, p.Series[0].Counts)

	area := fig.Panels[3]
	require.Equal(t, []string{"415", "510", "408"}, area.Categories)
	require.Equal(t, []float64{5, 2, 1}, area.Series[0].Counts)
}

func TestFrequenciesRejectsContinuous(t *testing.T) {
	tbl := loadChurn(t)
	_, err := Frequencies(tbl, []string{"state", "total day minutes"}, GridOptions{})
	var malformed *table.MalformedDataError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "total day minutes", malformed.Column)
}

func TestTargetCharts(t *testing.T) {
	tbl := loadChurn(t)
	figs, err := TargetCharts(tbl, "churn", DefaultTargetSpecs())
	require.NoError(t, err)
	require.Len(t, figs, 3)

	area := figs[0]
	require.Equal(t, "target-area-code", area.Name)
	require.Equal(t, 10.0, area.Width)
	require.Equal(t, 6.0, area.Height)
	p := area.Panels[0]
	require.Equal(t, "Relationship between Area Code and Churn", p.Title)
	require.Equal(t, "Area Code", p.XLabel)
	require.Equal(t, "Count", p.YLabel)
	require.Equal(t, "churn", p.LegendTitle)
	require.Equal(t, []string{"408", "415", "510"}, p.Categories)
	require.Len(t, p.Series, 2)
	require.Equal(t, "false", strings.ToLower(p.Series[0].Name))
	require.Equal(t, []float64{1, 4, 1}, p.Series[0].Counts)
	require.Equal(t, []float64{0, 1, 1}, p.Series[1].Counts)

	intl := figs[2].Panels[0]
	require.Equal(t, []string{"no", "yes"}, intl.Categories)
	require.Equal(t, "twilight", intl.Palette)
}

func TestTargetChartsErrors(t *testing.T) {
	tbl := loadChurn(t)

	_, err := TargetCharts(tbl, "churn", nil)
	var empty *table.EmptyInputError
	require.True(t, errors.As(err, &empty))

	_, err = TargetCharts(tbl, "exited", DefaultTargetSpecs())
	var missing *table.MissingColumnError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, "exited", missing.Column)

	_, err = TargetCharts(tbl, "churn", []TargetSpec{{Feature: "customer service calls"}})
	require.True(t, errors.As(err, &missing))
}

func TestTargetChartsKeepsCloseFloatLevels(t *testing.T) {
	tbl, err := table.ReadCSV(strings.NewReader("plan,score\nyes,0.1234561\nyes,0.1234562\nno,0.1234562\n"), "s.csv", table.LoadOptions{})
	require.NoError(t, err)

	figs, err := TargetCharts(tbl, "score", []TargetSpec{{Feature: "plan"}})
	require.NoError(t, err)
	p := figs[0].Panels[0]
	require.Equal(t, []string{"yes", "no"}, p.Categories)
	require.Len(t, p.Series, 2)
	require.Equal(t, "0.1234561", p.Series[0].Name)
	require.Equal(t, []float64{1, 0}, p.Series[0].Counts)
	require.Equal(t, "0.1234562", p.Series[1].Name)
	require.Equal(t, []float64{1, 1}, p.Series[1].Counts)
}

func TestParseTargetSpec(t *testing.T) {
	s, err := ParseTargetSpec("voice mail plan:Spectral")
	require.NoError(t, err)
	require.Equal(t, TargetSpec{Feature: "voice mail plan", Palette: "Spectral"}, s)

	s, err = ParseTargetSpec("ratio:1")
	require.NoError(t, err)
	require.Equal(t, "ratio:1", s.Feature)

	_, err = ParseTargetSpec("  ")
	require.Error(t, err)
}

func TestColors(t *testing.T) {
	require.Nil(t, Colors("Set2", 0))
	require.Equal(t, []string{"#66c2a5", "#fc8d62"}, Colors("Set2", 2))
	require.Equal(t, []string{"#9e0142", "#5e4fa2"}, Colors("Spectral", 2))
	require.Len(t, Colors("no-such-palette", 12), 12)

	c, err := parseHex("#87ceeb", 0.7)
	require.NoError(t, err)
	require.EqualValues(t, 0x87, c.R)
	require.InDelta(t, 178.5, float64(c.A), 1)
}

func TestRenderJSON(t *testing.T) {
	tbl := loadChurn(t)
	fig, err := Frequencies(tbl, []string{"churn"}, GridOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewRenderer(nil).Render(fig, &buf, "json"))

	var got Figure
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, fig.Layout, got.Layout)
	require.Equal(t, "Bar Chart for churn", got.Panels[0].Title)
}

func TestWriteFilePNG(t *testing.T) {
	tbl := loadChurn(t)
	r := NewRenderer(nil)
	dir := t.TempDir()

	hist, err := Histograms(tbl, []string{"account length", "total day minutes"}, GridOptions{KDE: true})
	require.NoError(t, err)
	path := filepath.Join(dir, "hist.png")
	require.NoError(t, r.WriteFile(hist, path, FormatFromPath(path, "png")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))

	figs, err := TargetCharts(tbl, "churn", DefaultTargetSpecs()[:1])
	require.NoError(t, err)
	svg := filepath.Join(dir, "target.svg")
	require.NoError(t, r.WriteFile(figs[0], svg, "svg"))
	b, err = os.ReadFile(svg)
	require.NoError(t, err)
	require.Contains(t, string(b), "<svg")
}

func TestFormatFromPath(t *testing.T) {
	require.Equal(t, "svg", FormatFromPath("out/Fig.SVG", "png"))
	require.Equal(t, "png", FormatFromPath("out/fig", "png"))
	require.Equal(t, "json", FormatFromPath("fig.json", "png"))
}
