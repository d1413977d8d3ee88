package chart

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

// TargetSpec names a feature column charted against the target, with a
// palette hint for the target levels.
type TargetSpec struct {
	Feature string `mapstructure:"feature" yaml:"feature" json:"feature"`
	Palette string `mapstructure:"palette" yaml:"palette" json:"palette"`
}

// DefaultTargetSpecs are the churn dataset's plan and area breakdowns.
func DefaultTargetSpecs() []TargetSpec {
	return []TargetSpec{
		{Feature: "area code", Palette: "Set2"},
		{Feature: "voice mail plan", Palette: "Spectral"},
		{Feature: "international plan", Palette: "twilight"},
	}
}

// ParseTargetSpec parses "feature" or "feature:palette". The suffix is only
// split off when it names a known palette.
func ParseTargetSpec(s string) (TargetSpec, error) {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, ":"); i > 0 {
		hint := strings.TrimSpace(s[i+1:])
		if _, ok := palettes[strings.ToLower(hint)]; ok {
			return TargetSpec{Feature: strings.TrimSpace(s[:i]), Palette: hint}, nil
		}
	}
	if s == "" {
		return TargetSpec{}, fmt.Errorf("empty feature spec")
	}
	return TargetSpec{Feature: s}, nil
}

// TargetCharts builds one standalone count chart per TargetSpec: feature categories
// on x, one bar series per target level. Rows missing either value are skipped.
func TargetCharts(t *table.Table, target string, specs []TargetSpec) ([]*Figure, error) {
	if len(specs) == 0 {
		return nil, &table.EmptyInputError{Op: "target charts"}
	}
	if err := t.Require(target); err != nil {
		return nil, err
	}
	for _, s := range specs {
		if err := t.Require(s.Feature); err != nil {
			return nil, err
		}
	}
	levels, err := categoryOrder(t, target)
	if err != nil {
		return nil, err
	}
	targetVals, _ := t.Values(target)
	targetMiss, _ := t.Missing(target)
	title := cases.Title(language.English)

	layout, _ := NewLayout(1, 1)
	var out []*Figure
	for _, s := range specs {
		cats, err := categoryOrder(t, s.Feature)
		if err != nil {
			return nil, err
		}
		catIdx := indexOf(cats)
		lvlIdx := indexOf(levels)
		counts := make([][]float64, len(levels))
		for i := range counts {
			counts[i] = make([]float64, len(cats))
		}
		vals, _ := t.Values(s.Feature)
		miss, _ := t.Missing(s.Feature)
		for i := range vals {
			if miss[i] || targetMiss[i] {
				continue
			}
			counts[lvlIdx[targetVals[i]]][catIdx[vals[i]]]++
		}
		colors := Colors(s.Palette, len(levels))
		series := make([]Series, len(levels))
		for i, lvl := range levels {
			series[i] = Series{Name: lvl, Counts: counts[i], Color: colors[i]}
		}
		feature := title.String(s.Feature)
		out = append(out, &Figure{
			Name:   "target-" + slug(s.Feature),
			Width:  10,
			Height: 6,
			Layout: layout,
			Panels: []Panel{{
				Kind:           PanelGroupedBar,
				Column:         s.Feature,
				Title:          fmt.Sprintf("Relationship between %s and %s", feature, title.String(target)),
				XLabel:         feature,
				YLabel:         "Count",
				XLabelRotation: 45,
				Categories:     cats,
				Series:         series,
				LegendTitle:    target,
				Palette:        s.Palette,
			}},
		})
	}
	return out, nil
}

// categoryOrder lists the distinct non-missing values of a column: ascending
// by value for numeric columns, by first appearance otherwise.
func categoryOrder(t *table.Table, column string) ([]string, error) {
	vals, err := t.Values(column)
	if err != nil {
		return nil, err
	}
	miss, err := t.Missing(column)
	if err != nil {
		return nil, err
	}
	kind, err := t.Kind(column)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var out []string
	for i, v := range vals {
		if miss[i] {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if kind.Numeric() {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := strconv.ParseFloat(out[i], 64)
			b, _ := strconv.ParseFloat(out[j], 64)
			return a < b
		})
	}
	return out, nil
}

func indexOf(vals []string) map[string]int {
	m := make(map[string]int, len(vals))
	for i, v := range vals {
		m[v] = i
	}
	return m
}

func slug(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "feature"
	}
	return out
}
