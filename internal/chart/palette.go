package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

type palette struct {
	stops []string
	// Qualitative palettes cycle their stops; the rest sample them evenly.
	qualitative bool
}

var palettes = map[string]palette{
	"default": {qualitative: true, stops: []string{
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	}},
	"set2": {qualitative: true, stops: []string{
		"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
	}},
	"spectral": {stops: []string{
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b", "#ffffbf",
		"#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	}},
	"twilight": {stops: []string{
		"#e2d9e2", "#9ebbc9", "#6785be", "#5e43a5", "#421b48",
		"#6a1f43", "#a9534a", "#c9a18d", "#e2d9e2",
	}},
	"skyblue": {qualitative: true, stops: []string{"#87ceeb"}},
}

// PaletteNames lists the accepted palette hints.
func PaletteNames() []string {
	return []string{"default", "Set2", "Spectral", "twilight", "skyblue"}
}

// Colors returns n hex colors from the named palette. Unknown names fall back
// to the default palette.
func Colors(name string, n int) []string {
	p, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		p = palettes["default"]
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	switch {
	case p.qualitative:
		for i := range out {
			out[i] = p.stops[i%len(p.stops)]
		}
	case n == 1:
		out[0] = p.stops[len(p.stops)/2]
	default:
		last := len(p.stops) - 1
		for i := range out {
			idx := int(math.Round(float64(i) * float64(last) / float64(n-1)))
			out[i] = p.stops[idx]
		}
	}
	return out
}

// parseHex converts "#rrggbb" to a color with the given alpha in [0,1].
func parseHex(s string, alpha float64) (color.NRGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(alpha * 255))}, nil
}
