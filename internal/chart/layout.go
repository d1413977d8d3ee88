package chart

import "fmt"

// Layout is a grid of chart slots with a fixed number of slots per row.
type Layout struct {
	Subjects    int `json:"subjects"`
	SlotsPerRow int `json:"slots_per_row"`
	Rows        int `json:"rows"`
	TotalSlots  int `json:"total_slots"`
}

// NewLayout sizes the smallest grid that holds subjects charts, so the last
// row is never entirely empty. Zero subjects yield a zero-row layout.
func NewLayout(subjects, slotsPerRow int) (Layout, error) {
	if slotsPerRow < 1 {
		return Layout{}, fmt.Errorf("slots per row must be at least 1, got %d", slotsPerRow)
	}
	if subjects < 0 {
		return Layout{}, fmt.Errorf("subject count must not be negative, got %d", subjects)
	}
	rows := (subjects + slotsPerRow - 1) / slotsPerRow
	return Layout{
		Subjects:    subjects,
		SlotsPerRow: slotsPerRow,
		Rows:        rows,
		TotalSlots:  rows * slotsPerRow,
	}, nil
}

// Hidden is the number of trailing slots left without a chart.
func (l Layout) Hidden() int { return l.TotalSlots - l.Subjects }

// Visible reports whether slot i holds a chart.
func (l Layout) Visible(i int) bool { return i >= 0 && i < l.Subjects }

// Cell returns the row and column of slot i.
func (l Layout) Cell(i int) (row, col int) { return i / l.SlotsPerRow, i % l.SlotsPerRow }
