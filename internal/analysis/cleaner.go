package analysis

import (
	"sort"
	"strings"

	"github.com/KaramelBytes/edaloom-cli/internal/table"
)

// Cleaner audits data quality. It is read-only.
type Cleaner struct {
	t *table.Table
}

func NewCleaner(t *table.Table) *Cleaner { return &Cleaner{t: t} }

// ColumnCount pairs a column with a count.
type ColumnCount struct {
	Column string
	Count  int
}

// MissingValueReport returns the missing-entry count of every column, in
// column order.
func (c *Cleaner) MissingValueReport() ([]ColumnCount, error) {
	names := c.t.Names()
	out := make([]ColumnCount, 0, len(names))
	for _, name := range names {
		miss, err := c.t.Missing(name)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, m := range miss {
			if m {
				n++
			}
		}
		out = append(out, ColumnCount{Column: name, Count: n})
	}
	return out, nil
}

// DuplicateRowCount counts rows identical to an earlier row. Missing cells
// compare equal to each other.
func (c *Cleaner) DuplicateRowCount() int {
	seen := make(map[string]struct{}, c.t.Rows())
	dups := 0
	for _, rec := range c.t.Records() {
		key := strings.Join(rec, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// CategoryCount is the frequency of one category label.
type CategoryCount struct {
	Value string
	Count int
}

// ValueCounts tallies the non-missing values of a column, ordered by
// descending count and then ascending label.
func ValueCounts(t *table.Table, column string) ([]CategoryCount, error) {
	vals, err := t.Values(column)
	if err != nil {
		return nil, err
	}
	miss, err := t.Missing(column)
	if err != nil {
		return nil, err
	}
	cats := map[string]int{}
	for i, v := range vals {
		if miss[i] {
			continue
		}
		cats[v]++
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	return tops, nil
}
