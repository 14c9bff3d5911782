// Package dataset loads the tabular event log and exposes immutable,
// cheaply filterable views over it.
package dataset

import (
	"sort"
	"strings"
	"time"
)

// Table is a read-only view over the loaded event log. The backing store
// (headers, cells, parsed times) is shared between views; Filter returns a
// new view holding only the surviving row indices. Tables are safe for
// concurrent use once built.
type Table struct {
	headers []string
	index   map[string]int
	cells   [][]string
	times   map[int][]time.Time
	rows    []int
}

// ValueCount pairs a cell value with its occurrence count.
type ValueCount struct {
	Value string
	Count int
}

// Headers returns the column names in file order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of rows in this view.
func (t *Table) Len() int {
	return len(t.rows)
}

// Value returns the cell at view row i for the named column. Unknown
// columns yield the empty string.
func (t *Table) Value(i int, column string) string {
	col, ok := t.index[column]
	if !ok {
		return ""
	}
	row := t.cells[t.rows[i]]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// Time returns the parsed timestamp at view row i for the named column.
// The zero time means the cell did not parse or the column holds no dates.
func (t *Table) Time(i int, column string) time.Time {
	col, ok := t.index[column]
	if !ok {
		return time.Time{}
	}
	parsed, ok := t.times[col]
	if !ok {
		return time.Time{}
	}
	return parsed[t.rows[i]]
}

// IsDateColumn reports whether the named column was recognized as holding
// timestamps at load time.
func (t *Table) IsDateColumn(name string) bool {
	col, ok := t.index[name]
	if !ok {
		return false
	}
	_, ok = t.times[col]
	return ok
}

// Filter returns a new view containing the rows for which keep returns
// true. The backing store is shared; no cells are copied.
func (t *Table) Filter(keep func(i int) bool) *Table {
	kept := make([]int, 0, len(t.rows))
	for i := range t.rows {
		if keep(i) {
			kept = append(kept, t.rows[i])
		}
	}
	return &Table{
		headers: t.headers,
		index:   t.index,
		cells:   t.cells,
		times:   t.times,
		rows:    kept,
	}
}

// ValueCounts tallies non-empty values of the named column, ordered by
// descending count with ties broken by first appearance in the view.
func (t *Table) ValueCounts(column string) []ValueCount {
	col, ok := t.index[column]
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	order := make(map[string]int)
	var values []string
	for _, r := range t.rows {
		row := t.cells[r]
		if col >= len(row) {
			continue
		}
		v := row[col]
		if isNull(v) {
			continue
		}
		if _, seen := counts[v]; !seen {
			order[v] = len(values)
			values = append(values, v)
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(values))
	for _, v := range values {
		out = append(out, ValueCount{Value: v, Count: counts[v]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Value] < order[out[j].Value]
	})
	return out
}

// DistinctValues returns the unique non-empty values of the named column
// in first-appearance order.
func (t *Table) DistinctValues(column string) []string {
	col, ok := t.index[column]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.rows {
		row := t.cells[r]
		if col >= len(row) {
			continue
		}
		v := row[col]
		if isNull(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// NullRatio returns the fraction of rows whose cell in the named column is
// empty or a null marker. An empty view or unknown column yields 0.
func (t *Table) NullRatio(column string) float64 {
	col, ok := t.index[column]
	if !ok || len(t.rows) == 0 {
		return 0
	}
	nulls := 0
	for _, r := range t.rows {
		row := t.cells[r]
		if col >= len(row) || isNull(row[col]) {
			nulls++
		}
	}
	return float64(nulls) / float64(len(t.rows))
}

// NullRatioAll returns the fraction of null cells across every column of
// the view. An empty view yields 0.
func (t *Table) NullRatioAll() float64 {
	if len(t.rows) == 0 || len(t.headers) == 0 {
		return 0
	}
	nulls := 0
	for _, r := range t.rows {
		row := t.cells[r]
		for col := range t.headers {
			if col >= len(row) || isNull(row[col]) {
				nulls++
			}
		}
	}
	return float64(nulls) / float64(len(t.rows)*len(t.headers))
}

// isNull reports whether a cell value counts as missing.
func isNull(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "none", "n/a", "-":
		return true
	}
	return false
}
