package filters

import (
	"time"

	"github.com/plantops/eventlens/internal/dataset"
)

// ApplyTimeFilters narrows a view by every time-based filter in the set.
// Non-time filters (identifier, values) are ignored, which lets the
// comparison and identifier stages re-scope fresh views to the query's
// time window.
func ApplyTimeFilters(t *dataset.Table, s *Set, dateColumn string) *dataset.Table {
	if dateColumn == "" || s == nil {
		return t
	}
	view := t
	if len(s.Months) > 0 {
		view = applyMonths(view, dateColumn, s.Months)
	}
	return applyDateFilters(view, dateColumn, s)
}

// applyMonths keeps rows whose timestamp falls in any of the months.
func applyMonths(t *dataset.Table, dateColumn string, months []time.Month) *dataset.Table {
	if dateColumn == "" {
		return t
	}
	want := make(map[time.Month]bool, len(months))
	for _, m := range months {
		want[m] = true
	}
	return t.Filter(func(i int) bool {
		ts := t.Time(i, dateColumn)
		return !ts.IsZero() && want[ts.Month()]
	})
}

// applyDateFilters applies the resolved range or day filters.
func applyDateFilters(t *dataset.Table, dateColumn string, s *Set) *dataset.Table {
	if dateColumn == "" {
		return t
	}
	view := t
	if s.RangeFull != nil {
		start, end := s.RangeFull.Start, s.RangeFull.End
		view = view.Filter(func(i int) bool {
			ts := view.Time(i, dateColumn)
			if ts.IsZero() {
				return false
			}
			day := ts.Truncate(24 * time.Hour)
			return !day.Before(start) && !day.After(end)
		})
	}
	if s.Range != nil {
		rng := s.Range
		view = view.Filter(func(i int) bool {
			ts := view.Time(i, dateColumn)
			return !ts.IsZero() && ts.Month() == rng.Month &&
				ts.Day() >= rng.Start && ts.Day() <= rng.End
		})
	}
	if s.Day != 0 {
		day := s.Day
		view = view.Filter(func(i int) bool {
			ts := view.Time(i, dateColumn)
			return !ts.IsZero() && ts.Day() == day
		})
	}
	return view
}
