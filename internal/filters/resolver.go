package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/lexical"
)

// Extraction bundles the lexical signals for one query.
type Extraction struct {
	Query   string
	Lang    string
	Intents []string
	Codes   []string
	Months  []time.Month
	Ranges  []lexical.DateRange
}

// Extract runs all lexical extractors over a query.
func Extract(query string) Extraction {
	return Extraction{
		Query:   query,
		Lang:    lexical.DetectLanguage(query),
		Intents: lexical.DetectIntents(query),
		Codes:   lexical.ExtractEquipmentCodes(query),
		Months:  lexical.ExtractMonths(query),
		Ranges:  lexical.ExtractDateRanges(query),
	}
}

// Resolver binds extractor output to the loaded table.
type Resolver struct {
	table *dataset.Table
	keys  dataset.KeyColumns
}

// NewResolver creates a resolver over the full table.
func NewResolver(table *dataset.Table, keys dataset.KeyColumns) *Resolver {
	return &Resolver{table: table, keys: keys}
}

// Keys returns the key column bindings.
func (r *Resolver) Keys() dataset.KeyColumns {
	return r.keys
}

// Table returns the unfiltered table.
func (r *Resolver) Table() *dataset.Table {
	return r.table
}

// Resolve builds the filter set for an extraction and returns it together
// with the filtered view. Filters apply in a fixed order: months, date
// ranges, identifier, categorical values. Resolving the same extraction
// twice yields the same view.
func (r *Resolver) Resolve(ex Extraction) (*Set, *dataset.Table) {
	set := &Set{Months: ex.Months}
	view := r.table

	if len(set.Months) > 0 {
		view = applyMonths(view, r.keys.Date, set.Months)
		set.Applied = append(set.Applied, describeMonths(set.Months, ex.Lang))
	}

	r.resolveDateRange(set, view, ex)
	view = applyDateFilters(view, r.keys.Date, set)

	r.resolveIdentifier(set, ex)
	if set.Identifier != "" {
		view = FilterIdentifier(view, r.keys.Identifier, set.Identifier)
		set.Applied = append(set.Applied, fmt.Sprintf("identifier=%s", set.Identifier))
	}

	r.resolveValues(set, ex.Query)
	for _, vf := range set.Values {
		view = filterValue(view, vf)
		set.Applied = append(set.Applied, fmt.Sprintf("%s=%s", vf.Role, vf.Value))
	}

	return set, view
}

// resolveDateRange picks the first structural range that resolves to real
// calendar dates. Invalid dates (31 february) drop the candidate.
func (r *Resolver) resolveDateRange(set *Set, view *dataset.Table, ex Extraction) {
	year := modalYear(view, r.keys.Date)
	for _, dr := range ex.Ranges {
		switch dr.Kind {
		case lexical.RangeCrossMonth:
			start, ok1 := makeDate(year, dr.StartMonth, dr.StartDay)
			end, ok2 := makeDate(year, dr.EndMonth, dr.EndDay)
			if !ok1 || !ok2 {
				continue
			}
			if end.Before(start) {
				// Spans a year boundary ("28 december - 5 january").
				end, _ = makeDate(year+1, dr.EndMonth, dr.EndDay)
			}
			set.RangeFull = &FullRange{Start: start, End: end}
			set.Applied = append(set.Applied,
				fmt.Sprintf("%s - %s", start.Format("2 Jan"), end.Format("2 Jan")))
			return

		case lexical.RangeSameMonth:
			month := dr.StartMonth
			if month == 0 {
				month = r.impliedMonth(set, view)
			}
			if month == 0 || dr.StartDay > dr.EndDay {
				continue
			}
			if _, ok := makeDate(year, month, dr.StartDay); !ok {
				continue
			}
			if _, ok := makeDate(year, month, dr.EndDay); !ok {
				continue
			}
			set.Range = &DayRange{Start: dr.StartDay, End: dr.EndDay, Month: month}
			set.Applied = append(set.Applied,
				fmt.Sprintf("%d-%d %s", dr.StartDay, dr.EndDay, lexical.MonthName(month, ex.Lang)))
			return

		case lexical.RangeSingleDay:
			if dr.StartDay < 1 || dr.StartDay > 31 {
				continue
			}
			set.Day = dr.StartDay
			set.Applied = append(set.Applied, fmt.Sprintf("tanggal %d", dr.StartDay))
			return
		}
	}
}

// impliedMonth resolves a month-less day range: the query's month filter
// wins, otherwise the most frequent month in the current view.
func (r *Resolver) impliedMonth(set *Set, view *dataset.Table) time.Month {
	if len(set.Months) > 0 {
		return set.Months[0]
	}
	return modalMonth(view, r.keys.Date)
}

// resolveIdentifier applies the comparison deferral rule: two or more
// codes plus a comparison intent leave row filtering to the comparison
// stage; otherwise the first code filters rows directly.
func (r *Resolver) resolveIdentifier(set *Set, ex Extraction) {
	if len(ex.Codes) == 0 || r.keys.Identifier == "" {
		return
	}
	if len(ex.Codes) >= 2 && lexical.HasIntent(ex.Intents, lexical.IntentComparison) {
		set.ComparisonIdentifiers = ex.Codes
		return
	}
	set.Identifier = ex.Codes[0]
}

// FilterIdentifier narrows a view to rows whose identifier cell contains
// code, case-insensitively.
func FilterIdentifier(t *dataset.Table, column, code string) *dataset.Table {
	if column == "" {
		return t
	}
	needle := strings.ToLower(code)
	return t.Filter(func(i int) bool {
		return strings.Contains(strings.ToLower(t.Value(i, column)), needle)
	})
}

// filterValue narrows a view to rows matching one categorical filter.
func filterValue(t *dataset.Table, vf ValueFilter) *dataset.Table {
	return t.Filter(func(i int) bool {
		return strings.EqualFold(t.Value(i, vf.Column), vf.Value)
	})
}

// makeDate builds a date and rejects values the calendar normalized away.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

// modalYear returns the most frequent year in the view's date column,
// falling back to the current year for undated tables.
func modalYear(t *dataset.Table, dateColumn string) int {
	counts := make(map[int]int)
	best, bestCount := 0, 0
	for i := 0; i < t.Len(); i++ {
		ts := t.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		y := ts.Year()
		counts[y]++
		if counts[y] > bestCount {
			best, bestCount = y, counts[y]
		}
	}
	if best == 0 {
		return time.Now().Year()
	}
	return best
}

// modalMonth returns the most frequent month in the view's date column.
func modalMonth(t *dataset.Table, dateColumn string) time.Month {
	counts := make(map[time.Month]int)
	var best time.Month
	bestCount := 0
	for i := 0; i < t.Len(); i++ {
		ts := t.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		m := ts.Month()
		counts[m]++
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best
}
