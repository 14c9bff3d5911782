// Package filters turns extractor output into a concrete filter set and
// applies it to the event table. A Set is built once per query and never
// mutated afterwards.
package filters

import (
	"fmt"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/lexical"
)

// DayRange is a resolved same-month day span.
type DayRange struct {
	Start int
	End   int
	Month time.Month
}

// FullRange is a resolved absolute date span, inclusive on both ends.
type FullRange struct {
	Start time.Time
	End   time.Time
}

// ValueFilter pins a categorical column to one value.
type ValueFilter struct {
	Role   string
	Column string
	Value  string
}

// Set is the complete filter state extracted from one query.
type Set struct {
	Months                []time.Month
	Range                 *DayRange
	RangeFull             *FullRange
	Day                   int
	Identifier            string
	ComparisonIdentifiers []string
	Values                []ValueFilter

	// Applied collects human-readable fragments describing each filter,
	// in application order.
	Applied []string
}

// Empty reports whether no filter of any kind was extracted.
func (s *Set) Empty() bool {
	return len(s.Months) == 0 && s.Range == nil && s.RangeFull == nil &&
		s.Day == 0 && s.Identifier == "" &&
		len(s.ComparisonIdentifiers) == 0 && len(s.Values) == 0
}

// HasTimeFilter reports whether any time-based filter is present.
func (s *Set) HasTimeFilter() bool {
	return len(s.Months) > 0 || s.Range != nil || s.RangeFull != nil || s.Day != 0
}

// Fingerprint renders the set into a stable string for cache keying.
func (s *Set) Fingerprint() string {
	var b strings.Builder
	for _, m := range s.Months {
		fmt.Fprintf(&b, "m%d;", int(m))
	}
	if s.Range != nil {
		fmt.Fprintf(&b, "r%d-%d/%d;", s.Range.Start, s.Range.End, int(s.Range.Month))
	}
	if s.RangeFull != nil {
		fmt.Fprintf(&b, "f%s_%s;", s.RangeFull.Start.Format("20060102"), s.RangeFull.End.Format("20060102"))
	}
	if s.Day != 0 {
		fmt.Fprintf(&b, "d%d;", s.Day)
	}
	if s.Identifier != "" {
		fmt.Fprintf(&b, "id%s;", s.Identifier)
	}
	for _, id := range s.ComparisonIdentifiers {
		fmt.Fprintf(&b, "cmp%s;", id)
	}
	for _, v := range s.Values {
		fmt.Fprintf(&b, "v%s=%s;", v.Role, v.Value)
	}
	return b.String()
}

// describeMonths renders the month filter fragment.
func describeMonths(months []time.Month, lang string) string {
	names := make([]string, len(months))
	for i, m := range months {
		names[i] = lexical.MonthName(m, lang)
	}
	return strings.Join(names, ", ")
}
