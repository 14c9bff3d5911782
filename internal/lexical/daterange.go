package lexical

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// DateRange kinds, in parse priority order.
const (
	RangeCrossMonth = "cross_month"
	RangeSameMonth  = "same_month"
	RangeSingleDay  = "single_day"
)

// DateRange is a structural date-range match. Months may be zero when the
// phrase named only day numbers; the filter layer resolves those against
// the months already extracted from the query or the dataset itself.
type DateRange struct {
	Kind       string
	StartDay   int
	EndDay     int
	StartMonth time.Month
	EndMonth   time.Month
}

// Range regexes are built from the month spellings at init.
var (
	crossMonthRe *regexp.Regexp
	dayRangeRe   *regexp.Regexp
	tanggalRe    *regexp.Regexp
	singleDayRe  *regexp.Regexp
)

func init() {
	alt := monthAlternation()
	crossMonthRe = regexp.MustCompile(`\b(\d{1,2})\s+(` + alt + `)\s*[-–]\s*(\d{1,2})\s+(` + alt + `)\b`)
	dayRangeRe = regexp.MustCompile(`\b(\d{1,2})\s*[-–]\s*(\d{1,2})\s+(` + alt + `)\b`)
	tanggalRe = regexp.MustCompile(`\btanggal\s+(\d{1,2})\s*[-–]\s*(\d{1,2})\b`)
	singleDayRe = regexp.MustCompile(`\btanggal\s+(\d{1,2})\b(\s*[-–])?`)
}

// monthAlternation joins the usable month spellings into a regex
// alternation, longest first so longer names win over their prefixes.
func monthAlternation() string {
	names := make([]string, 0, len(monthVariants))
	for name := range monthVariants {
		if len(name) >= minMonthNameLen {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

// ExtractDateRanges returns all structural date-range matches in priority
// order: cross-month spans, same-month day ranges (with or without a
// month name), then single days. Calendar validity is not checked here.
func ExtractDateRanges(query string) []DateRange {
	lower := strings.ToLower(query)
	var out []DateRange

	for _, m := range crossMonthRe.FindAllStringSubmatch(lower, -1) {
		out = append(out, DateRange{
			Kind:       RangeCrossMonth,
			StartDay:   atoi(m[1]),
			StartMonth: monthVariants[m[2]],
			EndDay:     atoi(m[3]),
			EndMonth:   monthVariants[m[4]],
		})
	}

	if len(out) == 0 {
		for _, m := range dayRangeRe.FindAllStringSubmatch(lower, -1) {
			month := monthVariants[m[3]]
			out = append(out, DateRange{
				Kind:       RangeSameMonth,
				StartDay:   atoi(m[1]),
				EndDay:     atoi(m[2]),
				StartMonth: month,
				EndMonth:   month,
			})
		}
	}

	for _, m := range tanggalRe.FindAllStringSubmatch(lower, -1) {
		out = append(out, DateRange{
			Kind:     RangeSameMonth,
			StartDay: atoi(m[1]),
			EndDay:   atoi(m[2]),
		})
	}

	for _, m := range singleDayRe.FindAllStringSubmatch(lower, -1) {
		if m[2] != "" {
			// "tanggal 15-18" already matched as a range.
			continue
		}
		out = append(out, DateRange{
			Kind:     RangeSingleDay,
			StartDay: atoi(m[1]),
			EndDay:   atoi(m[1]),
		})
	}

	return out
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
