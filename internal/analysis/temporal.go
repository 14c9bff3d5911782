package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/i18n"
	"github.com/plantops/eventlens/internal/lexical"
)

// Temporal granularities.
const (
	GranMonth   = "month"
	GranDay     = "day_of_month"
	GranWeekday = "weekday"
)

// timeUnitWords activate temporal ranking together with a magnitude
// intent (top/least). Plain counts without a magnitude stay with other
// stages.
var (
	monthWords   = []string{"bulan", "month"}
	dateWords    = []string{"tanggal", "date", "dates"}
	weekdayWords = []string{"hari apa", "hari ", "day of week", "weekday", "which day"}
)

// RankEntry is one group in a temporal ranking.
type RankEntry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	// Month, Day and Date carry the typed group key where applicable.
	Month time.Month `json:"-"`
	Day   int        `json:"-"`
	Date  time.Time  `json:"-"`
}

// TemporalResult holds the ranking and the selected extreme.
type TemporalResult struct {
	Granularity string
	Rankings    []RankEntry
	Extreme     *RankEntry
	Least       bool
	// Drilldown lists the busiest dates inside a month extreme.
	Drilldown []RankEntry
}

// questionWords gate temporal activation to interrogative phrasing.
var questionWords = []string{
	"apa", "berapa", "kapan", "mana", "which", "what", "when",
}

// WantsTemporal reports whether the query asks a temporal extreme
// question: it needs a magnitude word, a time unit and interrogative
// framing. Simple counts and trend requests do not activate.
func WantsTemporal(query string, intents []string) bool {
	magnitude := lexical.HasIntent(intents, lexical.IntentTop) ||
		lexical.HasIntent(intents, lexical.IntentLeast)
	if !magnitude {
		return false
	}
	lower := strings.ToLower(query)
	unit := hasAny(lower, monthWords) || hasAny(lower, dateWords) || hasAny(lower, weekdayWords)
	return unit && hasAny(lower, questionWords)
}

// RankTemporal groups the view by the granularity the query names and
// selects the extreme the query asks for. Day-of-month wins over weekday
// when both are mentioned; month is the default unit.
func RankTemporal(view *dataset.Table, dateColumn, query string, intents []string, lang string) *TemporalResult {
	lower := strings.ToLower(query)
	least := lexical.HasIntent(intents, lexical.IntentLeast) &&
		!lexical.HasIntent(intents, lexical.IntentTop)

	var res *TemporalResult
	switch {
	case hasAny(lower, dateWords):
		res = rankByDay(view, dateColumn, lang)
	case hasAny(lower, weekdayWords) && !hasAny(lower, monthWords):
		res = rankByWeekday(view, dateColumn, lang)
	default:
		res = rankByMonth(view, dateColumn, lang)
	}
	res.Least = least

	if len(res.Rankings) > 0 {
		idx := 0
		if least {
			idx = len(res.Rankings) - 1
		}
		extreme := res.Rankings[idx]
		res.Extreme = &extreme
		switch res.Granularity {
		case GranMonth:
			res.Drilldown = topDatesInMonth(view, dateColumn, extreme.Month, 5)
		case GranDay:
			res.Drilldown = datesWithDay(view, dateColumn, extreme.Day, 5)
		}
	}
	return res
}

func rankByMonth(view *dataset.Table, dateColumn, lang string) *TemporalResult {
	counts := make(map[time.Month]int)
	for i := 0; i < view.Len(); i++ {
		ts := view.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		counts[ts.Month()]++
	}
	var entries []RankEntry
	for m := time.January; m <= time.December; m++ {
		if counts[m] == 0 {
			continue
		}
		entries = append(entries, RankEntry{
			Label: lexical.MonthName(m, lang),
			Count: counts[m],
			Month: m,
		})
	}
	sortDesc(entries)
	return &TemporalResult{Granularity: GranMonth, Rankings: entries}
}

// rankByDay groups by day of month (1 to 31) across all months, so
// "which date" questions answer with the day number. The exact dates
// carrying that day come back as the drill-down.
func rankByDay(view *dataset.Table, dateColumn, lang string) *TemporalResult {
	counts := make(map[int]int)
	for i := 0; i < view.Len(); i++ {
		ts := view.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		counts[ts.Day()]++
	}
	var entries []RankEntry
	for d := 1; d <= 31; d++ {
		if counts[d] == 0 {
			continue
		}
		entries = append(entries, RankEntry{
			Label: fmt.Sprintf("%s %d", i18n.T("day_of_month", lang), d),
			Count: counts[d],
			Day:   d,
		})
	}
	sortDesc(entries)
	return &TemporalResult{Granularity: GranDay, Rankings: entries}
}

// datesWithDay lists the calendar dates carrying one day number, busiest
// first.
func datesWithDay(view *dataset.Table, dateColumn string, day, limit int) []RankEntry {
	scoped := view.Filter(func(i int) bool {
		ts := view.Time(i, dateColumn)
		return !ts.IsZero() && ts.Day() == day
	})
	days, counts := dataset.DailyCounts(scoped, dateColumn)
	entries := make([]RankEntry, len(days))
	for i, d := range days {
		entries[i] = RankEntry{Label: d.Format("2006-01-02"), Count: counts[i], Date: d}
	}
	sortDesc(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func rankByWeekday(view *dataset.Table, dateColumn, lang string) *TemporalResult {
	counts := make(map[time.Weekday]int)
	for i := 0; i < view.Len(); i++ {
		ts := view.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		counts[ts.Weekday()]++
	}
	var entries []RankEntry
	// Monday-first week, matching how shift schedules read.
	for off := 0; off < 7; off++ {
		d := time.Weekday((off + 1) % 7)
		if counts[d] == 0 {
			continue
		}
		entries = append(entries, RankEntry{Label: i18n.DayName(d, lang), Count: counts[d]})
	}
	sortDesc(entries)
	return &TemporalResult{Granularity: GranWeekday, Rankings: entries}
}

// topDatesInMonth returns the busiest dates of one month.
func topDatesInMonth(view *dataset.Table, dateColumn string, month time.Month, limit int) []RankEntry {
	scoped := view.Filter(func(i int) bool {
		ts := view.Time(i, dateColumn)
		return !ts.IsZero() && ts.Month() == month
	})
	days, counts := dataset.DailyCounts(scoped, dateColumn)
	entries := make([]RankEntry, len(days))
	for i, d := range days {
		entries[i] = RankEntry{Label: d.Format("2006-01-02"), Count: counts[i], Date: d}
	}
	sortDesc(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// sortDesc orders entries by count descending, stable so earlier groups
// win ties.
func sortDesc(entries []RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}

func hasAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// TemporalReport renders the ranking as a bilingual answer.
func TemporalReport(res *TemporalResult, lang string) string {
	if res.Extreme == nil {
		return i18n.T("no_data", lang)
	}
	var b strings.Builder

	label := i18n.T("most_active", lang)
	if res.Least {
		label = i18n.T("least_active", lang)
	}
	fmt.Fprintf(&b, "%s: **%s** (%d %s)\n\n",
		label, res.Extreme.Label, res.Extreme.Count, i18n.T("events", lang))

	fmt.Fprintf(&b, "%s:\n", i18n.T("breakdown", lang))
	for i, e := range res.Rankings {
		marker := "⚪"
		if e.Label == res.Extreme.Label {
			marker = "🔴"
			if res.Least {
				marker = "🟢"
			}
		}
		fmt.Fprintf(&b, "%d. %s %s: %d %s\n", i+1, marker, e.Label, e.Count, i18n.T("events", lang))
	}

	if len(res.Drilldown) > 0 {
		fmt.Fprintf(&b, "\n%s (%s):\n", i18n.T("busiest_days", lang), res.Extreme.Label)
		for _, e := range res.Drilldown {
			fmt.Fprintf(&b, "- %s: %d %s\n", e.Label, e.Count, i18n.T("events", lang))
		}
	}
	return b.String()
}
