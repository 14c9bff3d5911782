package dataset

import (
	"math"
	"sort"
	"time"
)

const profileTopValues = 20

// Profile summarizes the loaded event log. It is computed once at startup
// and served verbatim afterwards.
type Profile struct {
	TotalEvents int                     `json:"total_events"`
	Columns     []string                `json:"columns"`
	DateRange   *DateRangeInfo          `json:"date_range,omitempty"`
	DailyStats  *DailyStats             `json:"daily_stats,omitempty"`
	KeyValues   map[string][]ValueShare `json:"key_values"`
}

// DateRangeInfo describes the time span the event log covers.
type DateRangeInfo struct {
	Start      string `json:"start"`
	End        string `json:"end"`
	TotalDays  int    `json:"total_days"`
	SpanMonths int    `json:"span_months"`
}

// DailyStats summarizes per-day event volume.
type DailyStats struct {
	Average    float64 `json:"average"`
	Max        int     `json:"max"`
	Min        int     `json:"min"`
	ActiveDays int     `json:"active_days"`
}

// ValueShare is a value count with its share of total events.
type ValueShare struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BuildProfile computes the startup profile for a table with the given key
// column bindings.
func BuildProfile(t *Table, keys KeyColumns) Profile {
	p := Profile{
		TotalEvents: t.Len(),
		Columns:     t.Headers(),
		KeyValues:   make(map[string][]ValueShare),
	}

	if keys.Date != "" {
		if info, stats := dateSummary(t, keys.Date); info != nil {
			p.DateRange = info
			p.DailyStats = stats
		}
	}

	for _, pair := range keys.Categorical() {
		role, column := pair[0], pair[1]
		counts := t.ValueCounts(column)
		if len(counts) > profileTopValues {
			counts = counts[:profileTopValues]
		}
		shares := make([]ValueShare, 0, len(counts))
		for _, vc := range counts {
			pct := 0.0
			if t.Len() > 0 {
				pct = math.Round(float64(vc.Count)/float64(t.Len())*1000) / 10
			}
			shares = append(shares, ValueShare{Value: vc.Value, Count: vc.Count, Percent: pct})
		}
		p.KeyValues[role] = shares
	}
	return p
}

// DailyCounts tallies events per calendar day for the given date column,
// returning the days in ascending order.
func DailyCounts(t *Table, dateColumn string) ([]time.Time, []int) {
	counts := make(map[time.Time]int)
	for i := 0; i < t.Len(); i++ {
		ts := t.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
		counts[day]++
	}
	days := make([]time.Time, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	out := make([]int, len(days))
	for i, day := range days {
		out[i] = counts[day]
	}
	return days, out
}

// dateSummary computes the range and daily stats for a date column.
func dateSummary(t *Table, column string) (*DateRangeInfo, *DailyStats) {
	days, counts := DailyCounts(t, column)
	if len(days) == 0 {
		return nil, nil
	}
	first, last := days[0], days[len(days)-1]

	total, maxC, minC := 0, counts[0], counts[0]
	for _, c := range counts {
		total += c
		if c > maxC {
			maxC = c
		}
		if c < minC {
			minC = c
		}
	}

	spanDays := int(last.Sub(first).Hours()/24) + 1
	spanMonths := (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1

	info := &DateRangeInfo{
		Start:      first.Format("2006-01-02"),
		End:        last.Format("2006-01-02"),
		TotalDays:  spanDays,
		SpanMonths: spanMonths,
	}
	stats := &DailyStats{
		Average:    math.Round(float64(total)/float64(len(days))*10) / 10,
		Max:        maxC,
		Min:        minC,
		ActiveDays: len(days),
	}
	return info, stats
}
