package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/i18n"
)

// Daily-rate tiers for the identifier recommendation block.
const (
	highRatePerDay     = 5.0
	moderateRatePerDay = 2.0
)

// IdentifierReporter renders equipment-centric reports.
type IdentifierReporter struct {
	keys dataset.KeyColumns
}

// NewIdentifierReporter creates a reporter bound to the key column map.
func NewIdentifierReporter(keys dataset.KeyColumns) *IdentifierReporter {
	return &IdentifierReporter{keys: keys}
}

// SearchByNameOrTag narrows a view by equipment name or PI tag using the
// significant words of the query. Used when a query names no equipment
// code but clearly asks about a tag or a named unit.
func (r *IdentifierReporter) SearchByNameOrTag(view *dataset.Table, query string) *dataset.Table {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,?!;:\"'()")
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return view.Filter(func(int) bool { return false })
	}
	name, tag := r.keys.EquipmentName, r.keys.PITag
	return view.Filter(func(i int) bool {
		hay := strings.ToLower(view.Value(i, name) + " " + view.Value(i, tag))
		for _, w := range words {
			if strings.Contains(hay, w) {
				return true
			}
		}
		return false
	})
}

// Report renders the full single-equipment answer: identity, timeline,
// breakdown, insights and a frequency-tiered action list.
func (r *IdentifierReporter) Report(view *dataset.Table, code, lang string) string {
	if view.Len() == 0 {
		return i18n.T("no_data", lang)
	}
	var b strings.Builder

	fmt.Fprintf(&b, "## %s", code)
	if name := firstNonEmpty(view, r.keys.EquipmentName); name != "" {
		fmt.Fprintf(&b, " - %s", name)
	}
	if tag := firstNonEmpty(view, r.keys.PITag); tag != "" {
		fmt.Fprintf(&b, " [%s]", tag)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %d\n\n", i18n.T("total_events", lang), view.Len())

	rate := r.writeTimeline(&b, view, lang)
	r.writeBreakdown(&b, view, lang)
	r.writeInsights(&b, view, lang)
	b.WriteString(r.actions(rate, lang))
	return b.String()
}

// writeTimeline emits the period, daily statistics, trend and busiest
// days, returning the daily event rate for the action tiering.
func (r *IdentifierReporter) writeTimeline(b *strings.Builder, view *dataset.Table, lang string) float64 {
	if r.keys.Date == "" {
		return 0
	}
	days, counts := dataset.DailyCounts(view, r.keys.Date)
	if len(days) == 0 {
		return 0
	}
	first, last := days[0], days[len(days)-1]
	total := 0
	maxC, minC := counts[0], counts[0]
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
	rate := float64(total) / float64(spanDays)

	fmt.Fprintf(b, "### %s\n", i18n.T("timeline", lang))
	fmt.Fprintf(b, "- %s: %s - %s (%d days)\n",
		i18n.T("period", lang), first.Format("2006-01-02"), last.Format("2006-01-02"), spanDays)
	fmt.Fprintf(b, "- %s: %.1f %s (min %d, max %d)\n",
		i18n.T("daily_average", lang), rate, i18n.T("events", lang), minC, maxC)
	fmt.Fprintf(b, "- Trend: %s\n", i18n.T(trendKey(counts), lang))

	type day struct {
		label string
		count int
	}
	busiest := make([]day, len(days))
	for i := range days {
		busiest[i] = day{label: days[i].Format("2006-01-02"), count: counts[i]}
	}
	sort.SliceStable(busiest, func(i, j int) bool { return busiest[i].count > busiest[j].count })
	if len(busiest) > 5 {
		busiest = busiest[:5]
	}
	fmt.Fprintf(b, "- %s:", i18n.T("busiest_days", lang))
	for i, d := range busiest {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, " %s (%d)", d.label, d.count)
	}
	b.WriteString("\n\n")
	return rate
}

// trendKey compares the first and second half of the daily series.
func trendKey(counts []int) string {
	if len(counts) < 2 {
		return "trend_stable"
	}
	half := len(counts) / 2
	firstHalf := mean(counts[:half])
	secondHalf := mean(counts[half:])
	switch {
	case firstHalf == 0 && secondHalf == 0:
		return "trend_stable"
	case secondHalf > firstHalf*1.1:
		return "trend_increasing"
	case secondHalf < firstHalf*0.9:
		return "trend_decreasing"
	default:
		return "trend_stable"
	}
}

// writeBreakdown tallies each categorical role for the equipment view.
func (r *IdentifierReporter) writeBreakdown(b *strings.Builder, view *dataset.Table, lang string) {
	fmt.Fprintf(b, "### %s\n", i18n.T("breakdown", lang))
	for _, pair := range r.keys.Categorical() {
		role, column := pair[0], pair[1]
		if role == "identifier" || role == "equipment_name" {
			continue
		}
		counts := view.ValueCounts(column)
		if len(counts) == 0 {
			continue
		}
		fmt.Fprintf(b, "- %s:", role)
		for i, vc := range counts {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, " %s=%d", vc.Value, vc.Count)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

// writeInsights flags value concentration within the equipment's events.
func (r *IdentifierReporter) writeInsights(b *strings.Builder, view *dataset.Table, lang string) {
	wrote := false
	for _, pair := range [][2]string{
		{"area", r.keys.Area},
		{"category", r.keys.Category},
		{"limit_type", r.keys.LimitType},
	} {
		role, column := pair[0], pair[1]
		if column == "" {
			continue
		}
		counts := view.ValueCounts(column)
		if len(counts) == 0 {
			continue
		}
		share := float64(counts[0].Count) / float64(view.Len()) * 100
		if share <= concentrationPct {
			continue
		}
		if !wrote {
			fmt.Fprintf(b, "### %s\n", i18n.T("insights", lang))
			wrote = true
		}
		if lang == "id" {
			fmt.Fprintf(b, "- %.0f%% kejadian terkonsentrasi pada %s %q.\n", share, role, counts[0].Value)
		} else {
			fmt.Fprintf(b, "- %.0f%% of events concentrate on %s %q.\n", share, role, counts[0].Value)
		}
	}
	if wrote {
		b.WriteByte('\n')
	}
}

// actions maps the daily event rate to a recommended-action block.
func (r *IdentifierReporter) actions(rate float64, lang string) string {
	header := i18n.T("recommended_actions", lang)
	if lang == "id" {
		switch {
		case rate > highRatePerDay:
			return header + ":\n1. Frekuensi alarm tinggi, jadwalkan inspeksi segera.\n2. Tinjau setelan batas alarm bersama teknisi instrumentasi."
		case rate > moderateRatePerDay:
			return header + ":\n1. Pantau peralatan ini pada ronde berikutnya.\n2. Bandingkan dengan riwayat pemeliharaan terakhir."
		default:
			return header + ":\n1. Frekuensi normal, lanjutkan pemantauan rutin."
		}
	}
	switch {
	case rate > highRatePerDay:
		return header + ":\n1. High alarm frequency, schedule an inspection promptly.\n2. Review alarm limit settings with the instrumentation team."
	case rate > moderateRatePerDay:
		return header + ":\n1. Watch this equipment on the next operator round.\n2. Cross-check against the latest maintenance history."
	default:
		return header + ":\n1. Frequency is normal, continue routine monitoring."
	}
}

// firstNonEmpty returns the first non-empty cell of a column.
func firstNonEmpty(view *dataset.Table, column string) string {
	if column == "" {
		return ""
	}
	for i := 0; i < view.Len(); i++ {
		if v := view.Value(i, column); v != "" {
			return v
		}
	}
	return ""
}
