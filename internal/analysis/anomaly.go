package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/i18n"
)

// ErrInsufficientHistory is returned when the filtered view covers fewer
// active days than anomaly detection needs.
var ErrInsufficientHistory = errors.New("not enough daily history for anomaly detection")

// Detection thresholds. A day is anomalous when any method flags it.
const (
	minAnomalyDays    = 7
	zScoreThreshold   = 2.5
	iqrMultiplier     = 1.5
	medianMultiplier  = 3.0
	severityCriticalZ = 3.0
	severityHighZ     = 2.5
	severityMediumZ   = 2.0
)

// Baseline holds the daily-count statistics the thresholds derive from.
type Baseline struct {
	Days   int     `json:"days"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// ExpectedRange renders the one-sigma band around the mean.
func (b Baseline) ExpectedRange() string {
	return fmt.Sprintf("%d-%d", int(b.Mean-b.Std), int(b.Mean+b.Std))
}

// Anomaly is one flagged day.
type Anomaly struct {
	Date      time.Time    `json:"date"`
	Count     int          `json:"count"`
	ZScore    float64      `json:"z_score"`
	Deviation float64      `json:"deviation_pct"`
	Severity  string       `json:"severity"`
	Methods   []string     `json:"methods"`
	PeakHour  int          `json:"peak_hour"`
	Weekday   time.Weekday `json:"-"`
}

// PatternSummary aggregates the flagged days.
type PatternSummary struct {
	CommonWeekday  time.Weekday
	TotalEvents    int
	AverageSize    float64
	CommonPeakHour int
}

// AnomalyResult is the full detector output.
type AnomalyResult struct {
	Baseline  Baseline
	Anomalies []Anomaly
	Summary   *PatternSummary
}

// DetectAnomalies finds days whose event count is extreme against three
// independent baselines: z-score, IQR fence and median multiple. Flagged
// days come back sorted by z-score, highest first.
func DetectAnomalies(view *dataset.Table, dateColumn string) (*AnomalyResult, error) {
	days, counts := dataset.DailyCounts(view, dateColumn)
	if len(days) < minAnomalyDays {
		return nil, ErrInsufficientHistory
	}

	mu := mean(counts)
	std := sampleStd(counts, mu)
	med := quantile(counts, 0.5)
	q1 := quantile(counts, 0.25)
	q3 := quantile(counts, 0.75)
	iqr := q3 - q1

	baseline := Baseline{
		Days: len(days), Mean: mu, Std: std,
		Median: med, Q1: q1, Q3: q3, IQR: iqr,
	}

	zLimit := mu + zScoreThreshold*std
	iqrLimit := q3 + iqrMultiplier*iqr
	medLimit := medianMultiplier * med

	var anomalies []Anomaly
	for i, day := range days {
		c := float64(counts[i])
		var methods []string
		if std > 0 && c > zLimit {
			methods = append(methods, "z_score")
		}
		if c > iqrLimit {
			methods = append(methods, "iqr")
		}
		if med > 0 && c > medLimit {
			methods = append(methods, "median")
		}
		if len(methods) == 0 {
			continue
		}

		z := 0.0
		if std > 0 {
			z = (c - mu) / std
		}
		deviation := 0.0
		if mu > 0 {
			deviation = (c - mu) / mu * 100
		}
		anomalies = append(anomalies, Anomaly{
			Date:      day,
			Count:     counts[i],
			ZScore:    z,
			Deviation: deviation,
			Severity:  severityFor(z),
			Methods:   methods,
			PeakHour:  peakHour(view, dateColumn, day),
			Weekday:   day.Weekday(),
		})
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].ZScore > anomalies[j].ZScore
	})

	return &AnomalyResult{
		Baseline:  baseline,
		Anomalies: anomalies,
		Summary:   summarize(anomalies),
	}, nil
}

// severityFor grades an anomaly by its z-score.
func severityFor(z float64) string {
	switch {
	case z > severityCriticalZ:
		return "critical"
	case z > severityHighZ:
		return "high"
	case z > severityMediumZ:
		return "medium"
	default:
		return "low"
	}
}

// peakHour returns the busiest hour of one day; ties go to the earliest.
func peakHour(view *dataset.Table, dateColumn string, day time.Time) int {
	var hours [24]int
	for i := 0; i < view.Len(); i++ {
		ts := view.Time(i, dateColumn)
		if ts.IsZero() {
			continue
		}
		if ts.Year() == day.Year() && ts.YearDay() == day.YearDay() {
			hours[ts.Hour()]++
		}
	}
	best, bestCount := 0, 0
	for h, c := range hours {
		if c > bestCount {
			best, bestCount = h, c
		}
	}
	return best
}

// summarize rolls the flagged days up into recurring-pattern figures.
func summarize(anomalies []Anomaly) *PatternSummary {
	if len(anomalies) == 0 {
		return nil
	}
	weekdays := make(map[time.Weekday]int)
	hours := make(map[int]int)
	total := 0
	for _, a := range anomalies {
		weekdays[a.Weekday]++
		hours[a.PeakHour]++
		total += a.Count
	}
	return &PatternSummary{
		CommonWeekday:  mostCommonWeekday(weekdays),
		TotalEvents:    total,
		AverageSize:    float64(total) / float64(len(anomalies)),
		CommonPeakHour: mostCommonHour(hours),
	}
}

func mostCommonWeekday(counts map[time.Weekday]int) time.Weekday {
	best, bestCount := time.Monday, -1
	for d := time.Sunday; d <= time.Saturday; d++ {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

func mostCommonHour(counts map[int]int) int {
	best, bestCount := 0, -1
	for h := 0; h < 24; h++ {
		if counts[h] > bestCount {
			best, bestCount = h, counts[h]
		}
	}
	return best
}

// AnomalyReport renders the detector output as a bilingual answer grouped
// by severity, with a recommendation block matched to the worst tier.
func AnomalyReport(res *AnomalyResult, lang string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n", i18n.T("anomaly_header", lang))
	fmt.Fprintf(&b, "%s: %.1f %s/day (σ=%.1f, median=%.1f, %d days)\n",
		i18n.T("baseline", lang), res.Baseline.Mean, i18n.T("events", lang),
		res.Baseline.Std, res.Baseline.Median, res.Baseline.Days)
	fmt.Fprintf(&b, "%s: %s %s\n\n",
		i18n.T("expected_range", lang), res.Baseline.ExpectedRange(), i18n.T("events", lang))

	if len(res.Anomalies) == 0 {
		b.WriteString(i18n.T("no_anomalies", lang))
		return b.String()
	}

	for _, severity := range []string{"critical", "high", "medium", "low"} {
		wroteHeader := false
		for _, a := range res.Anomalies {
			if a.Severity != severity {
				continue
			}
			if !wroteHeader {
				fmt.Fprintf(&b, "### %s: %s\n", i18n.T("severity", lang), strings.ToUpper(severity))
				wroteHeader = true
			}
			fmt.Fprintf(&b, "- %s (%s): %d %s, z=%.2f, %s +%.0f%%, %s %02d:00 [%s]\n",
				a.Date.Format("2006-01-02"), i18n.DayName(a.Weekday, lang),
				a.Count, i18n.T("events", lang), a.ZScore,
				i18n.T("deviation", lang), a.Deviation,
				i18n.T("peak_hour", lang), a.PeakHour,
				strings.Join(a.Methods, "+"))
		}
		if wroteHeader {
			b.WriteByte('\n')
		}
	}

	if s := res.Summary; s != nil {
		fmt.Fprintf(&b, "%s: %s=%s, %d %s, avg %.1f/day, %s %02d:00\n\n",
			i18n.T("pattern_summary", lang),
			i18n.T("most_active", lang), i18n.DayName(s.CommonWeekday, lang),
			s.TotalEvents, i18n.T("events", lang),
			s.AverageSize,
			i18n.T("peak_hour", lang), s.CommonPeakHour)
	}

	b.WriteString(recommendations(res.Anomalies, lang))
	return b.String()
}

// recommendations picks the action template for the worst severity seen.
func recommendations(anomalies []Anomaly, lang string) string {
	tier := "standard"
	for _, a := range anomalies {
		if a.Severity == "critical" {
			tier = "urgent"
			break
		}
		if a.Severity == "high" {
			tier = "priority"
		}
	}

	header := i18n.T("recommended_actions", lang)
	if lang == "id" {
		switch tier {
		case "urgent":
			return header + ":\n1. Segera periksa peralatan pada tanggal anomali kritis.\n2. Tinjau log operator dan catatan pemeliharaan hari tersebut.\n3. Eskalasi ke supervisor area jika pola berulang."
		case "priority":
			return header + ":\n1. Jadwalkan inspeksi peralatan dalam minggu ini.\n2. Bandingkan dengan jadwal pemeliharaan terakhir."
		default:
			return header + ":\n1. Pantau tren harian pada periode berikutnya.\n2. Tidak diperlukan tindakan segera."
		}
	}
	switch tier {
	case "urgent":
		return header + ":\n1. Inspect the affected equipment on the critical dates immediately.\n2. Review operator logs and maintenance records for those days.\n3. Escalate to the area supervisor if the pattern repeats."
	case "priority":
		return header + ":\n1. Schedule an equipment inspection within the week.\n2. Cross-check against the latest maintenance schedule."
	default:
		return header + ":\n1. Keep monitoring the daily trend over the next period.\n2. No immediate action required."
	}
}
