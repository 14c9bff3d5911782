package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/plantops/eventlens/internal/dataset"
)

// Chart payload types understood by the web frontend.
const (
	ChartXYLine     = "xy_line"
	ChartComparison = "comparison"
)

// vizKeywords trigger chart generation alongside a textual answer.
var vizKeywords = []string{
	"trend", "tren", "grafik", "chart", "graph", "pola", "pattern",
	"timeline", "visualize", "visualisasi", "distribusi waktu",
}

// WantsChart reports whether the query asks for a visualization.
func WantsChart(query string) bool {
	return hasAny(strings.ToLower(query), vizKeywords)
}

// LineChart is the per-day series payload.
type LineChart struct {
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	XAxis       string         `json:"x_axis"`
	YAxis       string         `json:"y_axis"`
	Data        LineData       `json:"data"`
	Stats       LineStats      `json:"stats"`
	AnomalyDays []string       `json:"anomaly_dates,omitempty"`
	AnomalyInfo map[string]int `json:"anomaly_info,omitempty"`
}

// LineData carries the aligned date and count axes.
type LineData struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}

// LineStats summarizes the plotted series.
type LineStats struct {
	Total     int     `json:"total"`
	Average   float64 `json:"average"`
	Max       int     `json:"max"`
	Min       int     `json:"min"`
	Trend     string  `json:"trend"`
	DateRange string  `json:"date_range"`
}

// BuildLineChart plots daily counts for a view. The anomaly result, when
// present, marks flagged dates and their severity distribution.
func BuildLineChart(view *dataset.Table, dateColumn, title string, res *AnomalyResult) *LineChart {
	days, counts := dataset.DailyCounts(view, dateColumn)
	if len(days) == 0 {
		return nil
	}

	chart := &LineChart{
		Type:  ChartXYLine,
		Title: title,
		XAxis: "date",
		YAxis: "events",
		Data: LineData{
			Dates:  make([]string, len(days)),
			Counts: counts,
		},
	}
	total, maxC, minC := 0, counts[0], counts[0]
	for i, d := range days {
		chart.Data.Dates[i] = d.Format("2006-01-02")
		total += counts[i]
		if counts[i] > maxC {
			maxC = counts[i]
		}
		if counts[i] < minC {
			minC = counts[i]
		}
	}
	chart.Stats = LineStats{
		Total:     total,
		Average:   round1(float64(total) / float64(len(days))),
		Max:       maxC,
		Min:       minC,
		Trend:     trendKey(counts),
		DateRange: fmt.Sprintf("%s - %s", chart.Data.Dates[0], chart.Data.Dates[len(days)-1]),
	}

	if res != nil && len(res.Anomalies) > 0 {
		chart.AnomalyInfo = make(map[string]int)
		for _, a := range res.Anomalies {
			chart.AnomalyDays = append(chart.AnomalyDays, a.Date.Format("2006-01-02"))
			chart.AnomalyInfo[a.Severity]++
		}
	}
	return chart
}

// ComparisonChart is the multi-series payload for comparison answers.
type ComparisonChart struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Dates    []string       `json:"dates"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one zero-filled series.
type ChartDataset struct {
	Label  string `json:"label"`
	Counts []int  `json:"counts"`
	Total  int    `json:"total"`
}

// BuildComparisonChart aligns every entity onto the union of their active
// dates, filling missing days with zero.
func BuildComparisonChart(res *ComparisonResult, dateColumn, title string) *ComparisonChart {
	if res == nil || len(res.Entities) == 0 {
		return nil
	}

	allDates := make(map[time.Time]struct{})
	perEntity := make([]map[time.Time]int, len(res.Entities))
	for ei := range res.Entities {
		days, counts := dataset.DailyCounts(res.Entities[ei].View, dateColumn)
		m := make(map[time.Time]int, len(days))
		for i, d := range days {
			m[d] = counts[i]
			allDates[d] = struct{}{}
		}
		perEntity[ei] = m
	}
	if len(allDates) == 0 {
		return nil
	}

	axis := make([]time.Time, 0, len(allDates))
	for d := range allDates {
		axis = append(axis, d)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })

	chart := &ComparisonChart{
		Type:  ChartComparison,
		Title: title,
		Dates: make([]string, len(axis)),
	}
	for i, d := range axis {
		chart.Dates[i] = d.Format("2006-01-02")
	}
	for ei, e := range res.Entities {
		ds := ChartDataset{Label: e.Name, Counts: make([]int, len(axis)), Total: e.Count}
		for i, d := range axis {
			ds.Counts[i] = perEntity[ei][d]
		}
		chart.Datasets = append(chart.Datasets, ds)
	}
	return chart
}
