package filters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/eventlens/internal/dataset"
)

const eventCSV = "Equipment,Equipment Name,Asset Category,Plant Area,Severity,Event Time\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,High,2025-08-05 10:00:00\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,High,2025-08-12 11:30:00\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,Low,2025-09-14 08:00:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,High,2025-08-20 09:15:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,Low,2025-09-02 16:45:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,Low,2025-09-16 07:20:00\n"

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(eventCSV), 0o600))
	table, keys, err := dataset.Load(path)
	require.NoError(t, err)
	return NewResolver(table, keys)
}

func TestResolveMonthFilter(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("berapa event bulan agustus"))

	assert.Equal(t, []time.Month{time.August}, set.Months)
	assert.Equal(t, 3, view.Len())
}

func TestResolveDayRangeWithMonth(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("show events 10-17 september"))

	require.NotNil(t, set.Range)
	assert.Equal(t, 10, set.Range.Start)
	assert.Equal(t, 17, set.Range.End)
	assert.Equal(t, time.September, set.Range.Month)
	// 2025-09-14 and 2025-09-16 fall inside the window.
	assert.Equal(t, 2, view.Len())
}

func TestResolveCrossMonthRange(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("alarms from 28 august - 16 september"))

	require.NotNil(t, set.RangeFull)
	assert.Equal(t, "2025-08-28", set.RangeFull.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-09-16", set.RangeFull.End.Format("2006-01-02"))
	assert.Equal(t, 3, view.Len())
}

func TestResolveInvalidDateDropped(t *testing.T) {
	r := newResolver(t)
	set, _ := r.Resolve(Extract("events from 30 february - 2 march"))
	assert.Nil(t, set.RangeFull, "30 february must not resolve")
}

func TestComparisonDeferral(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("Compare GB-651 vs EA-119 in August"))

	assert.Equal(t, []string{"GB-651", "EA-119"}, set.ComparisonIdentifiers)
	assert.Empty(t, set.Identifier, "comparison queries defer row filtering")
	// Only the month filter applies.
	assert.Equal(t, 3, view.Len())
}

func TestSingleIdentifierFilters(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("how many events for gb-651"))

	assert.Equal(t, "GB-651", set.Identifier)
	assert.Equal(t, 3, view.Len())
}

func TestCategoricalValueFilter(t *testing.T) {
	r := newResolver(t)
	set, view := r.Resolve(Extract("alarms in the mill area"))

	require.Len(t, set.Values, 1)
	assert.Equal(t, "area", set.Values[0].Role)
	assert.Equal(t, "Mill", set.Values[0].Value)
	assert.Equal(t, 3, view.Len())
}

func TestResolveIsDeterministic(t *testing.T) {
	r := newResolver(t)
	ex := Extract("berapa event GB-651 bulan september")

	set1, view1 := r.Resolve(ex)
	set2, view2 := r.Resolve(ex)
	assert.Equal(t, set1.Fingerprint(), set2.Fingerprint())
	assert.Equal(t, view1.Len(), view2.Len())
}

func TestApplyTimeFiltersOnFreshView(t *testing.T) {
	r := newResolver(t)
	set, _ := r.Resolve(Extract("berapa event bulan september"))

	view := ApplyTimeFilters(r.Table(), set, r.Keys().Date)
	assert.Equal(t, 3, view.Len())
	again := ApplyTimeFilters(view, set, r.Keys().Date)
	assert.Equal(t, view.Len(), again.Len())
}

func TestScore(t *testing.T) {
	withMonth := &Set{Months: []time.Month{time.August}}

	testCases := []struct {
		name     string
		in       ScoreInput
		expected float64
	}{
		{
			name:     "zero rows is terminal",
			in:       ScoreInput{Query: "q", Method: MethodLLMAnalysis, Rows: 0, Filters: withMonth},
			expected: 0,
		},
		{
			name:     "full marks with time filter",
			in:       ScoreInput{Query: "events in august", Method: MethodTemporal, Rows: 50, Filters: withMonth},
			expected: 100,
		},
		{
			name:     "tiny result set penalized",
			in:       ScoreInput{Query: "events in august", Method: MethodTemporal, Rows: 2, Filters: withMonth},
			expected: 85,
		},
		{
			name:     "no filters penalized",
			in:       ScoreInput{Query: "what happened", Method: MethodLLMAnalysis, Rows: 50, Filters: &Set{}},
			expected: 80,
		},
		{
			name:     "ambiguous wording penalized",
			in:       ScoreInput{Query: "show me that again", Method: MethodTemporal, Rows: 50, Filters: withMonth},
			expected: 95,
		},
		{
			name:     "identifier bonus capped at 100",
			in:       ScoreInput{Query: "events for GB-651 in august", Method: MethodIdentifier, Rows: 50, Filters: withMonth},
			expected: 100,
		},
		{
			name:     "sparse column penalized",
			in:       ScoreInput{Query: "events in august", Method: MethodTemporal, Rows: 50, Filters: withMonth, NullRatio: 0.5},
			expected: 90,
		},
		{
			name:     "table-wide sparsity penalized for llm analysis",
			in:       ScoreInput{Query: "events in august", Method: MethodLLMAnalysis, Rows: 50, Filters: withMonth, NullRatio: 0.375},
			expected: 85,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, Score(tc.in), 1e-9)
		})
	}
}
