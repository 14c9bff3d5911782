package router

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/eventlens/internal/cache"
	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/filters"
	"github.com/plantops/eventlens/internal/i18n"
	"github.com/plantops/eventlens/internal/llm"
	"github.com/plantops/eventlens/internal/logging"
	"github.com/plantops/eventlens/internal/telemetry"
)

// One provider per test binary: promauto registers collectors globally.
var testProvider = telemetry.NewProvider()

const eventCSV = "Equipment,Equipment Name,Asset Category,Plant Area,Severity,Event Time\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,High,2025-08-05 10:00:00\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,High,2025-08-12 11:30:00\n" +
	"GB-651,Conveyor Drive,Mechanical,Crusher,Low,2025-09-14 08:00:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,High,2025-08-20 09:15:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,Low,2025-09-02 16:45:00\n" +
	"EA-119,Feed Pump,Electrical,Mill,Low,2025-09-16 07:20:00\n"

type fakeLLM struct {
	reply   string
	err     error
	prompts []string
	temps   []float64
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, temperature float64) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.temps = append(f.temps, temperature)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newEngine(t *testing.T, csv string, gen Generator) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))
	table, keys, err := dataset.Load(path)
	require.NoError(t, err)
	return New(filters.NewResolver(table, keys), gen, cache.New(10, time.Minute), testProvider, logging.NewNop())
}

func TestTemporalStage(t *testing.T) {
	e := newEngine(t, eventCSV, &fakeLLM{})
	ans, cached := e.Answer(context.Background(), "which month has the most events?")

	assert.False(t, cached)
	assert.Equal(t, filters.MethodTemporal, ans.Method)
	assert.Equal(t, confidenceTemporal, ans.Confidence)
	assert.Contains(t, ans.Answer, "August")
	assert.Equal(t, 6, ans.Count)
}

func TestAnomalyStageInsufficientHistory(t *testing.T) {
	e := newEngine(t, eventCSV, &fakeLLM{})
	ans, _ := e.Answer(context.Background(), "any anomalies in the data?")

	assert.Equal(t, filters.MethodAnomaly, ans.Method)
	assert.Equal(t, i18n.T("too_few_days", "en"), ans.Answer)
	assert.Equal(t, confidenceInsufficient, ans.Confidence)
}

func TestAnomalyStageWithSpike(t *testing.T) {
	csv := "Equipment,Equipment Name,Plant Area,Event Time\n"
	for d := 1; d <= 14; d++ {
		for i := 0; i < 2; i++ {
			csv += fmt.Sprintf("GB-651,Conveyor Drive,Crusher,2025-08-%02d 0%d:00:00\n", d, i+1)
		}
	}
	for i := 0; i < 30; i++ {
		csv += fmt.Sprintf("GB-651,Conveyor Drive,Crusher,2025-08-15 %02d:10:00\n", i%24)
	}

	e := newEngine(t, csv, &fakeLLM{})
	ans, _ := e.Answer(context.Background(), "show anomalies in august")

	assert.Equal(t, filters.MethodAnomaly, ans.Method)
	assert.Equal(t, confidenceAnomaly, ans.Confidence)
	assert.Contains(t, ans.Answer, "2025-08-15")
	assert.NotNil(t, ans.GraphData)
}

func TestComparisonStageAndCache(t *testing.T) {
	e := newEngine(t, eventCSV, &fakeLLM{})

	ans, cached := e.Answer(context.Background(), "bandingkan GB-651 dan EA-119")
	assert.False(t, cached)
	assert.Equal(t, filters.MethodComparison, ans.Method)
	assert.Equal(t, confidenceComparison, ans.Confidence)
	assert.Equal(t, 6, ans.Count)
	assert.Contains(t, ans.Answer, "GB-651")

	again, cached := e.Answer(context.Background(), "bandingkan GB-651 dan EA-119")
	assert.True(t, cached)
	assert.Equal(t, ans.Answer, again.Answer)
}

func TestComparisonStageFallsThrough(t *testing.T) {
	gen := &fakeLLM{reply: "The recent weeks were dominated by crusher events."}
	e := newEngine(t, eventCSV, gen)

	// A comparison keyword without comparable entities must not produce a
	// comparison answer; the query belongs to the analysis stage.
	ans, _ := e.Answer(context.Background(), "compare the recent situation please")
	assert.Equal(t, filters.MethodLLMAnalysis, ans.Method)
	assert.Equal(t, gen.reply, ans.Answer)
	require.Len(t, gen.prompts, 1)
}

func TestIdentifierStage(t *testing.T) {
	e := newEngine(t, eventCSV, &fakeLLM{})
	ans, _ := e.Answer(context.Background(), "show GB-651 history")

	assert.Equal(t, filters.MethodIdentifier, ans.Method)
	assert.Equal(t, confidenceIdentifier, ans.Confidence)
	assert.Equal(t, 3, ans.Count)
	assert.Contains(t, ans.Answer, "GB-651")
}

func TestIdentifierStageNameSearch(t *testing.T) {
	e := newEngine(t, eventCSV, &fakeLLM{})
	ans, _ := e.Answer(context.Background(), "what is the pi tag of the conveyor drive")

	assert.Equal(t, filters.MethodIdentifier, ans.Method)
	assert.Equal(t, confidenceNameSearch, ans.Confidence)
	assert.Equal(t, 3, ans.Count)
}

func TestLLMAnalysisStage(t *testing.T) {
	gen := &fakeLLM{reply: "August was busy in the crusher area."}
	e := newEngine(t, eventCSV, gen)
	ans, _ := e.Answer(context.Background(), "summarize august events for the crusher area")

	assert.Equal(t, filters.MethodLLMAnalysis, ans.Method)
	assert.Equal(t, gen.reply, ans.Answer)
	assert.GreaterOrEqual(t, ans.Confidence, 80.0)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "summarize august events")
	require.Len(t, gen.temps, 1)
	assert.Equal(t, llm.AnalysisTemperature, gen.temps[0])
}

func TestLLMAnalysisStageUnfilteredCount(t *testing.T) {
	gen := &fakeLLM{reply: "The log holds 6 events."}
	e := newEngine(t, eventCSV, gen)

	// A count question with no filters is still about the data and must
	// reach the analysis stage, not the general one.
	ans, _ := e.Answer(context.Background(), "how many events do we have in total?")
	assert.Equal(t, filters.MethodLLMAnalysis, ans.Method)
	require.Len(t, gen.temps, 1)
	assert.Equal(t, llm.AnalysisTemperature, gen.temps[0])
}

func TestGeneralLLMStage(t *testing.T) {
	gen := &fakeLLM{reply: "Hello! Ask me about your event log."}
	e := newEngine(t, eventCSV, gen)

	ans, cached := e.Answer(context.Background(), "hello, who are you")
	assert.False(t, cached)
	assert.Equal(t, filters.MethodGeneralLLM, ans.Method)
	assert.Equal(t, confidenceGeneral, ans.Confidence)
	require.Len(t, gen.temps, 1)
	assert.Equal(t, llm.GeneralTemperature, gen.temps[0])

	_, cached = e.Answer(context.Background(), "hello, who are you")
	assert.True(t, cached)
	assert.Len(t, gen.prompts, 1)
}

func TestLLMFailure(t *testing.T) {
	gen := &fakeLLM{err: errors.New("connection refused")}
	e := newEngine(t, eventCSV, gen)
	ans, _ := e.Answer(context.Background(), "summarize august events")

	assert.Equal(t, filters.MethodLLMAnalysis, ans.Method)
	assert.Equal(t, i18n.T("llm_failed", "en"), ans.Answer)
	assert.Zero(t, ans.Confidence)
}
