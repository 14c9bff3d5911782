package router

import (
	"context"
	"time"

	"github.com/plantops/eventlens/internal/analysis"
	"github.com/plantops/eventlens/internal/filters"
	"github.com/plantops/eventlens/internal/i18n"
	"github.com/plantops/eventlens/internal/lexical"
	"github.com/plantops/eventlens/internal/llm"
)

func (e *Engine) wantsTemporal(q *query) bool {
	return analysis.WantsTemporal(q.ex.Query, q.ex.Intents)
}

func (e *Engine) handleTemporal(_ context.Context, q *query) *Answer {
	if q.view.Len() == 0 {
		return e.noData(filters.MethodTemporal, q.ex.Lang)
	}
	res := analysis.RankTemporal(q.view, e.resolver.Keys().Date, q.ex.Query, q.ex.Intents, q.ex.Lang)
	return &Answer{
		Answer:     analysis.TemporalReport(res, q.ex.Lang),
		Method:     filters.MethodTemporal,
		Confidence: confidenceTemporal,
		Count:      q.view.Len(),
	}
}

func (e *Engine) wantsAnomaly(q *query) bool {
	return lexical.HasIntent(q.ex.Intents, lexical.IntentAnomaly)
}

func (e *Engine) handleAnomaly(_ context.Context, q *query) *Answer {
	res, err := analysis.DetectAnomalies(q.view, e.resolver.Keys().Date)
	if err != nil {
		// Only ErrInsufficientHistory reaches here; answer it rather
		// than hand a statistics question to the language model.
		return &Answer{
			Answer:     i18n.T("too_few_days", q.ex.Lang),
			Method:     filters.MethodAnomaly,
			Confidence: confidenceInsufficient,
			Count:      q.view.Len(),
		}
	}
	ans := &Answer{
		Answer:     analysis.AnomalyReport(res, q.ex.Lang),
		Method:     filters.MethodAnomaly,
		Confidence: confidenceAnomaly,
		Count:      q.view.Len(),
	}
	if q.view.Len() > 0 {
		ans.GraphData = analysis.BuildLineChart(
			q.view, e.resolver.Keys().Date, i18n.T("event_count", q.ex.Lang), res)
	}
	return ans
}

func (e *Engine) wantsComparison(q *query) bool {
	return lexical.HasIntent(q.ex.Intents, lexical.IntentComparison) ||
		len(q.set.ComparisonIdentifiers) >= 2
}

func (e *Engine) handleComparison(_ context.Context, q *query) *Answer {
	res := e.comparator.Compare(q.ex, q.set)
	if res == nil {
		// Nothing comparable in the query; let a later stage answer.
		return nil
	}
	if len(res.Entities) == 0 {
		return e.noData(filters.MethodComparison, q.ex.Lang)
	}
	ans := &Answer{
		Answer:     e.comparator.ComparisonReport(res, q.ex.Lang),
		Method:     filters.MethodComparison,
		Confidence: confidenceComparison,
		Count:      res.Total,
	}
	if analysis.WantsChart(q.ex.Query) {
		ans.GraphData = analysis.BuildComparisonChart(
			res, e.resolver.Keys().Date, i18n.T("comparison_header", q.ex.Lang))
	}
	return ans
}

func (e *Engine) wantsIdentifier(q *query) bool {
	return q.set.Identifier != "" ||
		lexical.HasIntent(q.ex.Intents, lexical.IntentPITag)
}

func (e *Engine) handleIdentifier(_ context.Context, q *query) *Answer {
	view := q.view
	code := q.set.Identifier
	confidence := confidenceIdentifier

	if code == "" {
		// PI-tag question without an equipment code: fall back to a
		// word match against names and tags.
		view = e.identifier.SearchByNameOrTag(view, q.ex.Query)
		if view.Len() == 0 {
			return nil
		}
		code = view.Value(0, e.resolver.Keys().Identifier)
		confidence = confidenceNameSearch
	}
	if view.Len() == 0 {
		return e.noData(filters.MethodIdentifier, q.ex.Lang)
	}

	ans := &Answer{
		Answer:     e.identifier.Report(view, code, q.ex.Lang),
		Method:     filters.MethodIdentifier,
		Confidence: confidence,
		Count:      view.Len(),
	}
	if analysis.WantsChart(q.ex.Query) {
		ans.GraphData = analysis.BuildLineChart(view, e.resolver.Keys().Date, code, nil)
	}
	return ans
}

// wantsLLMAnalysis separates questions about the event log from small
// talk. Any resolved filter, extracted entity, or non-general intent
// marks a data question; only pure chit-chat falls to the general stage.
func (e *Engine) wantsLLMAnalysis(q *query) bool {
	if !q.set.Empty() || len(q.ex.Codes) > 0 || len(q.ex.Months) > 0 || len(q.ex.Ranges) > 0 {
		return true
	}
	for _, intent := range q.ex.Intents {
		if intent != lexical.IntentGeneral {
			return true
		}
	}
	return false
}

func (e *Engine) handleLLMAnalysis(ctx context.Context, q *query) *Answer {
	prompt := llm.AnalysisPrompt(
		q.ex.Query,
		e.resolver.BuildContext(q.ex.Query, q.set, q.view),
		q.ex.Lang)

	text, err := e.generate(ctx, prompt, llm.AnalysisTemperature)
	if err != nil {
		e.logger.Warn("llm analysis failed", "error", err)
		return &Answer{
			Answer: i18n.T("llm_failed", q.ex.Lang),
			Method: filters.MethodLLMAnalysis,
			Count:  q.view.Len(),
		}
	}

	ans := &Answer{
		Answer: text,
		Method: filters.MethodLLMAnalysis,
		Confidence: filters.Score(filters.ScoreInput{
			Query:     q.ex.Query,
			Method:    filters.MethodLLMAnalysis,
			Rows:      q.view.Len(),
			Filters:   q.set,
			NullRatio: q.view.NullRatioAll(),
		}),
		Count: q.view.Len(),
	}
	if analysis.WantsChart(q.ex.Query) && q.view.Len() > 0 {
		ans.GraphData = analysis.BuildLineChart(
			q.view, e.resolver.Keys().Date, i18n.T("event_count", q.ex.Lang), nil)
	}
	return ans
}

func (e *Engine) handleGeneralLLM(ctx context.Context, q *query) *Answer {
	text, err := e.generate(ctx, llm.GeneralPrompt(q.ex.Query, q.ex.Lang), llm.GeneralTemperature)
	if err != nil {
		e.logger.Warn("general llm failed", "error", err)
		return &Answer{
			Answer: i18n.T("llm_failed", q.ex.Lang),
			Method: filters.MethodGeneralLLM,
		}
	}
	return &Answer{
		Answer:     text,
		Method:     filters.MethodGeneralLLM,
		Confidence: confidenceGeneral,
	}
}

func (e *Engine) generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	start := time.Now()
	text, err := e.llm.Generate(ctx, prompt, temperature)
	e.telemetry.RecordLLM(time.Since(start), err)
	return text, err
}

func (e *Engine) noData(method, lang string) *Answer {
	return &Answer{Answer: i18n.T("no_data", lang), Method: method}
}
