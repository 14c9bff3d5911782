// Package router walks a query through the ordered answer stages:
// temporal ranking, anomaly detection, comparison, identifier lookup,
// filtered LLM analysis and the general LLM fallback.
package router

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/plantops/eventlens/internal/analysis"
	"github.com/plantops/eventlens/internal/cache"
	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/filters"
	"github.com/plantops/eventlens/internal/logging"
	"github.com/plantops/eventlens/internal/telemetry"
)

// Answer is the uniform result every stage produces.
type Answer struct {
	Answer     string  `json:"answer"`
	Method     string  `json:"method"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
	GraphData  any     `json:"graph_data,omitempty"`
}

// Fixed confidences for the deterministic stages.
const (
	confidenceTemporal     = 95.0
	confidenceAnomaly      = 90.0
	confidenceComparison   = 90.0
	confidenceIdentifier   = 90.0
	confidenceNameSearch   = 85.0
	confidenceGeneral      = 100.0
	confidenceInsufficient = 50.0
)

// Generator is the language model surface the router depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// query carries the per-request state through the stage chain.
type query struct {
	ex   filters.Extraction
	set  *filters.Set
	view *dataset.Table
}

// stage is one (predicate, handler) pair of the cascade.
type stage struct {
	name     string
	activate func(q *query) bool
	handle   func(ctx context.Context, q *query) *Answer
}

// Engine routes queries. It is safe for concurrent use: all mutable state
// lives in the injected cache.
type Engine struct {
	resolver   *filters.Resolver
	comparator *analysis.Comparator
	identifier *analysis.IdentifierReporter
	llm        Generator
	cache      cache.Store
	telemetry  *telemetry.Provider
	logger     logging.Logger
	stages     []stage
}

// New wires the stage chain over the loaded table.
func New(
	resolver *filters.Resolver,
	llmClient Generator,
	store cache.Store,
	tp *telemetry.Provider,
	logger logging.Logger,
) *Engine {
	e := &Engine{
		resolver:   resolver,
		comparator: analysis.NewComparator(resolver.Table(), resolver.Keys()),
		identifier: analysis.NewIdentifierReporter(resolver.Keys()),
		llm:        llmClient,
		cache:      store,
		telemetry:  tp,
		logger:     logger,
	}
	e.stages = []stage{
		{name: filters.MethodTemporal, activate: e.wantsTemporal, handle: e.handleTemporal},
		{name: filters.MethodAnomaly, activate: e.wantsAnomaly, handle: e.handleAnomaly},
		{name: filters.MethodComparison, activate: e.wantsComparison, handle: e.handleComparison},
		{name: filters.MethodIdentifier, activate: e.wantsIdentifier, handle: e.handleIdentifier},
		{name: filters.MethodLLMAnalysis, activate: e.wantsLLMAnalysis, handle: e.handleLLMAnalysis},
		{name: filters.MethodGeneralLLM, activate: func(*query) bool { return true }, handle: e.handleGeneralLLM},
	}
	return e
}

// Answer routes one query and reports whether the result came from cache.
func (e *Engine) Answer(ctx context.Context, text string) (*Answer, bool) {
	start := time.Now()

	ex := filters.Extract(text)
	set, view := e.resolver.Resolve(ex)
	q := &query{ex: ex, set: set, view: view}

	e.logger.Debug("query resolved",
		"lang", ex.Lang,
		"intents", ex.Intents,
		"codes", ex.Codes,
		"rows", view.Len())

	for _, s := range e.stages {
		if !s.activate(q) {
			continue
		}

		if cached, ok := e.fromCache(s.name, text, set); ok {
			e.telemetry.RecordCache(true)
			return cached, true
		}

		ctx, span := e.telemetry.StartSpan(ctx, "stage."+s.name,
			attribute.String("lang", ex.Lang),
			attribute.Int("rows", view.Len()))
		ans := s.handle(ctx, q)
		span.End()

		if ans == nil {
			continue
		}

		e.toCache(s.name, text, set, ans)
		e.telemetry.RecordQuery(ctx, ans.Method, ans.Count, ans.Confidence, time.Since(start))
		e.logger.Info("query answered",
			"method", ans.Method,
			"confidence", ans.Confidence,
			"rows", ans.Count,
			"duration_ms", time.Since(start).Milliseconds())
		return ans, false
	}

	// Unreachable: the general stage always answers.
	return &Answer{Answer: "", Method: filters.MethodGeneralLLM}, false
}

// cachedStages marks the stages expensive enough to cache.
var cachedStages = map[string]bool{
	filters.MethodComparison:  true,
	filters.MethodLLMAnalysis: true,
	filters.MethodGeneralLLM:  true,
}

func (e *Engine) fromCache(stageName, text string, set *filters.Set) (*Answer, bool) {
	if !cachedStages[stageName] {
		return nil, false
	}
	v, ok := e.cache.Get(cache.Key(text, set.Fingerprint()))
	if !ok {
		e.telemetry.RecordCache(false)
		return nil, false
	}
	ans, ok := v.(*Answer)
	return ans, ok
}

func (e *Engine) toCache(stageName, text string, set *filters.Set, ans *Answer) {
	// Failures and empty matches are not worth pinning for the TTL.
	if !cachedStages[stageName] || ans.Confidence == 0 {
		return
	}
	e.cache.Set(cache.Key(text, set.Fingerprint()), ans)
}
