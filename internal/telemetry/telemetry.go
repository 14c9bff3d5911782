// Package telemetry provides OpenTelemetry instrumentation for the
// eventlens service. It exports Prometheus metrics and provides tracing
// capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "eventlens"

// Metrics holds all eventlens Prometheus metrics.
type Metrics struct {
	// Query pipeline metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	QueryRows     prometheus.Histogram
	Confidence    prometheus.Histogram

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// LLM backend metrics
	LLMRequests prometheus.Counter
	LLMFailures prometheus.Counter
	LLMDuration prometheus.Histogram
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}

	m.QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventlens_queries_total",
		Help: "Total queries answered, labeled by routing method",
	}, []string{"method"})

	m.QueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventlens_query_duration_seconds",
		Help:    "Time to answer a single query",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
	}, []string{"method"})

	m.QueryRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventlens_query_rows",
		Help:    "Rows matched by the resolved filter set",
		Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 20000},
	})

	m.Confidence = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventlens_answer_confidence",
		Help:    "Confidence score of delivered answers",
		Buckets: []float64{0, 10, 25, 50, 70, 80, 90, 95, 100},
	})

	m.CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlens_cache_hits_total",
		Help: "Answers served from the query cache",
	})

	m.CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlens_cache_misses_total",
		Help: "Queries that missed the cache",
	})

	m.LLMRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlens_llm_requests_total",
		Help: "Requests sent to the language model backend",
	})

	m.LLMFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventlens_llm_failures_total",
		Help: "Language model requests that failed",
	})

	m.LLMDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eventlens_llm_duration_seconds",
		Help:    "Language model round-trip time",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	})

	return m
}

// RecordQuery records the outcome of one answered query.
func (p *Provider) RecordQuery(ctx context.Context, method string, rows int, confidence float64, duration time.Duration) {
	p.Metrics.QueriesTotal.WithLabelValues(method).Inc()
	p.Metrics.QueryDuration.WithLabelValues(method).Observe(duration.Seconds())
	p.Metrics.QueryRows.Observe(float64(rows))
	p.Metrics.Confidence.Observe(confidence)
}

// RecordCache records a cache lookup outcome.
func (p *Provider) RecordCache(hit bool) {
	if hit {
		p.Metrics.CacheHits.Inc()
	} else {
		p.Metrics.CacheMisses.Inc()
	}
}

// RecordLLM records one backend call.
func (p *Provider) RecordLLM(duration time.Duration, err error) {
	p.Metrics.LLMRequests.Inc()
	p.Metrics.LLMDuration.Observe(duration.Seconds())
	if err != nil {
		p.Metrics.LLMFailures.Inc()
	}
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
