package telemetry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/plantops/eventlens/internal/telemetry"
)

// providerOnce ensures we only create one Provider per test run to avoid
// duplicate Prometheus metric registration errors from promauto's global
// registry.
var (
	testProvider *telemetry.Provider
	providerOnce sync.Once
)

func getTestProvider(t *testing.T) *telemetry.Provider {
	t.Helper()
	providerOnce.Do(func() {
		testProvider = telemetry.NewProvider()
	})
	return testProvider
}

func TestNewProvider(t *testing.T) {
	provider := getTestProvider(t)
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestRecordQuery(t *testing.T) {
	provider := getTestProvider(t)
	ctx := context.Background()

	// Should not panic
	provider.RecordQuery(ctx, "temporal_analysis", 120, 95, 10*time.Millisecond)
	provider.RecordQuery(ctx, "general_llm", 0, 0, 2*time.Second)
}

func TestRecordCacheAndLLM(t *testing.T) {
	provider := getTestProvider(t)

	// Should not panic
	provider.RecordCache(true)
	provider.RecordCache(false)
	provider.RecordLLM(time.Second, nil)
	provider.RecordLLM(time.Second, errors.New("boom"))
}

func TestStartSpan(t *testing.T) {
	provider := getTestProvider(t)

	ctx, span := provider.StartSpan(context.Background(), "test-span")
	if ctx == nil {
		t.Error("expected non-nil context")
	}
	span.End()
}
