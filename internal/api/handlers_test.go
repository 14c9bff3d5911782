package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/plantops/eventlens/internal/cache"
	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/router"
)

// mockLogger implements Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// mockEngine returns a canned answer for every query.
type mockEngine struct {
	answer *router.Answer
	cached bool
}

func (m *mockEngine) Answer(_ context.Context, _ string) (*router.Answer, bool) {
	return m.answer, m.cached
}

const testCSV = "Equipment,Equipment Name,Plant Area,Event Time\n" +
	"GB-651,Conveyor Drive,Crusher,2025-08-05 10:00:00\n" +
	"GB-651,Conveyor Drive,Crusher,2025-08-12 11:30:00\n" +
	"EA-119,Feed Pump,Mill,2025-08-20 09:15:00\n"

// setupTestRouter wires a handler over a small fixture table.
func setupTestRouter(t *testing.T, engine Answerer) (*gin.Engine, *Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "events.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	table, keys, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	handler := NewHandler(
		engine,
		table,
		keys,
		dataset.BuildProfile(table, keys),
		cache.New(10, time.Minute),
		Info{Service: "eventlens", Version: "1.0.0", Model: "llama3.1:8b"},
		&mockLogger{},
	)

	r := gin.New()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	SetupRoutes(r, handler, metrics)
	return r, handler
}

func TestAsk(t *testing.T) {
	engine := &mockEngine{answer: &router.Answer{
		Answer:     "August was the busiest month.",
		Method:     "temporal_analysis",
		Confidence: 95.04,
		Count:      3,
	}}
	r, _ := setupTestRouter(t, engine)

	body, _ := json.Marshal(AskRequest{Query: "which month has the most events?"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp AskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Method != "temporal_analysis" {
		t.Errorf("unexpected method %q", resp.Method)
	}
	if resp.Confidence != 95.0 {
		t.Errorf("expected confidence rounded to 95.0, got %v", resp.Confidence)
	}
	if resp.Count != 3 {
		t.Errorf("expected count 3, got %d", resp.Count)
	}
	if resp.Cached {
		t.Error("expected cached=false")
	}
}

func TestAskMissingQuery(t *testing.T) {
	r, _ := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["service"] != "eventlens" {
		t.Errorf("unexpected service %v", resp["service"])
	}
	if resp["rows"] != float64(3) {
		t.Errorf("unexpected rows %v", resp["rows"])
	}
}

func TestReadyCheck(t *testing.T) {
	r, _ := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestQuickStats(t *testing.T) {
	r, _ := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/quick-stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp QuickStatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalEvents != 3 {
		t.Errorf("expected 3 events, got %d", resp.TotalEvents)
	}
	if len(resp.TopEquipment) != 2 || resp.TopEquipment[0].Name != "GB-651" {
		t.Errorf("unexpected top equipment %+v", resp.TopEquipment)
	}
}

func TestProfile(t *testing.T) {
	r, _ := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp dataset.Profile
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DateRange == nil || resp.DateRange.Start != "2025-08-05" {
		t.Errorf("unexpected date range %+v", resp.DateRange)
	}
}

func TestCacheEndpoints(t *testing.T) {
	r, handler := setupTestRouter(t, &mockEngine{answer: &router.Answer{}})
	handler.cache.Set("k", "v")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cache/clear", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cache/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats cache.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", stats.Entries)
	}
}
