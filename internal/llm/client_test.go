package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/eventlens/internal/logging"
)

func newTestClient(url string) *Client {
	return NewClient(Config{URL: url, Model: "test-model", RatePerSecond: 1000, Burst: 1000}, logging.NewNop())
}

func TestGenerateConcatenatesStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"response":"Hello ","done":false}` + "\n"))
		_, _ = w.Write([]byte(`{"response":"world.","done":true}` + "\n"))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).Generate(context.Background(), "hi", 0)
	require.NoError(t, err)
	assert.Equal(t, "Hello world.", out)
}

func TestGenerateSkipsMalformedLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json\n"))
		_, _ = w.Write([]byte(`{"response":"ok","done":true}` + "\n"))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).Generate(context.Background(), "hi", 0.5)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGenerateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), "hi", 0)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Generate(context.Background(), "hi", 0)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPromptsCarryLanguage(t *testing.T) {
	assert.Contains(t, AnalysisPrompt("q", "ctx", "id"), "bahasa Indonesia")
	assert.Contains(t, AnalysisPrompt("q", "ctx", "en"), "in English")
	assert.Contains(t, GeneralPrompt("q", "id"), "PERTANYAAN: q")
}
