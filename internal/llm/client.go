// Package llm provides the HTTP client for the Ollama-compatible language
// model backend.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/plantops/eventlens/internal/logging"
)

// ErrUnavailable reports that the model backend could not be reached or
// returned a non-success status. The router converts it into a bilingual
// failure answer instead of surfacing the raw error.
var ErrUnavailable = errors.New("llm backend unavailable")

const (
	defaultTimeout = 120 * time.Second
	defaultRate    = 1.0
	defaultBurst   = 2
)

// Config holds client construction options.
type Config struct {
	URL           string
	Model         string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

// Client talks to an Ollama /api/generate endpoint. Responses stream as
// JSON lines; the client concatenates the response fragments. Calls are
// rate limited so a burst of uncached queries cannot overload the
// backend.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewClient creates a client for the configured backend.
func NewClient(cfg Config, logger logging.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaultRate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		logger:  logger,
	}
}

// URL returns the configured backend base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// generateRequest is the body for POST /api/generate.
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// generateChunk is one line of the streaming response.
type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate sends a prompt and returns the concatenated streamed answer.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqBody := generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: true,
	}
	if temperature > 0 {
		reqBody.Options = map[string]any{"temperature": temperature}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("llm request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("llm returned bad status", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			// Skip malformed keep-alive lines.
			continue
		}
		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read stream: %w", err)
	}

	c.logger.Debug("llm generate completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", out.Len())

	return strings.TrimSpace(out.String()), nil
}
