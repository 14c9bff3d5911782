// Package api exposes the query engine over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantops/eventlens/internal/cache"
	"github.com/plantops/eventlens/internal/dataset"
	"github.com/plantops/eventlens/internal/router"
)

const quickStatsTop = 5

// Logger defines the logging interface
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Answerer routes one natural-language query to an answer.
type Answerer interface {
	Answer(ctx context.Context, query string) (*router.Answer, bool)
}

// Info identifies the running service in health responses.
type Info struct {
	Service string
	Version string
	Model   string
}

// Handler handles HTTP requests for the query API
type Handler struct {
	engine  Answerer
	table   *dataset.Table
	keys    dataset.KeyColumns
	profile dataset.Profile
	cache   cache.Store
	info    Info
	logger  Logger
}

// NewHandler creates a new API handler
func NewHandler(
	engine Answerer,
	table *dataset.Table,
	keys dataset.KeyColumns,
	profile dataset.Profile,
	store cache.Store,
	info Info,
	logger Logger,
) *Handler {
	return &Handler{
		engine:  engine,
		table:   table,
		keys:    keys,
		profile: profile,
		cache:   store,
		info:    info,
		logger:  logger,
	}
}

// Ask handles POST /ask
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid ask request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	h.logger.Info("Answering query", "query", req.Query)

	ans, cached := h.engine.Answer(c.Request.Context(), req.Query)

	h.logger.Info("Query answered",
		"method", ans.Method,
		"confidence", ans.Confidence,
		"cached", cached,
	)

	c.JSON(http.StatusOK, toAskResponse(req.Query, ans, cached))
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profile)
}

// QuickStats handles GET /quick-stats
func (h *Handler) QuickStats(c *gin.Context) {
	h.logger.Debug("Building quick stats")

	resp := QuickStatsResponse{
		TotalEvents: h.profile.TotalEvents,
		Columns:     len(h.profile.Columns),
		DateRange:   h.profile.DateRange,
		DailyStats:  h.profile.DailyStats,
	}
	resp.TopEquipment = topCounts(h.table, h.keys.Identifier)
	resp.TopAreas = topCounts(h.table, h.keys.Area)

	c.JSON(http.StatusOK, resp)
}

// ClearCache handles POST /cache/clear
func (h *Handler) ClearCache(c *gin.Context) {
	h.cache.Clear()
	h.logger.Info("Query cache cleared")
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// CacheStats handles GET /cache/stats
func (h *Handler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.cache.Stats())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     h.info.Service,
		"version":     h.info.Version,
		"rows":        h.table.Len(),
		"key_columns": h.keys,
		"cache":       h.cache.Stats(),
	})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if h.table.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"checks": gin.H{"dataset": "empty"},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{
			"dataset": "ok",
			"model":   h.info.Model,
		},
	})
}

// topCounts returns the leading values of one key column.
func topCounts(t *dataset.Table, column string) []NamedCount {
	if column == "" {
		return nil
	}
	counts := t.ValueCounts(column)
	if len(counts) > quickStatsTop {
		counts = counts[:quickStatsTop]
	}
	out := make([]NamedCount, 0, len(counts))
	for _, vc := range counts {
		out = append(out, NamedCount{Name: vc.Value, Count: vc.Count})
	}
	return out
}
