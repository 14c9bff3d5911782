package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, metrics http.Handler) {
	// Health and readiness checks
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadyCheck)

	// Query endpoint
	router.POST("/ask", handler.Ask)

	// Dataset introspection
	router.GET("/profile", handler.GetProfile)
	router.GET("/quick-stats", handler.QuickStats)

	// Cache management
	router.POST("/cache/clear", handler.ClearCache)
	router.GET("/cache/stats", handler.CacheStats)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics))
}
