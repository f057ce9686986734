package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// healthCheckTimeout bounds each dependency probe.
const healthCheckTimeout = 3 * time.Second

// HealthChecker probes a dependency.
type HealthChecker func(ctx context.Context) error

// HealthController handles health check endpoints.
type HealthController struct {
	database HealthChecker
	redis    HealthChecker
	ocr      HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	OCR       string `json:"ocr"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance. Nil checkers report "unknown".
func NewHealthController(database, redis, ocr HealthChecker) *HealthController {
	return &HealthController{
		database: database,
		redis:    redis,
		ocr:      ocr,
	}
}

// Check handles GET /health requests.
// The API is unavailable without its database; the other dependencies only degrade it.
func (h *HealthController) Check(c *gin.Context) {
	ctx := c.Request.Context()

	response := HealthResponse{
		Status:    "ok",
		Database:  probe(ctx, h.database, "connected", "disconnected"),
		Redis:     probe(ctx, h.redis, "connected", "disconnected"),
		OCR:       probe(ctx, h.ocr, "available", "unavailable"),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	switch {
	case response.Database != "connected":
		response.Status = "unavailable"
		status = http.StatusServiceUnavailable
	case response.Redis != "connected" || response.OCR != "available":
		response.Status = "degraded"
	}

	c.JSON(status, response)
}

func probe(ctx context.Context, check HealthChecker, up, down string) string {
	if check == nil {
		return "unknown"
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return down
	}
	return up
}
