package handlers

import (
	"context"
	"net/http"
	"time"

	"devqa.backend/internal/interfaces/http/response"
	"devqa.backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler reports liveness and dependency status. The process is
// alive whenever it answers, so the status code is always 200 and failed
// dependencies only mark the body as degraded.
type HealthHandler struct {
	service string
	version string
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a health handler running the named checks
func NewHealthHandler(service, version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	overall := "ok"
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.Warn(ctx, "Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			overall = "degraded"
			continue
		}
		deps[name] = "up"
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":       overall,
		"service":      h.service,
		"version":      h.version,
		"dependencies": deps,
	})
}
