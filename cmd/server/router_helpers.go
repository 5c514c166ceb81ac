package main

import (
	"net/http"
	"strings"

	"devqa.backend/internal/interfaces/http/handlers"
	"devqa.backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", middleware.IdempotencyHeader, middleware.RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{handlers.TotalCountHeader, handlers.TotalPagesHeader, middleware.RequestIDHeader}, ", ")
)

// applyCORSMiddleware echoes allowed origins with credentials enabled so the
// browser sends the session cookie. An empty list allows every origin.
func applyCORSMiddleware(r *gin.Engine, allowedOrigins []string) {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && originAllowed(allowed, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func originAllowed(allowed map[string]struct{}, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

func registerHealthRoute(r *gin.Engine, h *handlers.HealthHandler) {
	r.GET("/health", h.Health)
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
