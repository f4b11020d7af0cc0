package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		durationMs := float64(latency.Microseconds()) / 1000.0
		metrics.ObserveRequestDurationMs(durationMs)

		statusTransition := ""
		if raw, ok := c.Get("statusTransition"); ok {
			if s, ok := raw.(string); ok {
				statusTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": statusTransition,
			"duration_ms":       durationMs,
			"user_id":           c.GetString(userIDKey),
			"user_role":         c.GetString(userRoleKey),
			"job_id":            c.GetString("jobId"),
			"application_id":    c.GetString("applicationId"),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
