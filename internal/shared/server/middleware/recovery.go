package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/server/respond"
	"jobboard-backend/internal/shared/telemetry"
)

// Recovery recovers from panics and returns the generic failure envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.Error("panic", map[string]any{
					"request_id": RequestIDFromContext(c),
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Internal(c, "Something went wrong!", fmt.Errorf("panic: %v", rec))
			}
		}()
		c.Next()
	}
}

// ExposeErrorDetails lets respond.Internal include error text, used outside production.
func ExposeErrorDetails(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(respond.ExposeDetailsKey, enabled)
		c.Next()
	}
}
