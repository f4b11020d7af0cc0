package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/shared/telemetry"
)

// ExposeDetailsKey is the gin context key that enables error details on 500s.
const ExposeDetailsKey = "exposeErrorDetails"

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Error sends a failure envelope and logs it. code is a short machine label for logs.
func Error(c *gin.Context, status int, code, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Message: message,
	})
}

// Internal sends a 500. The underlying error is only included when the
// router enabled details (non-production).
func Internal(c *gin.Context, message string, err error) {
	fields := map[string]any{
		"status":     http.StatusInternalServerError,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	telemetry.Error("http.internal", fields)

	body := ErrorResponse{Success: false, Message: message}
	if err != nil && c.GetBool(ExposeDetailsKey) {
		body.Error = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
