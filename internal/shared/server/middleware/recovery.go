package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"transfit-backend/internal/shared/metrics"
	"transfit-backend/internal/shared/server/respond"
	"transfit-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack
// with the caller and plan it happened for.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			metrics.IncPanic()
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
				"user_id":    UserIDFromContext(c),
			}
			if planID := c.GetString("planId"); planID != "" {
				fields["plan_id"] = planID
			}
			telemetry.Error("http.panic", fields)
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
