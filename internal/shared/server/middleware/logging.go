package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"transfit-backend/internal/shared/telemetry"
)

// quietRoutes are probed constantly and only logged when they fail.
var quietRoutes = map[string]bool{
	"/api/v1/health": true,
	"/metrics":       true,
}

// Logging emits one structured line per request. 5xx responses log at error
// level and 4xx at warn.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		route := c.FullPath()
		if quietRoutes[route] && status < http.StatusInternalServerError {
			return
		}

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		planID, _ := c.Get("planId")
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       route,
			"status":      status,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     userID,
			"plan_id":     planID,
			"is_guest":    isGuest,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			telemetry.Error("request.complete", fields)
		case status >= http.StatusBadRequest:
			telemetry.Warn("request.complete", fields)
		default:
			telemetry.Info("request.complete", fields)
		}
	}
}
