package respond

import (
	"github.com/gin-gonic/gin"

	"transfit-backend/internal/shared/telemetry"
)

// ErrorBody is the error object every failed API call returns.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error   ErrorBody `json:"error"`
	Request string    `json:"requestId,omitempty"`
}

// Error logs the failure and aborts with the standard envelope. 5xx are
// logged at error level, client mistakes at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	reqID := c.GetString("requestId")
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"method":     c.Request.Method,
		"request_id": reqID,
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if planID := c.GetString("planId"); planID != "" {
		fields["plan_id"] = planID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Request: reqID,
	})
}
