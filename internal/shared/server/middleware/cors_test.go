package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantCreds   string
		wantMaxAge  string
		wantMethods bool
	}{
		{
			name:        "preflight from listed origin",
			allowed:     []string{"http://localhost:5173"},
			method:      http.MethodOptions,
			origin:      "http://localhost:5173",
			wantStatus:  http.StatusNoContent,
			wantOrigin:  "http://localhost:5173",
			wantCreds:   "true",
			wantMaxAge:  "600",
			wantMethods: true,
		},
		{
			name:        "post from listed origin with trailing slash in config",
			allowed:     []string{"https://app.transfit.example/"},
			method:      http.MethodPost,
			origin:      "https://app.transfit.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "https://app.transfit.example",
			wantCreds:   "true",
			wantMaxAge:  "600",
			wantMethods: true,
		},
		{
			name:        "wildcard never sends credentials",
			allowed:     []string{"*"},
			method:      http.MethodPost,
			origin:      "https://other.example",
			wantStatus:  http.StatusOK,
			wantOrigin:  "*",
			wantMaxAge:  "600",
			wantMethods: true,
		},
		{
			name:       "unlisted origin gets no headers",
			allowed:    []string{"http://localhost:5173"},
			method:     http.MethodPost,
			origin:     "https://evil.example",
			wantStatus: http.StatusOK,
		},
		{
			name:       "preflight from unlisted origin still short-circuits",
			allowed:    []string{"http://localhost:5173"},
			method:     http.MethodOptions,
			origin:     "https://evil.example",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.allowed))
			router.POST("/api/v1/plans/:id", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			})

			req := httptest.NewRequest(tt.method, "/api/v1/plans/123", nil)
			req.Header.Set("Origin", tt.origin)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			h := resp.Header()
			if got := h.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Fatalf("expected Allow-Origin %q, got %q", tt.wantOrigin, got)
			}
			if got := h.Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Fatalf("expected Allow-Credentials %q, got %q", tt.wantCreds, got)
			}
			if got := h.Get("Access-Control-Max-Age"); got != tt.wantMaxAge {
				t.Fatalf("expected Max-Age %q, got %q", tt.wantMaxAge, got)
			}
			if got := h.Get("Access-Control-Allow-Methods"); (got != "") != tt.wantMethods {
				t.Fatalf("unexpected Allow-Methods %q", got)
			}
			if h.Get("Vary") != "Origin" {
				t.Fatalf("expected Vary: Origin")
			}
		})
	}
}
