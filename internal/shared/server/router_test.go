package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transfit-backend/internal/shared/config"
)

func TestRouterHealthAndMetricsArePublic(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	for _, path := range []string{"/api/v1/health", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if !strings.Contains(resp.Body.String(), "plans_generated_total") {
		t.Fatalf("expected plan metrics, got %s", resp.Body.String())
	}
}

func TestMeReportsGuestIdentity(t *testing.T) {
	router := NewRouter(RouterDeps{Config: config.Config{Env: "dev"}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Guest-Id", "abc")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		UserID  string `json:"userId"`
		IsGuest bool   `json:"isGuest"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != "guest:abc" || !body.IsGuest {
		t.Fatalf("unexpected identity %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{
		"":      ":8080",
		"9000":  ":9000",
		":3000": ":3000",
	}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
