package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "SAFETY_CONFIG_SOURCE", "CATALOG_SOURCE", "PLAN_RATE_LIMIT_PER_MIN", "OBJECT_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.SafetyConfigSource != "embedded" || cfg.CatalogSource != "embedded" {
		t.Fatalf("expected embedded sources, got %q and %q", cfg.SafetyConfigSource, cfg.CatalogSource)
	}
	if cfg.PlanRateLimitPerMin != 10 {
		t.Fatalf("expected default rate limit 10, got %d", cfg.PlanRateLimitPerMin)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
}

func TestLoadNormalizesValues(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("DATABASE_URL", "postgres://localhost/transfit")
	t.Setenv("SAFETY_CONFIG_SOURCE", "S3")
	t.Setenv("CATALOG_SOURCE", "pg")
	t.Setenv("PLAN_RATE_LIMIT_PER_MIN", "not-a-number")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.SafetyConfigSource != "object" {
		t.Fatalf("expected object source, got %q", cfg.SafetyConfigSource)
	}
	if cfg.CatalogSource != "postgres" {
		t.Fatalf("expected postgres catalog, got %q", cfg.CatalogSource)
	}
	if cfg.PlanRateLimitPerMin != 10 {
		t.Fatalf("expected invalid rate limit to fall back to 10, got %d", cfg.PlanRateLimitPerMin)
	}
	if len(cfg.CORSAllowOrigin) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.CORSAllowOrigin)
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line   string
		key    string
		val    string
		wantOK bool
	}{
		{line: "PORT=9090", key: "PORT", val: "9090", wantOK: true},
		{line: "export SAFETY_CONFIG_KEY='safety/rules.yaml'", key: "SAFETY_CONFIG_KEY", val: "safety/rules.yaml", wantOK: true},
		{line: `DATABASE_URL="postgres://u:p@localhost/transfit?sslmode=disable"`, key: "DATABASE_URL", val: "postgres://u:p@localhost/transfit?sslmode=disable", wantOK: true},
		{line: "  # comment", wantOK: false},
		{line: "NOVALUE", wantOK: false},
		{line: "=orphan", wantOK: false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.wantOK || key != tt.key || val != tt.val {
			t.Fatalf("parseEnvLine(%q) = %q, %q, %v", tt.line, key, val, ok)
		}
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRANSFIT_TEST_A=file\nTRANSFIT_TEST_B=file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TRANSFIT_TEST_A", "env")
	t.Setenv("TRANSFIT_TEST_B", "")
	os.Unsetenv("TRANSFIT_TEST_B")

	loadEnvFiles(path)
	t.Cleanup(func() { os.Unsetenv("TRANSFIT_TEST_B") })

	if got := os.Getenv("TRANSFIT_TEST_A"); got != "env" {
		t.Fatalf("expected existing value to win, got %q", got)
	}
	if got := os.Getenv("TRANSFIT_TEST_B"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
