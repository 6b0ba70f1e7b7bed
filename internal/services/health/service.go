package health

import (
	"context"
	"database/sql"
	"time"

	"transfit-backend/internal/shared/storage/db"
)

// ConfigState reports whether the safety rules are cached.
type ConfigState interface {
	IsLoaded() bool
}

// Service encapsulates health-related checks.
type Service struct {
	DB     *sql.DB
	Config ConfigState
}

// NewService constructs a new health service.
func NewService(db *sql.DB, cfg ConfigState) *Service {
	return &Service{DB: db, Config: cfg}
}

// Status returns a health payload. The process is healthy when the database,
// if configured, answers a ping. An uncached safety config is reported but
// does not fail the check; it is fetched on the next plan request.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{"ok": true, "database": "memory"}
	if s == nil {
		return status
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			status["ok"] = false
			status["database"] = "unreachable"
		} else {
			status["database"] = "postgres"
			status["pool"] = db.PoolStats(s.DB)
		}
	}
	if s.Config != nil {
		status["safetyConfigLoaded"] = s.Config.IsLoaded()
	}
	return status
}
