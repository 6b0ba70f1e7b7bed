package cli

import (
	"context"
	"fmt"
	"time"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/plans"
	"transfit-backend/internal/profile"
	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/shared/config"
	"transfit-backend/internal/shared/storage/db"
)

// newGenerator wires a generator for local use. An explicit rules file wins
// over the configured source; the catalog comes from Postgres only when
// CATALOG_SOURCE=postgres and a database is configured.
func newGenerator(ctx context.Context, rulesPath string) (*plans.Generator, func(), error) {
	cleanup := func() {}
	var src safetyconfig.Source = safetyconfig.EmbeddedSource{}
	if rulesPath != "" {
		src = safetyconfig.FileSource{Path: rulesPath}
	}
	rules := safetyconfig.NewRepository(src)

	cfg := config.Load()
	if cfg.CatalogSource == "postgres" && cfg.DatabaseURL != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return nil, cleanup, err
		}
		return plans.NewGenerator(rules, &catalog.PGCatalog{DB: sqlDB}), func() { _ = sqlDB.Close() }, nil
	}

	cat, err := catalog.DefaultCatalog()
	if err != nil {
		return nil, cleanup, err
	}
	return plans.NewGenerator(rules, cat), cleanup, nil
}

func parseStart(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := profile.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--start: %w", err)
	}
	return d.Time, nil
}
