package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/plans"
	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/services/health"
	"transfit-backend/internal/shared/config"
	"transfit-backend/internal/shared/server"
	"transfit-backend/internal/shared/storage/db"
	"transfit-backend/internal/shared/storage/object"
	localstore "transfit-backend/internal/shared/storage/object/local"
	s3store "transfit-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Store        object.ObjectStore
	SafetyConfig *safetyconfig.Repository
	Catalog      catalog.Provider
	PlansRepo    plans.Repo
	PlansService *plans.Service
	PlanHandler  *plans.Handler
	Health       *health.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := NewObjectStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	app.SafetyConfig, err = buildSafetyConfig(cfg, store)
	if err != nil {
		return nil, err
	}
	app.Catalog, err = buildCatalog(cfg, sqlDB)
	if err != nil {
		return nil, err
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		PlanHandler: app.PlanHandler,
		Health:      app.Health,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.ConnectForRuntime(ctx, cfg.DatabaseURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("bootstrap: migrations failed: %v", err)
		}
	}
	return sqlDB, nil
}

// NewObjectStore opens the configured object store (local directory or S3).
func NewObjectStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildSafetyConfig points the process-wide repository at the configured
// source so the package-level helpers and the services share one cache.
func buildSafetyConfig(cfg config.Config, store object.ObjectStore) (*safetyconfig.Repository, error) {
	var src safetyconfig.Source
	switch cfg.SafetyConfigSource {
	case "file":
		if strings.TrimSpace(cfg.SafetyConfigPath) == "" {
			return nil, fmt.Errorf("SAFETY_CONFIG_SOURCE=file requires SAFETY_CONFIG_PATH")
		}
		src = safetyconfig.FileSource{Path: cfg.SafetyConfigPath}
	case "object":
		src = safetyconfig.ObjectSource{Store: store, Key: cfg.SafetyConfigKey}
	default:
		src = safetyconfig.EmbeddedSource{}
	}
	safetyconfig.SetDefaultSource(src)
	log.Printf("bootstrap: safety config source %s", src.Name())
	return safetyconfig.Default(), nil
}

func buildCatalog(cfg config.Config, sqlDB *sql.DB) (catalog.Provider, error) {
	if cfg.CatalogSource == "postgres" {
		if sqlDB != nil {
			return &catalog.PGCatalog{DB: sqlDB}, nil
		}
		if !isDevLike(cfg.Env) {
			return nil, fmt.Errorf("CATALOG_SOURCE=postgres requires DATABASE_URL")
		}
		log.Printf("bootstrap: no database; using embedded exercise catalog")
	}
	return catalog.DefaultCatalog()
}

func buildServices(app *App) {
	if app.DB != nil {
		app.PlansRepo = &plans.PGRepo{DB: app.DB}
	} else {
		app.PlansRepo = plans.NewMemoryRepo()
	}

	app.PlansService = &plans.Service{
		Generator: plans.NewGenerator(app.SafetyConfig, app.Catalog),
		Repo:      app.PlansRepo,
		Config:    app.SafetyConfig,
	}
	app.PlanHandler = plans.NewHandler(app.PlansService, server.PlanRateLimit(app.Config.PlanRateLimitPerMin))
	app.Health = health.NewService(app.DB, app.SafetyConfig)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
