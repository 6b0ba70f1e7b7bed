package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transfit-backend/internal/plans"
	"transfit-backend/internal/services/health"
	"transfit-backend/internal/shared/config"
	"transfit-backend/internal/shared/metrics"
	"transfit-backend/internal/shared/server/middleware"
	"transfit-backend/internal/shared/server/respond"
)

const planGenerateGroup = "PLAN_GENERATE"

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config      config.Config
	PlanHandler *plans.Handler
	Health      *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	registerMeRoutes(api)

	if deps.PlanHandler != nil {
		if deps.PlanHandler.CreateLimit == nil {
			deps.PlanHandler.CreateLimit = PlanRateLimit(cfg.PlanRateLimitPerMin)
		}
		deps.PlanHandler.RegisterRoutes(api)
		if cfg.Env == "dev" {
			dev := api.Group("/dev")
			deps.PlanHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// PlanRateLimit limits plan generation per caller. A non-positive rate
// disables the limit.
func PlanRateLimit(perMinute int) gin.HandlerFunc {
	burst := perMinute / 4
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: planGenerateGroup,
		Rules: map[string]middleware.RateLimitRule{
			planGenerateGroup: {Rate: float64(perMinute) / 60.0, Burst: burst},
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
