package plans

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"transfit-backend/internal/profile"
	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/selector"
	"transfit-backend/internal/shared/server/middleware"
	"transfit-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the plans service.
type Handler struct {
	Svc *Service
	// CreateLimit guards plan generation, typically a per-user rate limit.
	CreateLimit gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, createLimit gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, CreateLimit: createLimit}
}

type createPlanRequest struct {
	Profile     *profile.Profile `json:"profile"`
	BlockLength int              `json:"blockLength"`
	StartDate   string           `json:"startDate"`
}

type quickStartRequest struct {
	StartDate string `json:"startDate"`
}

// RegisterRoutes attaches plan routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	create := []gin.HandlerFunc{h.createPlan}
	quick := []gin.HandlerFunc{h.quickStart}
	if h.CreateLimit != nil {
		create = append([]gin.HandlerFunc{h.CreateLimit}, create...)
		quick = append([]gin.HandlerFunc{h.CreateLimit}, quick...)
	}
	rg.POST("/plans", create...)
	rg.POST("/plans/quick-start", quick...)
	rg.GET("/plans", h.listPlans)
	rg.GET("/plans/:id", h.getPlan)
}

// RegisterDevRoutes attaches operator routes that only exist in dev.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/safety-config/reload", h.reloadConfig)
}

func (h *Handler) createPlan(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}
	if req.Profile == nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "profile is required", []map[string]string{
			{"field": "profile", "issue": "required"},
		})
		return
	}
	start, ok := parseStartDate(c, req.StartDate)
	if !ok {
		return
	}

	userID := middleware.UserIDFromContext(c)
	plan, err := h.Svc.Create(c.Request.Context(), userID, GenerateInput{
		Profile:     *req.Profile,
		BlockLength: req.BlockLength,
		StartDate:   start,
	})
	if err != nil {
		writeGenerateError(c, err)
		return
	}
	c.Set("planId", plan.ID)
	respond.Created(c, planLocation(c, plan.ID), plan)
}

func (h *Handler) quickStart(c *gin.Context) {
	var req quickStartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid request body", []map[string]string{
				{"field": "body", "issue": err.Error()},
			})
			return
		}
	}
	start, ok := parseStartDate(c, req.StartDate)
	if !ok {
		return
	}

	plan, err := h.Svc.QuickStart(c.Request.Context(), middleware.UserIDFromContext(c), start)
	if err != nil {
		writeGenerateError(c, err)
		return
	}
	c.Set("planId", plan.ID)
	respond.Created(c, planLocation(c, plan.ID), plan)
}

func (h *Handler) getPlan(c *gin.Context) {
	planID := c.Param("id")
	if planID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "plan id is required", nil)
		return
	}

	plan, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), planID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "plan not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to fetch plan", nil)
		}
		return
	}
	c.Set("planId", plan.ID)
	respond.OK(c, plan)
}

func (h *Handler) listPlans(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to list plans", nil)
		return
	}
	respond.OK(c, summaries)
}

func (h *Handler) reloadConfig(c *gin.Context) {
	version, err := h.Svc.ReloadConfig(c.Request.Context())
	if err != nil {
		writeGenerateError(c, err)
		return
	}
	respond.OK(c, gin.H{"ok": true, "version": version})
}

// planLocation builds the GET URL for a plan relative to the group the
// create route was mounted on.
func planLocation(c *gin.Context, planID string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(c.FullPath(), "/quick-start"), "/plans")
	return base + "/plans/" + planID
}

func parseStartDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	d, err := profile.ParseDate(raw)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid startDate", []map[string]string{
			{"field": "startDate", "issue": err.Error()},
		})
		return time.Time{}, false
	}
	return d.Time, true
}

func writeGenerateError(c *gin.Context, err error) {
	var invalid *profile.InvalidProfileError
	var insufficient *selector.InsufficientExerciseError
	var loadErr *safetyconfig.LoadError
	switch {
	case errors.As(err, &invalid):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "profile is invalid", invalid.Details())
	case errors.As(err, &loadErr):
		respond.Error(c, http.StatusServiceUnavailable, ErrorCodeConfigUnavailable, "safety rules are unavailable, try again later", nil)
	case errors.As(err, &insufficient):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeInsufficientExercises, "no safe workout could be built for this profile", []map[string]string{
			{"field": "equipment", "issue": insufficient.Error()},
		})
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "failed to generate plan", nil)
	}
}
