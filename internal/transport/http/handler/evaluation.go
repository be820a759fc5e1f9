package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/evaluation"
	"sizing-eval/internal/feature/score"
	"sizing-eval/internal/transport/http/ez"
	mdw "sizing-eval/internal/transport/http/middleware"
)

type EvaluationHandler struct {
	svc  *evaluation.Service
	gate *auth.Gate
}

func NewEvaluationHandler(svc *evaluation.Service, gate *auth.Gate) *EvaluationHandler {
	return &EvaluationHandler{svc: svc, gate: gate}
}

type archiveIn struct {
	// Archived defaults to true when the body is empty.
	Archived *bool `json:"archived"`
}

func (h *EvaluationHandler) MountAPI(e ez.EZ) {
	g := e.Group("/evaluations", mdw.RequireAuth(h.gate))

	ez.RegisterAction(g, ez.Action[evaluation.SubmitInput, *evaluation.Detail]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *evaluation.SubmitInput) (*evaluation.Detail, error) {
			return h.svc.Submit(c.Request.Context(), mdw.UserID(c), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[evaluation.ListQuery, *domain.Page[evaluation.Summary]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *evaluation.ListQuery) (*domain.Page[evaluation.Summary], error) {
			return h.svc.History(c.Request.Context(), mdw.UserID(c), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[struct{}, *evaluation.Detail]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*evaluation.Detail, error) {
			return h.svc.Get(c.Request.Context(), mdw.UserID(c), c.Param("id"))
		},
	})
	ez.RegisterAction(g, ez.Action[archiveIn, *evaluation.Summary]{
		Method: http.MethodPost, Path: "/:id/archive", Binder: ez.BindOptionalJSON,
		Handler: func(c *gin.Context, in *archiveIn) (*evaluation.Summary, error) {
			archived := in.Archived == nil || *in.Archived
			return h.svc.Archive(c.Request.Context(), mdw.UserID(c), c.Param("id"), archived)
		},
	})
}

type trendQuery struct {
	Days int `form:"days"`
}

func (h *EvaluationHandler) MountAdmin(e ez.EZ) {
	stats := e.Group("/stats")
	ez.RegisterAction(stats, ez.Action[struct{}, *evaluation.Overview]{
		Method: http.MethodGet, Path: "/overview", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*evaluation.Overview, error) {
			return h.svc.Overview(c.Request.Context())
		},
	})
	ez.RegisterAction(stats, ez.Action[trendQuery, []score.Bucket]{
		Method: http.MethodGet, Path: "/trend", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *trendQuery) ([]score.Bucket, error) {
			return h.svc.Trend(c.Request.Context(), in.Days)
		},
	})
	ez.RegisterAction(stats, ez.Action[struct{}, []domain.GroupCount]{
		Method: http.MethodGet, Path: "/top-models", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.GroupCount, error) {
			return h.svc.TopModels(c.Request.Context())
		},
	})
	ez.RegisterAction(stats, ez.Action[struct{}, []domain.GroupCount]{
		Method: http.MethodGet, Path: "/top-hardware", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.GroupCount, error) {
			return h.svc.TopHardware(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[evaluation.ListQuery, *domain.Page[evaluation.Summary]]{
		Method: http.MethodGet, Path: "/evaluations", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *evaluation.ListQuery) (*domain.Page[evaluation.Summary], error) {
			return h.svc.List(c.Request.Context(), *in)
		},
	})
}
