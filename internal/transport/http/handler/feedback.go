package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/feedback"
	"sizing-eval/internal/transport/http/ez"
	mdw "sizing-eval/internal/transport/http/middleware"
)

type FeedbackHandler struct {
	svc  *feedback.Service
	gate *auth.Gate
}

func NewFeedbackHandler(svc *feedback.Service, gate *auth.Gate) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, gate: gate}
}

// MountAPI uses optional auth, then rejects anonymous callers with
// AUTH_REQUIRED before binding. The service repeats the check.
func (h *FeedbackHandler) MountAPI(e ez.EZ) {
	g := e.Group("/feedback", mdw.OptionalAuth(h.gate), mdw.RequireCaller(feedback.MsgAuthRequired))
	ez.RegisterAction(g, ez.Action[feedback.GeneralInput, *feedback.Receipt]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *feedback.GeneralInput) (*feedback.Receipt, error) {
			return h.svc.SubmitGeneral(c.Request.Context(), mdw.UserID(c), *in)
		},
	})
	ez.RegisterAction(g, ez.Action[feedback.ModuleInput, *feedback.Receipt]{
		Method: http.MethodPost, Path: "/module", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *feedback.ModuleInput) (*feedback.Receipt, error) {
			return h.svc.SubmitModule(c.Request.Context(), mdw.UserID(c), *in)
		},
	})
}

func (h *FeedbackHandler) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[feedback.ListQuery, *domain.Page[domain.Feedback]]{
		Method: http.MethodGet, Path: "/feedback", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *feedback.ListQuery) (*domain.Page[domain.Feedback], error) {
			return h.svc.List(c.Request.Context(), *in)
		},
	})
}
