package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/user"
	"sizing-eval/internal/transport/http/ez"
	mdw "sizing-eval/internal/transport/http/middleware"
)

type UserHandler struct {
	svc  *user.Service
	gate *auth.Gate
}

func NewUserHandler(svc *user.Service, gate *auth.Gate) *UserHandler {
	return &UserHandler{svc: svc, gate: gate}
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[user.RegisterInput, *user.Session]{
		Method: http.MethodPost, Path: "/auth/register", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *user.RegisterInput) (*user.Session, error) {
			return h.svc.Register(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[user.LoginInput, *user.Session]{
		Method: http.MethodPost, Path: "/auth/login", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *user.LoginInput) (*user.Session, error) {
			return h.svc.Login(c.Request.Context(), *in)
		},
	})
	// Bootstrap path guarded by the shared secret, not by a token.
	ez.RegisterAction(e, ez.Action[user.EscalateInput, *user.Profile]{
		Method: http.MethodPost, Path: "/auth/escalate", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *user.EscalateInput) (*user.Profile, error) {
			return h.svc.Escalate(c.Request.Context(), *in)
		},
	})

	me := e.Group("", mdw.RequireAuth(h.gate))
	ez.RegisterAction(me, ez.Action[struct{}, *user.Profile]{
		Method: http.MethodGet, Path: "/me", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*user.Profile, error) {
			return h.svc.Me(c.Request.Context(), mdw.UserID(c))
		},
	})
	ez.RegisterAction(me, ez.Action[user.ProfilePatch, *user.Profile]{
		Method: http.MethodPatch, Path: "/me", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *user.ProfilePatch) (*user.Profile, error) {
			return h.svc.UpdateProfile(c.Request.Context(), mdw.UserID(c), *in)
		},
	})
}

type userListQuery struct {
	Q    string `form:"q"`
	Page int    `form:"page"`
	Size int    `form:"size"`
}

func (h *UserHandler) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[userListQuery, *domain.Page[user.Profile]]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *userListQuery) (*domain.Page[user.Profile], error) {
			return h.svc.List(c.Request.Context(), in.Q, in.Page, in.Size)
		},
	})
	ez.RegisterAction(e, ez.Action[user.UserPatch, *user.Profile]{
		Method: http.MethodPatch, Path: "/users/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *user.UserPatch) (*user.Profile, error) {
			var role string
			if p := mdw.PrincipalFrom(c); p != nil {
				role = p.Role
			}
			return h.svc.AdminUpdate(c.Request.Context(), role, c.Param("id"), *in)
		},
	})
}
