package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/site"
	"sizing-eval/internal/transport/http/ez"
)

type SiteHandler struct {
	svc *site.Service
}

func NewSiteHandler(svc *site.Service) *SiteHandler { return &SiteHandler{svc: svc} }

func (h *SiteHandler) Priority() int { return 200 }

func (h *SiteHandler) MountAPI(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *site.Status]{
		Method: http.MethodGet, Path: "/status", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*site.Status, error) {
			return h.svc.Status(c.Request.Context())
		},
	})
}

func (h *SiteHandler) MountAdmin(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *domain.SiteConfig]{
		Method: http.MethodGet, Path: "/site-config", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.SiteConfig, error) {
			return h.svc.GetConfig(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[site.ConfigPatch, *domain.SiteConfig]{
		Method: http.MethodPut, Path: "/site-config", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *site.ConfigPatch) (*domain.SiteConfig, error) {
			return h.svc.UpsertConfig(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Announcement]{
		Method: http.MethodGet, Path: "/announcements", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Announcement, error) {
			return h.svc.ListAnnouncements(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[site.AnnouncementInput, *domain.Announcement]{
		Method: http.MethodPost, Path: "/announcements", Binder: ez.BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *site.AnnouncementInput) (*domain.Announcement, error) {
			return h.svc.CreateAnnouncement(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[site.AnnouncementPatch, *domain.Announcement]{
		Method: http.MethodPatch, Path: "/announcements/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *site.AnnouncementPatch) (*domain.Announcement, error) {
			return h.svc.UpdateAnnouncement(c.Request.Context(), c.Param("id"), *in)
		},
	})
}
