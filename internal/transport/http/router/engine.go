package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/core/config"
	"sizing-eval/internal/core/server"
	"sizing-eval/internal/transport/http/ez"
	mdw "sizing-eval/internal/transport/http/middleware"
	resp "sizing-eval/internal/transport/http/response"
)

type Options struct {
	Logger      *zap.Logger
	Gate        *auth.Gate
	Limits      config.Limits
	CORSOrigins []string
	Modules     *Registry
}

func base(o Options) *gin.Engine {
	r := server.NewRouter(o.CORSOrigins, mdw.Recovery(o.Logger))
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.AccessLog(o.Logger),
		mdw.RateLimit(rate.Limit(o.Limits.RPS), o.Limits.Burst),
		mdw.RateLimitPerIP(rate.Limit(o.Limits.PerIPRPS), o.Limits.PerIPBurst),
		mdw.ConcurrencyLimit(o.Limits.Concurrency),
		mdw.MaxBodyBytes(o.Limits.MaxBodyBytes),
		mdw.Timeout(time.Duration(o.Limits.TimeoutSec)*time.Second),
	)
	r.NoRoute(func(c *gin.Context) {
		resp.AbortWith(c, http.StatusNotFound, resp.CodeRouteNotFound, "route not found")
	})
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1})) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine serves /api/v1. Each module picks its own auth mode.
func NewAPIEngine(o Options) *gin.Engine {
	r := base(o)
	o.Modules.MountAPI(ez.New(r.Group("/api/v1"), o.Logger))
	return r
}

// NewAdminEngine serves /admin/v1, admin tier for every route.
func NewAdminEngine(o Options) *gin.Engine {
	r := base(o)
	admin := r.Group("/admin/v1", mdw.RequireTier(o.Gate, auth.TierAdmin))
	o.Modules.MountAdmin(ez.New(admin, o.Logger))
	return r
}
