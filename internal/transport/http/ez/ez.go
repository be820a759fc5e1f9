// Package ez registers typed gin handlers: bind the input, call the
// service, map the error, write the envelope.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sizing-eval/internal/domain"
	mdw "sizing-eval/internal/transport/http/middleware"
	resp "sizing-eval/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group is a sub-group sharing the logger, with extra middleware.
func (e EZ) Group(path string, h ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, h...), log: e.log}
}

type Binder string

const (
	BindJSON Binder = "json"
	// BindOptionalJSON binds a body when one is sent and leaves the zero
	// input otherwise.
	BindOptionalJSON Binder = "json?"
	BindQuery        Binder = "query"
	BindNone         Binder = "none"
)

// Action is one endpoint: I is the bound input, O the response data.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	// Status on success, 200 when zero.
	Status  int
	Handler func(c *gin.Context, in *I) (O, error)
}

func bind[I any](c *gin.Context, b Binder, in *I) error {
	switch b {
	case BindJSON:
		return c.ShouldBindJSON(in)
	case BindOptionalJSON:
		if c.Request.ContentLength == 0 {
			return nil
		}
		return c.ShouldBindJSON(in)
	case BindQuery:
		return c.ShouldBindQuery(in)
	}
	return nil
}

func (e EZ) bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		resp.AbortWith(c, http.StatusRequestEntityTooLarge, resp.CodeBodyTooLarge, "request body too large")
		return
	}
	resp.AbortWith(c, http.StatusBadRequest, domain.CodeInvalidInput, "invalid request: "+err.Error())
}

// fail logs what the caller will not see and writes the mapped envelope.
func (e EZ) fail(c *gin.Context, err error) {
	fields := []zap.Field{
		zap.String("rid", c.GetString(mdw.KeyRequestID)),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	}
	switch domain.KindOf(err) {
	case domain.KindInternal:
		e.log.Error("request failed", fields...)
	case domain.KindUnavailable:
		e.log.Warn("dependency unavailable", fields...)
	}
	_ = c.Error(err)
	resp.Abort(c, err)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			e.bindFailed(c, err)
			return
		}
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		resp.Success(c, status, out)
	}
	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}
