package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sizing-eval/internal/domain"
)

// Resp is the envelope every endpoint answers with. Code repeats the HTTP
// status; Error is the stable machine code on failures.
type Resp struct {
	Code  int    `json:"code"`
	Error string `json:"error,omitempty"`
	Msg   string `json:"msg"`
	Data  any    `json:"data"`
}

// New keeps data from encoding as null.
func New(status int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: status, Msg: msg, Data: data}
}

func OK(data any) Resp { return New(http.StatusOK, "OK", data) }

func Fail(status int, code, msg string) Resp {
	if msg == "" {
		msg = http.StatusText(status)
	}
	r := New(status, msg, nil)
	r.Error = code
	return r
}

// FromError maps a service error onto status and envelope. Internal errors
// get a generic message so nothing about the cause leaks.
func FromError(err error) (int, Resp) {
	kind := domain.KindOf(err)
	status := kind.HTTPStatus()
	if kind == domain.KindInternal {
		return status, Fail(status, domain.CodeInternal, "internal error")
	}
	return status, Fail(status, domain.CodeOf(err), err.Error())
}

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, New(status, http.StatusText(status), data))
}

func Abort(c *gin.Context, err error) {
	status, body := FromError(err)
	c.AbortWithStatusJSON(status, body)
}

func AbortWith(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Fail(status, code, msg))
}
