package response

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"sizing-eval/internal/domain"
)

func TestFromError(t *testing.T) {
	status, body := FromError(domain.Forbidden(domain.CodeForbidden, "insufficient privilege"))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, http.StatusForbidden, body.Code)
	assert.Equal(t, domain.CodeForbidden, body.Error)
	assert.Equal(t, "insufficient privilege", body.Msg)

	status, body = FromError(domain.Internal("db exploded at 10.0.0.3", errors.New("dial tcp")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, domain.CodeInternal, body.Error)
	assert.Equal(t, "internal error", body.Msg)

	status, body = FromError(errors.New("raw"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal error", body.Msg)
}

func TestNew_NeverNullData(t *testing.T) {
	assert.Equal(t, struct{}{}, OK(nil).Data)
	assert.Equal(t, "Not Found", Fail(http.StatusNotFound, CodeRouteNotFound, "").Msg)
}
