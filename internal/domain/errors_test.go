package domain

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_WrappedErrors(t *testing.T) {
	err := fmt.Errorf("login: %w", Unauthenticated(CodeInvalidToken, "invalid token"))
	assert.Equal(t, KindAuthentication, KindOf(err))
	assert.Equal(t, CodeInvalidToken, CodeOf(err))
	assert.Equal(t, http.StatusUnauthorized, KindOf(err).HTTPStatus())
}

func TestKindOf_Unclassified(t *testing.T) {
	err := fmt.Errorf("boom")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, KindOf(err).HTTPStatus())
}

func TestForbiddenIsNotUnauthorized(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, KindOf(Forbidden(CodeForbidden, "insufficient privilege")).HTTPStatus())
	assert.Equal(t, http.StatusUnauthorized, KindOf(Unauthenticated(CodeUnauthorized, "user not found")).HTTPStatus())
}

func TestRoles(t *testing.T) {
	assert.True(t, IsAdminRole(RoleAdmin))
	assert.True(t, IsAdminRole(RoleSuperAdmin))
	assert.False(t, IsAdminRole(RoleUser))
	assert.False(t, ValidRole("root"))
}
