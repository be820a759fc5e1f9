package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sizing-eval/internal/core/metrics"
	"sizing-eval/internal/domain"
)

type stubUsers map[string]*domain.User

func (s stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	return s[id], nil
}

func newTestGate() (*Gate, *JWTer) {
	j := NewJWTer("gate-secret", "sizing-eval", time.Hour)
	users := stubUsers{
		"u-user":  {ID: "u-user", Role: domain.RoleUser},
		"u-admin": {ID: "u-admin", Role: domain.RoleAdmin},
		"u-super": {ID: "u-super", Role: domain.RoleSuperAdmin},
	}
	return NewGate(j, users), j
}

func bearer(t *testing.T, j *JWTer, uid string) string {
	t.Helper()
	tok, err := j.Issue(uid, uid+"@example.com")
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestGate_Authenticate(t *testing.T) {
	g, j := newTestGate()

	_, err := g.Authenticate("")
	assert.Equal(t, domain.CodeMissingToken, domain.CodeOf(err))
	assert.Equal(t, http.StatusUnauthorized, domain.KindOf(err).HTTPStatus())

	_, err = g.Authenticate("Bearer garbage")
	assert.Equal(t, domain.CodeInvalidToken, domain.CodeOf(err))
	assert.Equal(t, http.StatusUnauthorized, domain.KindOf(err).HTTPStatus())

	p, err := g.Authenticate(bearer(t, j, "u-user"))
	require.NoError(t, err)
	assert.Equal(t, "u-user", p.UserID)
	assert.Equal(t, "u-user@example.com", p.Email)
}

func TestGate_IdentifyToleratesStaleTokens(t *testing.T) {
	g, j := newTestGate()
	assert.Nil(t, g.Identify(""))
	assert.Nil(t, g.Identify("Bearer stale"))
	assert.NotNil(t, g.Identify(bearer(t, j, "u-user")))
}

func TestGate_IdentifyCountsNoDenials(t *testing.T) {
	g, _ := newTestGate()
	missing := metrics.GateDenials.WithLabelValues(domain.CodeMissingToken)
	invalid := metrics.GateDenials.WithLabelValues(domain.CodeInvalidToken)
	beforeMissing, beforeInvalid := testutil.ToFloat64(missing), testutil.ToFloat64(invalid)

	for i := 0; i < 5; i++ {
		g.Identify("")
		g.Identify("Bearer stale")
	}
	assert.Equal(t, beforeMissing, testutil.ToFloat64(missing))
	assert.Equal(t, beforeInvalid, testutil.ToFloat64(invalid))

	_, err := g.Authenticate("")
	require.Error(t, err)
	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(missing))
}

func TestGate_Authorize(t *testing.T) {
	g, _ := newTestGate()
	ctx := context.Background()

	cases := []struct {
		name   string
		uid    string
		tier   Tier
		status int
		code   string
	}{
		{"user on admin endpoint", "u-user", TierAdmin, http.StatusForbidden, domain.CodeForbidden},
		{"admin on admin endpoint", "u-admin", TierAdmin, http.StatusOK, ""},
		{"super on admin endpoint", "u-super", TierAdmin, http.StatusOK, ""},
		{"admin on super endpoint", "u-admin", TierSuperAdmin, http.StatusForbidden, domain.CodeForbidden},
		{"super on super endpoint", "u-super", TierSuperAdmin, http.StatusOK, ""},
		{"unknown user", "u-ghost", TierAdmin, http.StatusUnauthorized, domain.CodeUnauthorized},
		{"store failure", "broken", TierAdmin, http.StatusInternalServerError, domain.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := g.Authorize(ctx, &Principal{UserID: tc.uid}, tc.tier)
			if tc.code == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, p.Role)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.code, domain.CodeOf(err))
			assert.Equal(t, tc.status, domain.KindOf(err).HTTPStatus())
		})
	}
}

func TestGate_AuthorizeRereadsRole(t *testing.T) {
	j := NewJWTer("gate-secret", "", time.Hour)
	users := stubUsers{"u-1": {ID: "u-1", Role: domain.RoleAdmin}}
	g := NewGate(j, users)
	ctx := context.Background()

	_, err := g.Authorize(ctx, &Principal{UserID: "u-1"}, TierAdmin)
	require.NoError(t, err)

	users["u-1"].Role = domain.RoleUser
	_, err = g.Authorize(ctx, &Principal{UserID: "u-1"}, TierAdmin)
	assert.Equal(t, domain.CodeForbidden, domain.CodeOf(err))
}
