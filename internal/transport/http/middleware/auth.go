package middleware

import (
	"github.com/gin-gonic/gin"

	"sizing-eval/internal/core/auth"
	"sizing-eval/internal/domain"
	resp "sizing-eval/internal/transport/http/response"
)

const (
	KeyPrincipal = "principal"
	KeyUserID    = "userId"
)

func setPrincipal(c *gin.Context, p *auth.Principal) {
	c.Set(KeyPrincipal, p)
	c.Set(KeyUserID, p.UserID)
}

// PrincipalFrom returns the caller, or nil on anonymous requests.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(KeyPrincipal); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}

// UserID is the caller's id, "" when anonymous.
func UserID(c *gin.Context) string { return c.GetString(KeyUserID) }

// RequireAuth fails closed: MISSING_TOKEN or INVALID_TOKEN with 401.
func RequireAuth(g *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := g.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			resp.Abort(c, err)
			return
		}
		setPrincipal(c, p)
		c.Next()
	}
}

// OptionalAuth attaches the caller when the token verifies and otherwise
// carries on anonymously, so stale client tokens do not break public pages.
func OptionalAuth(g *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p := g.Identify(c.GetHeader("Authorization")); p != nil {
			setPrincipal(c, p)
		}
		c.Next()
	}
}

// RequireCaller runs after OptionalAuth on routes that accept any token
// state at the transport level but need a caller for the business rule.
// It rejects anonymous requests before the body is read.
func RequireCaller(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			resp.Abort(c, domain.Unauthenticated(domain.CodeAuthRequired, msg))
			return
		}
		c.Next()
	}
}

// RequireTier authenticates if nothing upstream did, then re-reads the
// caller's role from the store: 401 for an unknown user, 403 below tier.
func RequireTier(g *auth.Gate, tier auth.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := PrincipalFrom(c)
		if p == nil {
			var err error
			if p, err = g.Authenticate(c.GetHeader("Authorization")); err != nil {
				resp.Abort(c, err)
				return
			}
		}
		p, err := g.Authorize(c.Request.Context(), p, tier)
		if err != nil {
			resp.Abort(c, err)
			return
		}
		setPrincipal(c, p)
		c.Next()
	}
}
