package auth

import (
	"context"

	"sizing-eval/internal/core/metrics"
	"sizing-eval/internal/domain"
)

// Tier is the minimum role an endpoint requires.
type Tier int

const (
	TierUser Tier = iota
	TierAdmin
	TierSuperAdmin
)

// Principal is the caller identity resolved from a request.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate resolves bearer tokens into principals and checks role tiers.
// Roles are looked up on every call and never cached.
type Gate struct {
	Tokens *JWTer
	Users  UserFinder
}

func NewGate(tokens *JWTer, users UserFinder) *Gate {
	return &Gate{Tokens: tokens, Users: users}
}

// Authenticate is the mandatory-auth path.
func (g *Gate) Authenticate(header string) (*Principal, error) {
	tok, ok := ExtractBearer(header)
	if !ok {
		return nil, deny(domain.Unauthenticated(domain.CodeMissingToken, "missing token"))
	}
	claims, err := g.Tokens.Verify(tok)
	if err != nil {
		return nil, deny(domain.Unauthenticated(domain.CodeInvalidToken, "invalid token"))
	}
	return &Principal{UserID: claims.UID, Email: claims.Email}, nil
}

// Identify is the optional-auth path: absent or stale tokens resolve to nil.
// Nothing is denied here, so nothing is counted.
func (g *Gate) Identify(header string) *Principal {
	tok, ok := ExtractBearer(header)
	if !ok {
		return nil
	}
	claims, err := g.Tokens.Verify(tok)
	if err != nil {
		return nil
	}
	return &Principal{UserID: claims.UID, Email: claims.Email}
}

// Authorize resolves the principal's stored role and checks it against tier.
// A missing user is 401; a known user below the tier is 403.
func (g *Gate) Authorize(ctx context.Context, p *Principal, tier Tier) (*Principal, error) {
	if p == nil {
		return nil, deny(domain.Unauthenticated(domain.CodeMissingToken, "missing token"))
	}
	u, err := g.Users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, domain.Internal("resolve user failed", err)
	}
	if u == nil {
		return nil, deny(domain.Unauthenticated(domain.CodeUnauthorized, "user not found"))
	}
	out := *p
	out.Role = u.Role
	switch tier {
	case TierAdmin:
		if !domain.IsAdminRole(u.Role) {
			return nil, deny(domain.Forbidden(domain.CodeForbidden, "insufficient privilege"))
		}
	case TierSuperAdmin:
		if u.Role != domain.RoleSuperAdmin {
			return nil, deny(domain.Forbidden(domain.CodeForbidden, "insufficient privilege"))
		}
	}
	return &out, nil
}

func deny(err error) error {
	metrics.GateDenials.WithLabelValues(domain.CodeOf(err)).Inc()
	return err
}
