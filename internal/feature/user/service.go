// Package user covers registration, login, profiles, the admin user list
// and the secret-gated super-admin bootstrap.
package user

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sizing-eval/internal/domain"
	"sizing-eval/pkg/utils"
)

const (
	minPasswordLen = 6
	// bcrypt ignores input past 72 bytes.
	maxPasswordLen = 72
	maxNameLen     = 64
)

type TokenIssuer interface {
	Issue(uid, email string) (string, error)
}

type Hasher interface {
	Hash(pw string) (string, error)
	Verify(pw, hashed string) bool
}

type Profile struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func ProfileOf(u *domain.User) Profile {
	return Profile{ID: u.ID, Email: u.Email, Phone: u.Phone, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type RegisterInput struct {
	Email    string `json:"email"    binding:"omitempty,email"`
	Phone    string `json:"phone"    binding:"omitempty,max=32"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type EscalateInput struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Secret string `json:"secret"`
}

// ProfilePatch is the self-service update; nil fields are left alone.
type ProfilePatch struct {
	Name *string `json:"name"`
}

// UserPatch is the admin update; nil fields are left alone.
type UserPatch struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}

type Service struct {
	users            domain.UserRepository
	hasher           Hasher
	tokens           TokenIssuer
	escalationSecret string
	// decoy is verified against when a login names no known user so both
	// failure paths pay for one bcrypt comparison.
	decoy string
}

func NewService(users domain.UserRepository, hasher Hasher, tokens TokenIssuer, escalationSecret string) *Service {
	decoy, _ := hasher.Hash("decoy-password")
	return &Service{users: users, hasher: hasher, tokens: tokens, escalationSecret: escalationSecret, decoy: decoy}
}

type identifier struct {
	email string
	phone string
}

// identify enforces that exactly one of email and phone is given.
func identify(email, phone string) (identifier, error) {
	id := identifier{email: strings.ToLower(strings.TrimSpace(email)), phone: strings.TrimSpace(phone)}
	switch {
	case id.email == "" && id.phone == "":
		return id, domain.Validation(domain.CodeMissingFields, "email or phone is required")
	case id.email != "" && id.phone != "":
		return id, domain.Validation(domain.CodeInvalidInput, "give either email or phone, not both")
	}
	return id, nil
}

func (s *Service) lookup(ctx context.Context, id identifier) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	if id.email != "" {
		u, err = s.users.FindByEmail(ctx, id.email)
	} else {
		u, err = s.users.FindByPhone(ctx, id.phone)
	}
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	return u, nil
}

func (s *Service) session(u *domain.User) (*Session, error) {
	tok, err := s.tokens.Issue(u.ID, u.EmailOrEmpty())
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	return &Session{Token: tok, User: ProfileOf(u)}, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	id, err := identify(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.Validation(domain.CodeMissingFields, "password is required")
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return nil, domain.Validation(domain.CodeInvalidInput, "password must be 6 to 72 characters")
	}
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) > maxNameLen {
		return nil, domain.Validation(domain.CodeInvalidInput, "name too long")
	}
	if name == "" {
		name = defaultName(id)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	u := &domain.User{ID: utils.NewID(), Name: name, PasswordHash: hash, Role: domain.RoleUser}
	if id.email != "" {
		u.Email = &id.email
	} else {
		u.Phone = &id.phone
	}
	if err := s.users.Create(ctx, u); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			return nil, domain.Conflict("account already exists")
		}
		return nil, domain.Internal("create user failed", err)
	}
	return s.session(u)
}

func defaultName(id identifier) string {
	if at := strings.IndexByte(id.email, '@'); at > 0 {
		return id.email[:at]
	}
	if n := len(id.phone); n > 4 {
		return "user" + id.phone[n-4:]
	}
	return "user"
}

// Login answers INVALID_CREDENTIALS for both unknown accounts and wrong
// passwords.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	id, err := identify(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.Validation(domain.CodeMissingFields, "password is required")
	}
	u, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.hasher.Verify(in.Password, s.decoy)
		return nil, invalidCredentials()
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return nil, invalidCredentials()
	}
	return s.session(u)
}

func invalidCredentials() error {
	return domain.Unauthenticated(domain.CodeInvalidCredentials, "invalid credentials")
}

func (s *Service) find(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load user failed", err)
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return u, nil
}

func (s *Service) Me(ctx context.Context, id string) (*Profile, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	p := ProfileOf(u)
	return &p, nil
}

func cleanName(name *string) (string, error) {
	n := strings.TrimSpace(*name)
	if n == "" {
		return "", domain.Validation(domain.CodeInvalidInput, "name must not be empty")
	}
	if len([]rune(n)) > maxNameLen {
		return "", domain.Validation(domain.CodeInvalidInput, "name too long")
	}
	return n, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfilePatch) (*Profile, error) {
	changes := map[string]any{}
	if in.Name != nil {
		n, err := cleanName(in.Name)
		if err != nil {
			return nil, err
		}
		changes["name"] = n
	}
	return s.apply(ctx, id, changes)
}

func (s *Service) apply(ctx context.Context, id string, changes map[string]any) (*Profile, error) {
	if len(changes) > 0 {
		ok, err := s.users.Update(ctx, id, changes)
		if err != nil {
			return nil, domain.Internal("update user failed", err)
		}
		if !ok {
			return nil, domain.NotFound("user not found")
		}
	}
	return s.Me(ctx, id)
}

// Escalate promotes an account to super_admin when secret matches the
// configured one. The secret is checked before any lookup so a wrong secret
// reveals nothing about the account. An empty configured secret disables it.
func (s *Service) Escalate(ctx context.Context, in EscalateInput) (*Profile, error) {
	if s.escalationSecret == "" ||
		subtle.ConstantTimeCompare([]byte(in.Secret), []byte(s.escalationSecret)) != 1 {
		return nil, domain.Forbidden(domain.CodeInvalidSecret, "invalid secret")
	}
	id, err := identify(in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	u, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	return s.apply(ctx, u.ID, map[string]any{"role": domain.RoleSuperAdmin})
}

// List pages users matching q. Count and page are read concurrently.
func (s *Service) List(ctx context.Context, q string, page, size int) (*domain.Page[Profile], error) {
	page, size, offset := domain.NormalizePage(page, size)
	q = strings.TrimSpace(q)

	var (
		total int64
		users []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.users.Count(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.users.List(gctx, q, offset, size)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Internal("list users failed", err)
	}

	out := &domain.Page[Profile]{Items: make([]Profile, 0, len(users)), Total: total, Page: page, Size: size}
	for i := range users {
		out.Items = append(out.Items, ProfileOf(&users[i]))
	}
	return out, nil
}

// AdminUpdate edits another account. Role changes need actorRole to be
// super_admin.
func (s *Service) AdminUpdate(ctx context.Context, actorRole, id string, in UserPatch) (*Profile, error) {
	changes := map[string]any{}
	if in.Name != nil {
		n, err := cleanName(in.Name)
		if err != nil {
			return nil, err
		}
		changes["name"] = n
	}
	if in.Role != nil {
		if actorRole != domain.RoleSuperAdmin {
			return nil, domain.Forbidden(domain.CodeForbidden, "insufficient privilege")
		}
		if !domain.ValidRole(*in.Role) {
			return nil, domain.Validation(domain.CodeInvalidInput, "unknown role")
		}
		changes["role"] = *in.Role
	}
	return s.apply(ctx, id, changes)
}
