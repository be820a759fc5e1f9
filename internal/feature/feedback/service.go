// Package feedback validates and records the two feedback shapes. Both
// require a caller: the routes accept anonymous requests, but submission
// rejects them with AUTH_REQUIRED before looking at the body.
package feedback

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sizing-eval/internal/core/metrics"
	"sizing-eval/internal/domain"
	"sizing-eval/pkg/utils"
)

var categories = map[string]struct{}{
	"bug": {}, "feature": {}, "improvement": {}, "other": {},
}

var modules = map[string]struct{}{
	"resource": {}, "technical": {}, "business": {},
}

var ratings = map[string]string{
	"like":    "positive",
	"dislike": "negative",
}

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

type GeneralInput struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email"`
}

type ModuleInput struct {
	EvaluationID string `json:"evaluationId"`
	ModuleType   string `json:"moduleType"`
	FeedbackType string `json:"feedbackType"`
}

// Receipt is what a submitter gets back.
type Receipt struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// EvaluationFinder is the slice of the evaluation store module feedback needs.
type EvaluationFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Evaluation, error)
}

type Service struct {
	repo        domain.FeedbackRepository
	evaluations EvaluationFinder
	now         func() time.Time
}

func NewService(repo domain.FeedbackRepository, evaluations EvaluationFinder) *Service {
	return &Service{repo: repo, evaluations: evaluations, now: time.Now}
}

// MsgAuthRequired is returned to anonymous submitters.
const MsgAuthRequired = "login required to submit feedback"

func authRequired() error {
	return domain.Unauthenticated(domain.CodeAuthRequired, MsgAuthRequired)
}

func (s *Service) SubmitGeneral(ctx context.Context, owner string, in GeneralInput) (*Receipt, error) {
	if owner == "" {
		return nil, authRequired()
	}
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	title := strings.TrimSpace(in.Title)
	desc := strings.TrimSpace(in.Description)
	if kind == "" || title == "" || desc == "" {
		return nil, domain.Validation(domain.CodeMissingFields, "type, title and description are required")
	}
	if _, ok := categories[kind]; !ok {
		return nil, domain.Validation(domain.CodeInvalidType, "type must be one of bug, feature, improvement, other")
	}
	if len([]rune(title)) > maxTitleLen || len([]rune(desc)) > maxDescriptionLen {
		return nil, domain.Validation(domain.CodeInvalidInput, "title or description too long")
	}
	f := &domain.Feedback{
		Type:        domain.FeedbackKindGeneral,
		Category:    &kind,
		Title:       &title,
		Description: &desc,
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.Validation(domain.CodeInvalidInput, "invalid contact email")
		}
		f.ContactEmail = &email
	}
	return s.save(ctx, owner, f)
}

// SubmitModule records a like or dislike on one module of an existing
// evaluation, stored as a positive or negative rating.
func (s *Service) SubmitModule(ctx context.Context, owner string, in ModuleInput) (*Receipt, error) {
	if owner == "" {
		return nil, authRequired()
	}
	evalID := strings.TrimSpace(in.EvaluationID)
	module := strings.ToLower(strings.TrimSpace(in.ModuleType))
	vote := strings.ToLower(strings.TrimSpace(in.FeedbackType))
	if evalID == "" || module == "" || vote == "" {
		return nil, domain.Validation(domain.CodeMissingFields, "evaluationId, moduleType and feedbackType are required")
	}
	if _, ok := modules[module]; !ok {
		return nil, domain.Validation(domain.CodeInvalidType, "moduleType must be one of resource, technical, business")
	}
	rating, ok := ratings[vote]
	if !ok {
		return nil, domain.Validation(domain.CodeInvalidType, "feedbackType must be like or dislike")
	}

	e, err := s.evaluations.FindByID(ctx, evalID)
	if err != nil {
		return nil, domain.Internal("load evaluation failed", err)
	}
	if e == nil {
		return nil, domain.NotFound("evaluation not found")
	}
	return s.save(ctx, owner, &domain.Feedback{
		Type:         domain.FeedbackKindModule,
		EvaluationID: &evalID,
		ModuleName:   &module,
		Rating:       &rating,
	})
}

func (s *Service) save(ctx context.Context, owner string, f *domain.Feedback) (*Receipt, error) {
	f.ID = utils.NewID()
	f.OwnerID = owner
	f.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, domain.Internal("save feedback failed", err)
	}
	metrics.FeedbackSubmitted.WithLabelValues(f.Type).Inc()
	return &Receipt{ID: f.ID, Type: f.Type, CreatedAt: f.CreatedAt}, nil
}

type ListQuery struct {
	Type string `form:"type"`
	Page int    `form:"page"`
	Size int    `form:"size"`
}

// List is the admin review queue, newest first. An empty type lists both.
func (s *Service) List(ctx context.Context, q ListQuery) (*domain.Page[domain.Feedback], error) {
	kind := strings.ToLower(strings.TrimSpace(q.Type))
	if kind != "" && kind != domain.FeedbackKindGeneral && kind != domain.FeedbackKindModule {
		return nil, domain.Validation(domain.CodeInvalidType, "type must be general or module")
	}
	page, size, offset := domain.NormalizePage(q.Page, q.Size)

	var (
		total int64
		rows  []domain.Feedback
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.repo.Count(gctx, kind)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.repo.List(gctx, kind, offset, size)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Internal("list feedback failed", err)
	}
	if rows == nil {
		rows = []domain.Feedback{}
	}
	return &domain.Page[domain.Feedback]{Items: rows, Total: total, Page: page, Size: size}, nil
}
