// Package evaluation persists sizing submissions and serves the history and
// dashboard reads built on the score aggregator.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sizing-eval/internal/core/metrics"
	"sizing-eval/internal/domain"
	"sizing-eval/internal/feature/score"
	"sizing-eval/internal/scoring"
	"sizing-eval/pkg/utils"
)

const MaxTrendDays = 365

// UserCounter is the slice of the user store the overview needs.
type UserCounter interface {
	Count(ctx context.Context, q string) (int64, error)
}

// SubmitInput carries the sizing inputs and, for the passthrough scorer,
// the payloads the client already obtained from the engine.
type SubmitInput struct {
	scoring.Input
	ResourceFeasibility  json.RawMessage `json:"resourceFeasibility"`
	TechnicalFeasibility json.RawMessage `json:"technicalFeasibility"`
	BusinessValue        json.RawMessage `json:"businessValue"`
}

func (in SubmitInput) supplied() *scoring.Result {
	if isNull(in.TechnicalFeasibility) {
		return nil
	}
	r := &scoring.Result{Technical: string(in.TechnicalFeasibility)}
	if !isNull(in.ResourceFeasibility) {
		r.Resource = string(in.ResourceFeasibility)
	}
	if !isNull(in.BusinessValue) {
		b := string(in.BusinessValue)
		r.Business = &b
	}
	return r
}

func isNull(m json.RawMessage) bool {
	s := strings.TrimSpace(string(m))
	return s == "" || s == "null"
}

// ListQuery filters history and admin lists. Archived is "false" (default),
// "true" or "all".
type ListQuery struct {
	Page     int    `form:"page"`
	Size     int    `form:"size"`
	Archived string `form:"archived"`
	Model    string `form:"model"`
	Hardware string `form:"hardware"`
	OwnerID  string `form:"ownerId"`
}

func (q ListQuery) archived() (*bool, error) {
	var v bool
	switch strings.ToLower(strings.TrimSpace(q.Archived)) {
	case "", "false":
		v = false
	case "true":
		v = true
	case "all":
		return nil, nil
	default:
		return nil, domain.Validation(domain.CodeInvalidInput, "archived must be true, false or all")
	}
	return &v, nil
}

type Overview struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalEvaluations int64 `json:"totalEvaluations"`
	TodayEvaluations int64 `json:"todayEvaluations"`
	// AverageScore is the mean positive overall score over the trend window.
	AverageScore int `json:"averageScore"`
	WindowDays   int `json:"windowDays"`
}

type Service struct {
	store  domain.EvaluationStore
	users  UserCounter
	scorer scoring.Scorer
	log    *zap.Logger
	now    func() time.Time
}

func NewService(store domain.EvaluationStore, users UserCounter, scorer scoring.Scorer, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{store: store, users: users, scorer: scorer, log: l, now: time.Now}
}

func validate(in *SubmitInput) error {
	in.Model = strings.TrimSpace(in.Model)
	in.Hardware = strings.TrimSpace(in.Hardware)
	in.BusinessScenario = strings.TrimSpace(in.BusinessScenario)
	if in.Model == "" || in.Hardware == "" || in.BusinessScenario == "" {
		return domain.Validation(domain.CodeMissingFields, "model, hardware and businessScenario are required")
	}
	if in.CardCount <= 0 {
		return domain.Validation(domain.CodeInvalidInput, "cardCount must be positive")
	}
	if in.PerformanceQPS < 0 || in.PerformanceConcurrency < 0 {
		return domain.Validation(domain.CodeInvalidInput, "performance figures must not be negative")
	}
	return nil
}

// Submit scores and stores one evaluation. The stored technical payload is
// always a JSON object with a numeric score.
func (s *Service) Submit(ctx context.Context, owner string, in SubmitInput) (*Detail, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	res, err := s.scorer.Score(ctx, in.Input, in.supplied())
	switch {
	case errors.Is(err, scoring.ErrInvalidSupplied):
		return nil, domain.Validation(domain.CodeInvalidInput, "technicalFeasibility must be a JSON object with a numeric score")
	case err != nil:
		s.log.Warn("scoring failed", zap.String("model", in.Model), zap.Error(err))
		return nil, domain.Unavailable(domain.CodeScoringUnavailable, "scoring engine unavailable", err)
	}

	e := &domain.Evaluation{
		ID:                     utils.NewID(),
		OwnerID:                owner,
		Model:                  in.Model,
		Hardware:               in.Hardware,
		CardCount:              in.CardCount,
		BusinessScenario:       in.BusinessScenario,
		PerformanceQPS:         in.PerformanceQPS,
		PerformanceConcurrency: in.PerformanceConcurrency,
		BusinessDataTypes:      in.BusinessDataTypes,
		BusinessDataQuality:    in.BusinessDataQuality,
		BusinessDataVolume:     in.BusinessDataVolume,
		ResourceFeasibility:    res.Resource,
		TechnicalFeasibility:   res.Technical,
		BusinessValue:          res.Business,
		CreatedAt:              s.now().UTC(),
	}
	if err := s.store.Create(ctx, e); err != nil {
		return nil, domain.Internal("save evaluation failed", err)
	}
	metrics.EvaluationsCreated.Inc()
	d := DetailOf(e)
	return &d, nil
}

// page reads count and rows concurrently; the two may disagree under
// concurrent writes.
func (s *Service) page(ctx context.Context, f domain.EvaluationFilter, page, size int) (*domain.Page[Summary], error) {
	page, size, offset := domain.NormalizePage(page, size)
	var (
		total int64
		rows  []domain.Evaluation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		total, err = s.store.Count(gctx, f)
		return err
	})
	g.Go(func() (err error) {
		rows, err = s.store.FindMany(gctx, f, offset, size, domain.OrderBy{Field: domain.FieldCreatedAt, Desc: true})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Internal("list evaluations failed", err)
	}
	return &domain.Page[Summary]{Items: summaries(rows), Total: total, Page: page, Size: size}, nil
}

// History lists the owner's evaluations newest first.
func (s *Service) History(ctx context.Context, owner string, q ListQuery) (*domain.Page[Summary], error) {
	archived, err := q.archived()
	if err != nil {
		return nil, err
	}
	return s.page(ctx, domain.EvaluationFilter{OwnerID: owner, Archived: archived}, q.Page, q.Size)
}

// owned loads id and hides other owners' rows behind NotFound.
func (s *Service) owned(ctx context.Context, owner, id string) (*domain.Evaluation, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load evaluation failed", err)
	}
	if e == nil || e.OwnerID != owner {
		return nil, domain.NotFound("evaluation not found")
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, owner, id string) (*Detail, error) {
	e, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	d := DetailOf(e)
	return &d, nil
}

// Archive toggles the archived flag. Concurrent toggles are last write wins.
func (s *Service) Archive(ctx context.Context, owner, id string, archived bool) (*Summary, error) {
	e, err := s.owned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	var at *time.Time
	if archived {
		now := s.now().UTC()
		at = &now
	}
	ok, err := s.store.Update(ctx, id, map[string]any{"archived": archived, "archived_at": at})
	if err != nil {
		return nil, domain.Internal("archive evaluation failed", err)
	}
	if !ok {
		return nil, domain.NotFound("evaluation not found")
	}
	e.Archived, e.ArchivedAt = archived, at
	sum := SummaryOf(e)
	return &sum, nil
}

// List is the admin view across all owners.
func (s *Service) List(ctx context.Context, q ListQuery) (*domain.Page[Summary], error) {
	archived, err := q.archived()
	if err != nil {
		return nil, err
	}
	f := domain.EvaluationFilter{
		OwnerID:  strings.TrimSpace(q.OwnerID),
		Archived: archived,
		Model:    strings.TrimSpace(q.Model),
		Hardware: strings.TrimSpace(q.Hardware),
	}
	return s.page(ctx, f, q.Page, q.Size)
}

func (s *Service) samples(ctx context.Context, since time.Time) ([]score.Sample, error) {
	rows, err := s.store.FindMany(ctx, domain.EvaluationFilter{Since: &since}, 0, 0,
		domain.OrderBy{Field: domain.FieldCreatedAt})
	if err != nil {
		return nil, err
	}
	out := make([]score.Sample, 0, len(rows))
	for i := range rows {
		out = append(out, score.Sample{At: rows[i].CreatedAt, Score: score.ForEvaluation(&rows[i]).Overall})
	}
	return out, nil
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	now := s.now().UTC()
	today := score.WindowStart(now, 1)
	since := score.WindowStart(now, score.DefaultTrendDays)
	out := &Overview{WindowDays: score.DefaultTrendDays}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalUsers, err = s.users.Count(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		out.TotalEvaluations, err = s.store.Count(gctx, domain.EvaluationFilter{})
		return err
	})
	g.Go(func() (err error) {
		out.TodayEvaluations, err = s.store.Count(gctx, domain.EvaluationFilter{Since: &today})
		return err
	})
	g.Go(func() error {
		samples, err := s.samples(gctx, since)
		if err != nil {
			return err
		}
		scores := make([]int, len(samples))
		for i, sm := range samples {
			scores[i] = sm.Score
		}
		out.AverageScore = score.Average(scores)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Internal("load overview failed", err)
	}
	return out, nil
}

// Trend returns one zero-filled bucket per UTC day, oldest first. days <= 0
// means the default window; anything above MaxTrendDays is capped.
func (s *Service) Trend(ctx context.Context, days int) ([]score.Bucket, error) {
	if days <= 0 {
		days = score.DefaultTrendDays
	}
	if days > MaxTrendDays {
		days = MaxTrendDays
	}
	now := s.now().UTC()
	samples, err := s.samples(ctx, score.WindowStart(now, days))
	if err != nil {
		return nil, domain.Internal("load trend failed", err)
	}
	return score.DailyTrend(now, days, samples), nil
}

func (s *Service) top(ctx context.Context, field domain.EvaluationField) ([]domain.GroupCount, error) {
	groups, err := s.store.GroupBy(ctx, field, domain.EvaluationFilter{})
	if err != nil {
		return nil, domain.Internal("group evaluations failed", err)
	}
	return score.Top(groups, score.TopK), nil
}

func (s *Service) TopModels(ctx context.Context) ([]domain.GroupCount, error) {
	return s.top(ctx, domain.FieldModel)
}

func (s *Service) TopHardware(ctx context.Context) ([]domain.GroupCount, error) {
	return s.top(ctx, domain.FieldHardware)
}
