// Package site serves the public status projection and the admin-managed
// maintenance flag and announcements.
package site

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sizing-eval/internal/core/cache"
	"sizing-eval/internal/domain"
	"sizing-eval/pkg/utils"
)

const (
	StatusKey = "site:status"
	// HistoryLimit caps the announcement history in the status view.
	HistoryLimit = 20
)

// Cache is optional; without one every status read hits the store.
type Cache interface {
	cache.Loader
	Invalidate(ctx context.Context, keys ...string) error
}

type Status struct {
	Maintenance        bool                  `json:"maintenance"`
	MaintenanceMessage string                `json:"maintenanceMessage"`
	Latest             *domain.Announcement  `json:"latestAnnouncement"`
	Announcements      []domain.Announcement `json:"announcementHistory"`
}

type ConfigPatch struct {
	Maintenance        *bool   `json:"maintenance"`
	MaintenanceMessage *string `json:"maintenanceMessage"`
}

type AnnouncementInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Active  *bool  `json:"active"`
}

type AnnouncementPatch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}

type Service struct {
	configs       domain.SiteConfigRepository
	announcements domain.AnnouncementRepository
	cache         Cache
	ttl           time.Duration
	log           *zap.Logger
}

func NewService(configs domain.SiteConfigRepository, announcements domain.AnnouncementRepository, c Cache, ttl time.Duration, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Service{configs: configs, announcements: announcements, cache: c, ttl: ttl, log: l}
}

func (s *Service) Status(ctx context.Context) (*Status, error) {
	if s.cache == nil {
		return s.loadStatus(ctx)
	}
	st, err := cache.GetOrLoadJSON(s.cache, ctx, StatusKey, s.ttl, s.loadStatus)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) loadStatus(ctx context.Context) (*Status, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, domain.Internal("load site config failed", err)
	}
	list, err := s.announcements.List(ctx, true, HistoryLimit)
	if err != nil {
		return nil, domain.Internal("load announcements failed", err)
	}
	st := &Status{Announcements: list}
	if st.Announcements == nil {
		st.Announcements = []domain.Announcement{}
	}
	if cfg != nil {
		st.Maintenance = cfg.Maintenance
		st.MaintenanceMessage = cfg.MaintenanceMessage
	}
	if len(list) > 0 {
		latest := list[0]
		st.Latest = &latest
	}
	return st, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, StatusKey); err != nil {
		s.log.Warn("invalidate status cache failed", zap.Error(err))
	}
}

// GetConfig returns the stored row or the zero configuration.
func (s *Service) GetConfig(ctx context.Context) (*domain.SiteConfig, error) {
	cfg, err := s.configs.Get(ctx)
	if err != nil {
		return nil, domain.Internal("load site config failed", err)
	}
	if cfg == nil {
		cfg = &domain.SiteConfig{Key: domain.SiteConfigKey}
	}
	return cfg, nil
}

// UpsertConfig merges the patch into the single configuration row.
func (s *Service) UpsertConfig(ctx context.Context, in ConfigPatch) (*domain.SiteConfig, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	if in.Maintenance != nil {
		cfg.Maintenance = *in.Maintenance
	}
	if in.MaintenanceMessage != nil {
		cfg.MaintenanceMessage = strings.TrimSpace(*in.MaintenanceMessage)
	}
	cfg.Key = domain.SiteConfigKey
	cfg.UpdatedAt = time.Now().UTC()
	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, domain.Internal("save site config failed", err)
	}
	s.invalidate(ctx)
	return cfg, nil
}

// ListAnnouncements returns every announcement, active or not, newest first.
func (s *Service) ListAnnouncements(ctx context.Context) ([]domain.Announcement, error) {
	list, err := s.announcements.List(ctx, false, 0)
	if err != nil {
		return nil, domain.Internal("list announcements failed", err)
	}
	if list == nil {
		list = []domain.Announcement{}
	}
	return list, nil
}

func (s *Service) CreateAnnouncement(ctx context.Context, in AnnouncementInput) (*domain.Announcement, error) {
	title, content := strings.TrimSpace(in.Title), strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, domain.Validation(domain.CodeMissingFields, "title and content are required")
	}
	a := &domain.Announcement{ID: utils.NewID(), Title: title, Content: content, Active: true}
	if in.Active != nil {
		a.Active = *in.Active
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, domain.Internal("create announcement failed", err)
	}
	s.invalidate(ctx)
	return a, nil
}

func (s *Service) UpdateAnnouncement(ctx context.Context, id string, in AnnouncementPatch) (*domain.Announcement, error) {
	changes := map[string]any{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, domain.Validation(domain.CodeInvalidInput, "title must not be empty")
		}
		changes["title"] = t
	}
	if in.Content != nil {
		c := strings.TrimSpace(*in.Content)
		if c == "" {
			return nil, domain.Validation(domain.CodeInvalidInput, "content must not be empty")
		}
		changes["content"] = c
	}
	if in.Active != nil {
		changes["active"] = *in.Active
	}
	if len(changes) > 0 {
		ok, err := s.announcements.Update(ctx, id, changes)
		if err != nil {
			return nil, domain.Internal("update announcement failed", err)
		}
		if !ok {
			return nil, domain.NotFound("announcement not found")
		}
		s.invalidate(ctx)
	}
	a, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal("load announcement failed", err)
	}
	if a == nil {
		return nil, domain.NotFound("announcement not found")
	}
	return a, nil
}
