package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sizing-eval/internal/domain"
)

type AnnouncementRepo struct{ db *gorm.DB }

func NewAnnouncementRepo(db *gorm.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

func (r *AnnouncementRepo) Create(ctx context.Context, a *domain.Announcement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AnnouncementRepo) FindByID(ctx context.Context, id string) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnnouncementRepo) Update(ctx context.Context, id string, changes map[string]any) (bool, error) {
	return updateByID(r.db.WithContext(ctx), &domain.Announcement{}, id, changes)
}

func (r *AnnouncementRepo) List(ctx context.Context, activeOnly bool, limit int) ([]domain.Announcement, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Announcement{})
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var out []domain.Announcement
	return out, tx.Order("updated_at DESC").Find(&out).Error
}

type SiteConfigRepo struct{ db *gorm.DB }

func NewSiteConfigRepo(db *gorm.DB) *SiteConfigRepo { return &SiteConfigRepo{db: db} }

func (r *SiteConfigRepo) Get(ctx context.Context) (*domain.SiteConfig, error) {
	var c domain.SiteConfig
	err := r.db.WithContext(ctx).First(&c, "config_key = ?", domain.SiteConfigKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert writes the singleton row, inserting it on first use.
func (r *SiteConfigRepo) Upsert(ctx context.Context, c *domain.SiteConfig) error {
	c.Key = domain.SiteConfigKey
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"maintenance", "maintenance_message", "updated_at"}),
	}).Create(c).Error
}
