package repo

import (
	"context"

	"gorm.io/gorm"

	"sizing-eval/internal/domain"
)

type FeedbackRepo struct{ db *gorm.DB }

func NewFeedbackRepo(db *gorm.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

func (r *FeedbackRepo) Create(ctx context.Context, f *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FeedbackRepo) scope(ctx context.Context, kind string) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Feedback{})
	if kind != "" {
		tx = tx.Where("type = ?", kind)
	}
	return tx
}

func (r *FeedbackRepo) List(ctx context.Context, kind string, offset, limit int) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := r.scope(ctx, kind).Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

func (r *FeedbackRepo) Count(ctx context.Context, kind string) (int64, error) {
	var n int64
	return n, r.scope(ctx, kind).Count(&n).Error
}
