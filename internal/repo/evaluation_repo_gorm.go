package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sizing-eval/internal/domain"
)

type EvaluationRepo struct{ db *gorm.DB }

func NewEvaluationRepo(db *gorm.DB) *EvaluationRepo { return &EvaluationRepo{db: db} }

func column(f domain.EvaluationField) (string, error) {
	switch f {
	case domain.FieldCreatedAt, domain.FieldModel, domain.FieldHardware:
		return string(f), nil
	}
	return "", fmt.Errorf("unknown evaluation field %q", f)
}

func (r *EvaluationRepo) scope(ctx context.Context, f domain.EvaluationFilter) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.Evaluation{})
	if f.OwnerID != "" {
		tx = tx.Where("owner_id = ?", f.OwnerID)
	}
	if f.Archived != nil {
		tx = tx.Where("archived = ?", *f.Archived)
	}
	if f.Model != "" {
		tx = tx.Where("model = ?", f.Model)
	}
	if f.Hardware != "" {
		tx = tx.Where("hardware = ?", f.Hardware)
	}
	if f.Since != nil {
		tx = tx.Where("created_at >= ?", *f.Since)
	}
	if f.Until != nil {
		tx = tx.Where("created_at < ?", *f.Until)
	}
	return tx
}

func (r *EvaluationRepo) FindByID(ctx context.Context, id string) (*domain.Evaluation, error) {
	var e domain.Evaluation
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EvaluationRepo) FindMany(ctx context.Context, f domain.EvaluationFilter, skip, take int, order domain.OrderBy) ([]domain.Evaluation, error) {
	col := string(domain.FieldCreatedAt)
	if order.Field != "" {
		c, err := column(order.Field)
		if err != nil {
			return nil, err
		}
		col = c
	}
	tx := r.scope(ctx, f).Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: order.Desc})
	if skip > 0 {
		tx = tx.Offset(skip)
	}
	if take > 0 {
		tx = tx.Limit(take)
	}
	var out []domain.Evaluation
	return out, tx.Find(&out).Error
}

func (r *EvaluationRepo) Count(ctx context.Context, f domain.EvaluationFilter) (int64, error) {
	var n int64
	return n, r.scope(ctx, f).Count(&n).Error
}

func (r *EvaluationRepo) GroupBy(ctx context.Context, field domain.EvaluationField, f domain.EvaluationFilter) ([]domain.GroupCount, error) {
	col, err := column(field)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Name  string
		Count int64
	}
	err = r.scope(ctx, f).
		Select(col + " AS name, COUNT(*) AS count").
		Group(col).
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.GroupCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.GroupCount{Key: row.Name, Count: row.Count})
	}
	return out, nil
}

func (r *EvaluationRepo) Create(ctx context.Context, e *domain.Evaluation) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EvaluationRepo) Update(ctx context.Context, id string, changes map[string]any) (bool, error) {
	return updateByID(r.db.WithContext(ctx), &domain.Evaluation{}, id, changes)
}
