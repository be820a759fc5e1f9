package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"sizing-eval/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict("account already exists")
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.first(ctx, "phone = ?", phone)
}

func (r *UserRepo) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, cond, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) search(ctx context.Context, q string) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR phone LIKE ? OR name LIKE ?", like, like, like)
	}
	return tx
}

func (r *UserRepo) List(ctx context.Context, q string, offset, limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.search(ctx, q).Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

func (r *UserRepo) Count(ctx context.Context, q string) (int64, error) {
	var total int64
	err := r.search(ctx, q).Count(&total).Error
	return total, err
}

func (r *UserRepo) Update(ctx context.Context, id string, changes map[string]any) (bool, error) {
	return updateByID(r.db.WithContext(ctx), &domain.User{}, id, changes)
}

// updateByID applies changes and reports whether the row exists. MySQL
// reports zero affected rows for no-op updates, so a miss is re-checked.
func updateByID(tx *gorm.DB, model any, id string, changes map[string]any) (bool, error) {
	res := tx.Model(model).Where("id = ?", id).Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
