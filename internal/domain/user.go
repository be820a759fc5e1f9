package domain

import (
	"context"
	"time"
)

const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// IsAdminRole reports whether role carries admin capabilities.
func IsAdminRole(role string) bool { return role == RoleAdmin || role == RoleSuperAdmin }

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        *string   `gorm:"uniqueIndex;size:191" json:"email,omitempty"`
	Phone        *string   `gorm:"uniqueIndex;size:32" json:"phone,omitempty"`
	Name         string    `gorm:"size:64" json:"name"`
	PasswordHash string    `gorm:"size:191;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// EmailOrEmpty dereferences the optional email.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// UserRepository lookups return (nil, nil) when the row does not exist.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	List(ctx context.Context, q string, offset, limit int) ([]User, error)
	Count(ctx context.Context, q string) (int64, error)
	Update(ctx context.Context, id string, changes map[string]any) (bool, error)
}
