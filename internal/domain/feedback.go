package domain

import (
	"context"
	"time"
)

const (
	FeedbackKindGeneral = "general"
	FeedbackKindModule  = "module"
)

// Feedback stores both variants in one table. General rows carry
// Category/Title/Description; module rows carry EvaluationID/ModuleName/Rating.
type Feedback struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      string    `gorm:"size:36;not null;index" json:"ownerId"`
	Type         string    `gorm:"size:16;not null;index" json:"type"`
	Category     *string   `gorm:"column:feedback_type;size:16" json:"feedbackType,omitempty"`
	Title        *string   `gorm:"size:200" json:"title,omitempty"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	ContactEmail *string   `gorm:"size:191" json:"contactEmail,omitempty"`
	EvaluationID *string   `gorm:"size:36;index" json:"evaluationId,omitempty"`
	ModuleName   *string   `gorm:"size:16" json:"moduleName,omitempty"`
	Rating       *string   `gorm:"size:16" json:"rating,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Feedback) TableName() string { return "feedback" }

type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) error
	List(ctx context.Context, kind string, offset, limit int) ([]Feedback, error)
	Count(ctx context.Context, kind string) (int64, error)
}
