package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Evaluation is one sizing submission. The three feasibility columns hold
// JSON produced by the scoring engine and are stored verbatim.
type Evaluation struct {
	ID                     string                      `gorm:"primaryKey;size:36"`
	OwnerID                string                      `gorm:"size:36;not null;index"`
	Model                  string                      `gorm:"size:128;not null;index"`
	Hardware               string                      `gorm:"size:128;not null;index"`
	CardCount              int                         `gorm:"not null"`
	BusinessScenario       string                      `gorm:"type:text"`
	PerformanceQPS         int                         `gorm:"column:performance_qps"`
	PerformanceConcurrency int                         `gorm:"column:performance_concurrency"`
	BusinessDataTypes      datatypes.JSONSlice[string] `gorm:"column:business_data_types"`
	BusinessDataQuality    string                      `gorm:"size:32"`
	BusinessDataVolume     string                      `gorm:"size:64"`
	ResourceFeasibility    string                      `gorm:"type:text"`
	TechnicalFeasibility   string                      `gorm:"type:text;not null"`
	BusinessValue          *string                     `gorm:"type:text"`
	Archived               bool                        `gorm:"not null;default:false;index"`
	ArchivedAt             *time.Time
	CreatedAt              time.Time `gorm:"index"`
}

func (Evaluation) TableName() string { return "evaluations" }

// EvaluationField names the columns callers may sort or group by.
type EvaluationField string

const (
	FieldCreatedAt EvaluationField = "created_at"
	FieldModel     EvaluationField = "model"
	FieldHardware  EvaluationField = "hardware"
)

type EvaluationFilter struct {
	OwnerID  string
	Archived *bool
	Model    string
	Hardware string
	Since    *time.Time
	Until    *time.Time
}

type OrderBy struct {
	Field EvaluationField
	Desc  bool
}

// GroupCount is one row of a groupBy result.
type GroupCount struct {
	Key   string `json:"name"`
	Count int64  `json:"count"`
}

// EvaluationStore is the capability set the core consumes. FindByID returns
// (nil, nil) when absent; take <= 0 on FindMany means no limit.
type EvaluationStore interface {
	FindByID(ctx context.Context, id string) (*Evaluation, error)
	FindMany(ctx context.Context, f EvaluationFilter, skip, take int, order OrderBy) ([]Evaluation, error)
	Count(ctx context.Context, f EvaluationFilter) (int64, error)
	GroupBy(ctx context.Context, field EvaluationField, f EvaluationFilter) ([]GroupCount, error)
	Create(ctx context.Context, e *Evaluation) error
	Update(ctx context.Context, id string, changes map[string]any) (bool, error)
}
