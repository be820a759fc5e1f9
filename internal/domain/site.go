package domain

import (
	"context"
	"time"
)

type Announcement struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Active    bool      `gorm:"not null;index" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

func (Announcement) TableName() string { return "announcements" }

// SiteConfigKey is the primary key of the single site configuration row.
const SiteConfigKey = "site"

type SiteConfig struct {
	Key                string    `gorm:"column:config_key;primaryKey;size:32" json:"-"`
	Maintenance        bool      `gorm:"not null" json:"maintenance"`
	MaintenanceMessage string    `gorm:"type:text" json:"maintenanceMessage"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (SiteConfig) TableName() string { return "site_config" }

type AnnouncementRepository interface {
	Create(ctx context.Context, a *Announcement) error
	FindByID(ctx context.Context, id string) (*Announcement, error)
	Update(ctx context.Context, id string, changes map[string]any) (bool, error)
	// List orders by updated_at desc; limit <= 0 means no limit.
	List(ctx context.Context, activeOnly bool, limit int) ([]Announcement, error)
}

type SiteConfigRepository interface {
	Get(ctx context.Context) (*SiteConfig, error)
	Upsert(ctx context.Context, c *SiteConfig) error
}
