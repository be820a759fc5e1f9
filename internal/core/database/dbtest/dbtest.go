// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"gorm.io/gorm"

	"sizing-eval/internal/core/database"
)

// New returns a fresh migrated sqlite database pinned to one connection,
// so every query sees the same in-memory schema.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
