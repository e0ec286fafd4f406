// Package testutil provides an in-memory database with every model migrated.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"boardspace-backend/internal/config"
	"boardspace-backend/internal/repo"
)

// NewTestDB opens a private in-memory SQLite database. The pool is pinned
// to one connection so every query sees the same database; callers must use
// the transaction handle inside Store.Transaction.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.MigrateAllModels(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})
	return db
}

// NewTestStore wraps NewTestDB in a repo.Store.
func NewTestStore(t *testing.T) *repo.Store {
	t.Helper()
	return repo.NewStore(NewTestDB(t))
}

// NewOwner returns a fresh user id.
func NewOwner() uuid.UUID {
	return uuid.New()
}
