package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"boardspace-backend/internal/apperr"
)

// Store groups the repositories over one connection or transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Boards() BoardRepoInterface {
	return NewBoardRepository(s.db)
}

func (s *Store) Items() ItemRepoInterface {
	return NewItemRepository(s.db)
}

func (s *Store) Payloads() PayloadRepoInterface {
	return NewPayloadRepository(s.db)
}

// Transaction runs fn with repositories bound to a single transaction.
// Inside fn only tx may be used, never the outer store.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// notFound maps gorm.ErrRecordNotFound to the domain error.
func notFound(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}
