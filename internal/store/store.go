// Package store persists users, groups, posts, comments and follows, and
// enforces the relational rules between them in application code: group
// deletion clears post references, user deletion cascades to everything
// the user wrote or followed.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"yatube/internal/clock"
	"yatube/internal/models"
)

type Store struct {
	db    *gorm.DB
	clock clock.Clock
}

func New(db *gorm.DB, c clock.Clock) *Store {
	if c == nil {
		c = clock.Real()
	}
	return &Store{db: db, clock: c}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// notFound converts gorm's missing-row error into models.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
