package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"gorm.io/gorm"
)

type Storage struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Shift{},
		&models.Member{},
		&models.Task{},
		&models.Report{},
		&models.Request{},
		&models.Administrator{},
		&models.Invitation{},
		&models.MessageHistory{},
	); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	return nil
}

// wrapGet translates gorm's record-not-found into the domain sentinel so
// callers never import gorm to classify errors.
func wrapGet(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("getting %s: %w", what, models.ErrNotFound)
	}
	return fmt.Errorf("getting %s: %w", what, err)
}
