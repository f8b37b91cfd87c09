package storage

import (
	"context"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, wrapGet(err, "user")
	}
	return &user, nil
}

func (s *Storage) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, wrapGet(err, "user")
	}
	return &user, nil
}

// GetOrCreateUser registers the user on first contact. An existing row for
// the telegram id wins the race; identity fields are refreshed from the
// submitted form.
func (s *Storage) GetOrCreateUser(ctx context.Context, candidate *models.User) (*models.User, error) {
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	if candidate.Status == "" {
		candidate.Status = models.UserStatusPending
	}

	var user models.User
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "telegram_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"name", "surname", "date_of_birth", "city", "phone_number",
				}),
			}).
			Create(candidate).
			Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		if err := tx.
			Where("telegram_id = ?", candidate.TelegramID).
			First(&user).
			Error; err != nil {
			return fmt.Errorf("getting user: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("in tx: %w", err)
	}

	return &user, nil
}

func (s *Storage) SetUserStatus(ctx context.Context, userID string, status models.UserStatus) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"status": status}).
		Error; err != nil {
		return fmt.Errorf("updating user status: %w", err)
	}
	return nil
}

func (s *Storage) SetUserTelegramBlocked(ctx context.Context, userID string, blocked bool) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"telegram_blocked": blocked}).
		Error; err != nil {
		return fmt.Errorf("updating user telegram_blocked: %w", err)
	}
	return nil
}
