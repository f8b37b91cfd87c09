package storage

import (
	"context"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
)

func (s *Storage) GetAdministrator(ctx context.Context, adminID string) (*models.Administrator, error) {
	var admin models.Administrator
	if err := s.db.WithContext(ctx).Where("id = ?", adminID).First(&admin).Error; err != nil {
		return nil, wrapGet(err, "administrator")
	}
	return &admin, nil
}

func (s *Storage) CreateAdministrator(ctx context.Context, admin *models.Administrator) error {
	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("creating administrator: %w", err)
	}
	return nil
}

func (s *Storage) ListAdministrators(ctx context.Context) ([]*models.Administrator, error) {
	var admins []*models.Administrator
	if err := s.db.WithContext(ctx).Order("email").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("listing administrators: %w", err)
	}
	return admins, nil
}

func (s *Storage) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.Token == "" {
		inv.Token = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(inv).Error; err != nil {
		return fmt.Errorf("creating invitation: %w", err)
	}
	return nil
}

func (s *Storage) GetInvitation(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error; err != nil {
		return nil, wrapGet(err, "invitation")
	}
	return &inv, nil
}

// MarkInvitationUsed consumes the token; a second accept loses the race.
func (s *Storage) MarkInvitationUsed(ctx context.Context, token string) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Model(&models.Invitation{}).
		Where("token = ? AND used = ?", token, false).
		Updates(map[string]any{"used": true})
	if res.Error != nil {
		return false, fmt.Errorf("marking invitation used: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Storage) AddMessageHistory(ctx context.Context, msg *models.MessageHistory) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("creating message history: %w", err)
	}
	return nil
}
