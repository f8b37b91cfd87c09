package storage

import (
	"context"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateMember creates the participation row for (user, shift).
// Double approval hits the unique index and returns the existing member.
func (s *Storage) GetOrCreateMember(ctx context.Context, userID, shiftID string) (*models.Member, error) {
	memberToCreate := &models.Member{
		ID:      uuid.New().String(),
		UserID:  userID,
		ShiftID: shiftID,
		Status:  models.MemberStatusActive,
	}

	var member models.Member
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "user_id"},
					{Name: "shift_id"},
				},
				DoNothing: true,
			}).
			Create(memberToCreate).
			Error; err != nil {
			return fmt.Errorf("creating member: %w", err)
		}

		if err := tx.
			Where("user_id = ? AND shift_id = ?", userID, shiftID).
			First(&member).
			Error; err != nil {
			return fmt.Errorf("getting member: %w", err)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("in tx: %w", err)
	}

	return &member, nil
}

func (s *Storage) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	var member models.Member
	if err := s.db.
		WithContext(ctx).
		Preload("User").
		Where("id = ?", memberID).
		First(&member).
		Error; err != nil {
		return nil, wrapGet(err, "member")
	}
	return &member, nil
}

// GetActiveMemberByTelegramID resolves a bot sender to their membership in
// the currently started shift.
func (s *Storage) GetActiveMemberByTelegramID(ctx context.Context, telegramID int64, shiftID string) (*models.Member, error) {
	var member models.Member
	if err := s.db.
		WithContext(ctx).
		Preload("User").
		Joins("JOIN users ON users.id = members.user_id").
		Where(
			"users.telegram_id = ? AND members.shift_id = ? AND members.status = ?",
			telegramID,
			shiftID,
			models.MemberStatusActive,
		).
		First(&member).
		Error; err != nil {
		return nil, wrapGet(err, "member")
	}
	return &member, nil
}

func (s *Storage) GetActiveMembersForShift(ctx context.Context, shiftID string) ([]*models.Member, error) {
	var members []*models.Member
	if err := s.db.
		WithContext(ctx).
		Preload("User").
		Where("shift_id = ? AND status = ?", shiftID, models.MemberStatusActive).
		Find(&members).
		Error; err != nil {
		return nil, fmt.Errorf("getting active members: %w", err)
	}
	return members, nil
}

func (s *Storage) GetMembersForShift(ctx context.Context, shiftID string) ([]*models.Member, error) {
	var members []*models.Member
	if err := s.db.
		WithContext(ctx).
		Preload("User").
		Where("shift_id = ?", shiftID).
		Find(&members).
		Error; err != nil {
		return nil, fmt.Errorf("getting members: %w", err)
	}
	return members, nil
}

func (s *Storage) SetMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		Updates(map[string]any{"status": status}).
		Error; err != nil {
		return fmt.Errorf("updating member status: %w", err)
	}
	return nil
}

// AddLombaryers increments the member's balance atomically in the database.
func (s *Storage) AddLombaryers(ctx context.Context, memberID string, amount int) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.Member{}).
		Where("id = ?", memberID).
		Update("numbers_lombaryers", gorm.Expr("numbers_lombaryers + ?", amount)).
		Error; err != nil {
		return fmt.Errorf("adding lombaryers: %w", err)
	}
	return nil
}
