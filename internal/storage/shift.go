package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
)

func (s *Storage) CreateShift(ctx context.Context, shift *models.Shift) error {
	if shift.ID == "" {
		shift.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(shift).Error; err != nil {
		return fmt.Errorf("creating shift: %w", err)
	}
	return nil
}

func (s *Storage) GetShift(ctx context.Context, shiftID string) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.WithContext(ctx).Where("id = ?", shiftID).First(&shift).Error; err != nil {
		return nil, wrapGet(err, "shift")
	}
	return &shift, nil
}

// GetOpenShift returns the single shift in preparing or started status.
func (s *Storage) GetOpenShift(ctx context.Context) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.
		WithContext(ctx).
		Where("status IN ?", []models.ShiftStatus{models.ShiftStatusPreparing, models.ShiftStatusStarted}).
		First(&shift).
		Error; err != nil {
		return nil, wrapGet(err, "open shift")
	}
	return &shift, nil
}

func (s *Storage) GetStartedShift(ctx context.Context) (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.
		WithContext(ctx).
		Where("status = ?", models.ShiftStatusStarted).
		First(&shift).
		Error; err != nil {
		return nil, wrapGet(err, "started shift")
	}
	return &shift, nil
}

func (s *Storage) ListShifts(ctx context.Context) ([]*models.Shift, error) {
	var shifts []*models.Shift
	if err := s.db.
		WithContext(ctx).
		Order("started_at DESC").
		Find(&shifts).
		Error; err != nil {
		return nil, fmt.Errorf("listing shifts: %w", err)
	}
	return shifts, nil
}

// GetShiftsToStart returns preparing shifts whose start date has come.
func (s *Storage) GetShiftsToStart(ctx context.Context, today time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift
	if err := s.db.
		WithContext(ctx).
		Where("status = ? AND started_at <= ?", models.ShiftStatusPreparing, today).
		Find(&shifts).
		Error; err != nil {
		return nil, fmt.Errorf("getting shifts to start: %w", err)
	}
	return shifts, nil
}

// GetShiftsToComplete returns started shifts whose last day has elapsed.
func (s *Storage) GetShiftsToComplete(ctx context.Context, today time.Time) ([]*models.Shift, error) {
	var shifts []*models.Shift
	if err := s.db.
		WithContext(ctx).
		Where("status = ? AND finished_at < ?", models.ShiftStatusStarted, today).
		Find(&shifts).
		Error; err != nil {
		return nil, fmt.Errorf("getting shifts to complete: %w", err)
	}
	return shifts, nil
}

// UpdateShiftStatusCAS flips the shift status only when it still holds the
// expected one. Returns false when another writer got there first.
func (s *Storage) UpdateShiftStatusCAS(ctx context.Context, shiftID string, from, to models.ShiftStatus) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Model(&models.Shift{}).
		Where("id = ? AND status = ?", shiftID, from).
		Updates(map[string]any{"status": to})
	if res.Error != nil {
		return false, fmt.Errorf("updating shift status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
