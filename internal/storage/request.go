package storage

import (
	"context"
	"fmt"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
)

func (s *Storage) CreateRequest(ctx context.Context, request *models.Request) error {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return nil
}

func (s *Storage) GetRequest(ctx context.Context, requestID string) (*models.Request, error) {
	var request models.Request
	if err := s.db.
		WithContext(ctx).
		Preload("User").
		Preload("Shift").
		Where("id = ?", requestID).
		First(&request).
		Error; err != nil {
		return nil, wrapGet(err, "request")
	}
	return &request, nil
}

func (s *Storage) HasPendingRequest(ctx context.Context, userID, shiftID string) (bool, error) {
	var count int64
	if err := s.db.
		WithContext(ctx).
		Model(&models.Request{}).
		Where(
			"user_id = ? AND shift_id = ? AND status = ?",
			userID,
			shiftID,
			models.RequestStatusPending,
		).
		Count(&count).
		Error; err != nil {
		return false, fmt.Errorf("counting pending requests: %w", err)
	}
	return count > 0, nil
}

func (s *Storage) ListRequestsForShift(ctx context.Context, shiftID string, status models.RequestStatus) ([]*models.Request, error) {
	q := s.db.
		WithContext(ctx).
		Preload("User").
		Where("shift_id = ?", shiftID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var requests []*models.Request
	if err := q.Order("created_at").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	return requests, nil
}

// UpdateRequestStatusCAS reviews the request only while it is still
// pending; a second reviewer gets false.
func (s *Storage) UpdateRequestStatusCAS(ctx context.Context, requestID string, to models.RequestStatus, declineReason string) (bool, error) {
	res := s.db.
		WithContext(ctx).
		Model(&models.Request{}).
		Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
		Updates(map[string]any{
			"status":         to,
			"decline_reason": declineReason,
		})
	if res.Error != nil {
		return false, fmt.Errorf("updating request status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
