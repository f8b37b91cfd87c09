package requests

import (
	"context"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

type Storage interface {
	GetOrCreateUser(ctx context.Context, candidate *models.User) (*models.User, error)
	SetUserStatus(ctx context.Context, userID string, status models.UserStatus) error
	GetOpenShift(ctx context.Context) (*models.Shift, error)
	HasPendingRequest(ctx context.Context, userID, shiftID string) (bool, error)
	CreateRequest(ctx context.Context, request *models.Request) error
	GetRequest(ctx context.Context, requestID string) (*models.Request, error)
	ListRequestsForShift(ctx context.Context, shiftID string, status models.RequestStatus) ([]*models.Request, error)
	UpdateRequestStatusCAS(ctx context.Context, requestID string, to models.RequestStatus, declineReason string) (bool, error)
	GetOrCreateMember(ctx context.Context, userID, shiftID string) (*models.Member, error)
}

type Service struct {
	config   *config.Config
	storage  Storage
	notifier notify.Notifier
}

func New(cfg *config.Config, storage Storage, notifier notify.Notifier) *Service {
	return &Service{
		config:   cfg,
		storage:  storage,
		notifier: notifier,
	}
}

// RegistrationForm is what the bot collects before submitting a request.
type RegistrationForm struct {
	TelegramID  int64
	Name        string
	Surname     string
	DateOfBirth time.Time
	City        string
	PhoneNumber string
}

// Register upserts the user from the form and submits a join request for
// the open shift.
func (s *Service) Register(ctx context.Context, form RegistrationForm) (*models.Request, error) {
	shift, err := s.storage.GetOpenShift(ctx)
	if err != nil {
		return nil, models.ErrNoOpenShift
	}

	user, err := s.storage.GetOrCreateUser(ctx, &models.User{
		TelegramID:  form.TelegramID,
		Name:        form.Name,
		Surname:     form.Surname,
		DateOfBirth: form.DateOfBirth,
		City:        form.City,
		PhoneNumber: form.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	request, err := s.submit(ctx, user, shift)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Notify(ctx, user, models.TemplateRegistrationConfirmed, notify.Payload{
		ShiftTitle: shift.Title,
	}); err != nil {
		logrus.Errorf("failed to confirm registration to user %s: %v", user.ID, err)
	}

	return request, nil
}

func (s *Service) submit(ctx context.Context, user *models.User, shift *models.Shift) (*models.Request, error) {
	pending, err := s.storage.HasPendingRequest(ctx, user.ID, shift.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, models.ErrDuplicatePendingRequest
	}

	request := &models.Request{
		UserID:  user.ID,
		ShiftID: shift.ID,
		Status:  models.RequestStatusPending,
	}
	if err := s.storage.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// Approve reviews the request: request approved, user verified, member
// created for (user, shift). The mutations commit before the notification
// is attempted and are never rolled back by a delivery failure.
func (s *Service) Approve(ctx context.Context, requestID string) error {
	request, err := s.review(ctx, requestID, models.RequestStatusApproved, "")
	if err != nil {
		return err
	}

	if err := s.storage.SetUserStatus(ctx, request.UserID, models.UserStatusVerified); err != nil {
		return err
	}

	if _, err := s.storage.GetOrCreateMember(ctx, request.UserID, request.ShiftID); err != nil {
		return err
	}

	if request.User != nil {
		title := ""
		if request.Shift != nil {
			title = request.Shift.Title
		}
		if err := s.notifier.Notify(ctx, request.User, models.TemplateRequestApproved, notify.Payload{
			ShiftTitle: title,
		}); err != nil {
			logrus.Errorf("failed to notify user %s about approval: %v", request.UserID, err)
		}
	}

	return nil
}

// Decline reviews the request negatively, optionally telling the user why.
func (s *Service) Decline(ctx context.Context, requestID, reason string) error {
	request, err := s.review(ctx, requestID, models.RequestStatusDeclined, reason)
	if err != nil {
		return err
	}

	if err := s.storage.SetUserStatus(ctx, request.UserID, models.UserStatusDeclined); err != nil {
		return err
	}

	if request.User != nil {
		if err := s.notifier.Notify(ctx, request.User, models.TemplateRequestDeclined, notify.Payload{
			Reason: reason,
		}); err != nil {
			logrus.Errorf("failed to notify user %s about decline: %v", request.UserID, err)
		}
	}

	return nil
}

func (s *Service) ListForShift(ctx context.Context, shiftID string, status models.RequestStatus) ([]*models.Request, error) {
	return s.storage.ListRequestsForShift(ctx, shiftID, status)
}

// review applies the pending -> reviewed transition as a compare-and-set;
// the loser of a double review gets AlreadyReviewedError with the status
// that won.
func (s *Service) review(ctx context.Context, requestID string, to models.RequestStatus, reason string) (*models.Request, error) {
	request, err := s.storage.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.Status.Reviewed() {
		return nil, models.AlreadyReviewed(request.Status)
	}
	if err := request.Status.Transition(to); err != nil {
		return nil, err
	}

	ok, err := s.storage.UpdateRequestStatusCAS(ctx, requestID, to, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.storage.GetRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		return nil, models.AlreadyReviewed(current.Status)
	}

	request.Status = to
	return request, nil
}
