package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

// Storage is the slice of the persistence layer the lifecycle engine needs.
type Storage interface {
	CreateShift(ctx context.Context, shift *models.Shift) error
	GetShift(ctx context.Context, shiftID string) (*models.Shift, error)
	GetOpenShift(ctx context.Context) (*models.Shift, error)
	ListShifts(ctx context.Context) ([]*models.Shift, error)
	GetShiftsToStart(ctx context.Context, today time.Time) ([]*models.Shift, error)
	GetShiftsToComplete(ctx context.Context, today time.Time) ([]*models.Shift, error)
	UpdateShiftStatusCAS(ctx context.Context, shiftID string, from, to models.ShiftStatus) (bool, error)
	GetAllTaskIDs(ctx context.Context) ([]string, error)
	GetMembersForShift(ctx context.Context, shiftID string) ([]*models.Member, error)
	GetActiveMembersForShift(ctx context.Context, shiftID string) ([]*models.Member, error)
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

// Create validates the date range, builds the daily task rotation and
// stores the shift in preparing status.
func (s *Service) Create(ctx context.Context, title, finalMessage string, startedAt, finishedAt time.Time) (*models.Shift, error) {
	startedAt = truncateToDay(startedAt)
	finishedAt = truncateToDay(finishedAt)
	today := truncateToDay(time.Now())

	if !finishedAt.After(startedAt) {
		return nil, models.ErrInvalidDateRange
	}
	if !startedAt.After(today) {
		return nil, models.ErrPastDate
	}

	days := int(finishedAt.Sub(startedAt).Hours() / 24)
	if days < s.config.MinShiftDays {
		return nil, models.ErrInvalidDateRange
	}
	if days > s.config.MaxShiftDays {
		return nil, models.ErrMaxDuration
	}

	if _, err := s.storage.GetOpenShift(ctx); err == nil {
		return nil, models.ErrShiftAlreadyExists
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("checking open shift: %w", err)
	}

	taskIDs, err := s.storage.GetAllTaskIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting task ids: %w", err)
	}

	tasks, err := BuildDailyTaskMap(taskIDs)
	if err != nil {
		return nil, err
	}

	shift := &models.Shift{
		Title:        title,
		FinalMessage: finalMessage,
		Status:       models.ShiftStatusPreparing,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		Tasks:        tasks,
	}
	if err := s.storage.CreateShift(ctx, shift); err != nil {
		return nil, err
	}

	logrus.Infof("created shift %s (%s — %s)", shift.ID, startedAt.Format(time.DateOnly), finishedAt.Format(time.DateOnly))
	return shift, nil
}

func (s *Service) Get(ctx context.Context, shiftID string) (*models.Shift, error) {
	return s.storage.GetShift(ctx, shiftID)
}

func (s *Service) List(ctx context.Context) ([]*models.Shift, error) {
	return s.storage.ListShifts(ctx)
}

// Start flips preparing -> started. The daily task broadcast is driven by
// the scheduler, not by this transition.
func (s *Service) Start(ctx context.Context, shiftID string) error {
	return s.transition(ctx, shiftID, models.ShiftStatusStarted)
}

// Finish closes a ready_for_complete shift and sends every member the
// final message with their earned lombaryers substituted. The status flip
// commits first; deliveries are best-effort.
func (s *Service) Finish(ctx context.Context, shiftID string) error {
	shift, err := s.storage.GetShift(ctx, shiftID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, shiftID, models.ShiftStatusFinished); err != nil {
		return err
	}

	members, err := s.storage.GetMembersForShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("getting members for payout: %w", err)
	}

	for _, member := range members {
		if member.User == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, member.User, models.TemplateShiftFinished, notify.Payload{
			FinalMessage: shift.FinalMessage,
			Lombaryers:   member.NumbersLombaryers,
			ShiftTitle:   shift.Title,
		}); err != nil {
			logrus.Errorf("failed to send final message to member %s: %v", member.ID, err)
		}
	}

	return nil
}

// Cancel aborts a preparing or started shift and tells active members.
func (s *Service) Cancel(ctx context.Context, shiftID string) error {
	shift, err := s.storage.GetShift(ctx, shiftID)
	if err != nil {
		return err
	}

	if err := s.transition(ctx, shiftID, models.ShiftStatusCancelled); err != nil {
		return err
	}

	members, err := s.storage.GetActiveMembersForShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("getting members: %w", err)
	}
	for _, member := range members {
		if member.User == nil {
			continue
		}
		if err := s.notifier.Notify(ctx, member.User, models.TemplateShiftCancelled, notify.Payload{
			ShiftTitle: shift.Title,
		}); err != nil {
			logrus.Errorf("failed to notify member %s about cancellation: %v", member.ID, err)
		}
	}

	return nil
}

// AutoStart is the scheduler entry point: starts every preparing shift
// whose start date has come.
func (s *Service) AutoStart(ctx context.Context, today time.Time) {
	shifts, err := s.storage.GetShiftsToStart(ctx, truncateToDay(today))
	if err != nil {
		logrus.Errorf("failed to get shifts to start: %v", err)
		return
	}
	for _, shift := range shifts {
		if err := s.Start(ctx, shift.ID); err != nil {
			logrus.Errorf("failed to auto-start shift %s: %v", shift.ID, err)
			continue
		}
		logrus.Infof("auto-started shift %s", shift.ID)
	}
}

// AutoReady moves started shifts whose days have all elapsed into
// ready_for_complete, awaiting an administrator's Finish.
func (s *Service) AutoReady(ctx context.Context, today time.Time) {
	shifts, err := s.storage.GetShiftsToComplete(ctx, truncateToDay(today))
	if err != nil {
		logrus.Errorf("failed to get shifts to complete: %v", err)
		return
	}
	for _, shift := range shifts {
		if err := s.transition(ctx, shift.ID, models.ShiftStatusReadyForComplete); err != nil {
			logrus.Errorf("failed to mark shift %s ready for complete: %v", shift.ID, err)
			continue
		}
		logrus.Infof("shift %s is ready for complete", shift.ID)
	}
}

// transition validates the move against the shift FSM and applies it as a
// compare-and-set, so a concurrent administrator loses cleanly.
func (s *Service) transition(ctx context.Context, shiftID string, to models.ShiftStatus) error {
	shift, err := s.storage.GetShift(ctx, shiftID)
	if err != nil {
		return err
	}

	if err := shift.Status.Transition(to); err != nil {
		return err
	}

	ok, err := s.storage.UpdateShiftStatusCAS(ctx, shiftID, shift.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		current, err := s.storage.GetShift(ctx, shiftID)
		if err != nil {
			return err
		}
		return &models.InvalidTransitionError{
			Entity: "shift",
			From:   string(current.Status),
			To:     string(to),
		}
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
