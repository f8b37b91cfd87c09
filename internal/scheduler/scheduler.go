package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/sirupsen/logrus"
)

type Storage interface {
	GetStartedShift(ctx context.Context) (*models.Shift, error)
}

// Scheduler owns the timing policy: it polls once a minute and fires the
// daily pipeline (attrition -> materialization -> broadcast), the shift
// date checks, and the evening reminder pass. The services it calls are
// all idempotent for a given day, so a restarted process re-running a
// tick is harmless, and a failed daily run is retried on the next tick.
type Scheduler struct {
	config  *config.Config
	storage Storage
	shifts  *shifts.Service
	reports *reports.Service

	lastDailyRun    time.Time
	lastReminderRun time.Time
}

func New(cfg *config.Config, storage Storage, shiftSvc *shifts.Service, reportSvc *reports.Service) *Scheduler {
	return &Scheduler{
		config:  cfg,
		storage: storage,
		shifts:  shiftSvc,
		reports: reportSvc,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()

	logger := logrus.WithField("component", "scheduler")

	for {
		select {
		case <-t.C:
			s.Tick(ctx, time.Now(), logger)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) Tick(ctx context.Context, now time.Time, logger *logrus.Entry) {
	s.shifts.AutoStart(ctx, now)
	s.shifts.AutoReady(ctx, now)

	if now.Hour() >= s.config.DailyJobHour && !sameDay(s.lastDailyRun, now) {
		// the day is marked done only after materialization succeeds, so
		// a transient failure retries a minute later
		if err := s.runDaily(ctx, now, logger); err != nil {
			logger.Errorf("daily pipeline failed, retrying next tick: %v", err)
		} else {
			s.lastDailyRun = now
		}
	}

	if now.Hour() >= s.config.ReminderHour && !sameDay(s.lastReminderRun, now) {
		s.runReminders(ctx, now, logger)
		s.lastReminderRun = now
	}
}

func (s *Scheduler) runDaily(ctx context.Context, now time.Time, logger *logrus.Entry) error {
	shift, err := s.storage.GetStartedShift(ctx)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("getting started shift: %w", err)
	}

	date := s.config.CurrentTaskDate(now)

	// exclusion first, so dropped members get no report for today
	if err := s.reports.ExcludeLaggingMembers(ctx, shift.ID, date); err != nil {
		logger.Errorf("attrition pass failed: %v", err)
	}

	if err := s.reports.MaterializeDailyReports(ctx, shift, date); err != nil {
		return fmt.Errorf("materializing reports: %w", err)
	}

	// broadcast is not retried: re-running it would duplicate messages
	if err := s.reports.BroadcastDailyTask(ctx, shift, date); err != nil {
		logger.Errorf("failed to broadcast task: %v", err)
	}

	logger.Infof("daily pipeline done for shift %s on %s", shift.ID, date.Format(time.DateOnly))
	return nil
}

func (s *Scheduler) runReminders(ctx context.Context, now time.Time, logger *logrus.Entry) {
	shift, err := s.storage.GetStartedShift(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Errorf("failed to get started shift: %v", err)
		}
		return
	}

	if err := s.reports.SendReminders(ctx, shift.ID, s.config.CurrentTaskDate(now)); err != nil {
		logger.Errorf("reminder pass failed: %v", err)
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
