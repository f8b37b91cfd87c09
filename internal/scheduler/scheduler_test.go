package scheduler_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/scheduler"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, *models.User, models.MessageTemplate, notify.Payload) error {
	return nil
}

// schedStore backs all three service interfaces with in-memory state.
type schedStore struct {
	shift   *models.Shift
	members []*models.Member
	reports map[string]*models.Report
	task    *models.Task

	materializeCalls int
	nextID           int

	startedShiftErrs  int
	createReportsErrs int
}

func newSchedStore() *schedStore {
	tasks := map[string]string{}
	for day := 1; day <= models.TaskMapDays; day++ {
		tasks[strconv.Itoa(day)] = "task1"
	}
	return &schedStore{
		shift: &models.Shift{
			ID:         "s1",
			Status:     models.ShiftStatusStarted,
			StartedAt:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
			Tasks:      tasks,
		},
		reports: map[string]*models.Report{},
		task:    &models.Task{ID: "task1", Description: "do good"},
	}
}

func (s *schedStore) GetStartedShift(context.Context) (*models.Shift, error) {
	if s.startedShiftErrs > 0 {
		s.startedShiftErrs--
		return nil, errors.New("connection refused")
	}
	if s.shift.Status != models.ShiftStatusStarted {
		return nil, models.ErrNotFound
	}
	return s.shift, nil
}

func (s *schedStore) CreateShift(_ context.Context, shift *models.Shift) error { return nil }

func (s *schedStore) GetShift(_ context.Context, shiftID string) (*models.Shift, error) {
	if shiftID != s.shift.ID {
		return nil, models.ErrNotFound
	}
	return s.shift, nil
}

func (s *schedStore) GetOpenShift(context.Context) (*models.Shift, error) {
	if s.shift.Status.Open() {
		return s.shift, nil
	}
	return nil, models.ErrNotFound
}

func (s *schedStore) ListShifts(context.Context) ([]*models.Shift, error) {
	return []*models.Shift{s.shift}, nil
}

func (s *schedStore) GetShiftsToStart(_ context.Context, today time.Time) ([]*models.Shift, error) {
	if s.shift.Status == models.ShiftStatusPreparing && !s.shift.StartedAt.After(today) {
		return []*models.Shift{s.shift}, nil
	}
	return nil, nil
}

func (s *schedStore) GetShiftsToComplete(_ context.Context, today time.Time) ([]*models.Shift, error) {
	if s.shift.Status == models.ShiftStatusStarted && s.shift.FinishedAt.Before(today) {
		return []*models.Shift{s.shift}, nil
	}
	return nil, nil
}

func (s *schedStore) UpdateShiftStatusCAS(_ context.Context, shiftID string, from, to models.ShiftStatus) (bool, error) {
	if s.shift.ID == shiftID && s.shift.Status == from {
		s.shift.Status = to
		return true, nil
	}
	return false, nil
}

func (s *schedStore) GetAllTaskIDs(context.Context) ([]string, error) {
	return []string{"task1"}, nil
}

func (s *schedStore) GetMembersForShift(_ context.Context, _ string) ([]*models.Member, error) {
	return s.members, nil
}

func (s *schedStore) GetActiveMembersForShift(_ context.Context, _ string) ([]*models.Member, error) {
	var out []*models.Member
	for _, m := range s.members {
		if m.Status == models.MemberStatusActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *schedStore) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	for _, m := range s.members {
		if m.ID == memberID {
			return m, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *schedStore) SetMemberStatus(_ context.Context, memberID string, status models.MemberStatus) error {
	for _, m := range s.members {
		if m.ID == memberID {
			m.Status = status
		}
	}
	return nil
}

func (s *schedStore) AddLombaryers(context.Context, string, int) error { return nil }

func (s *schedStore) CreateReports(_ context.Context, reports []*models.Report) error {
	if s.createReportsErrs > 0 {
		s.createReportsErrs--
		return errors.New("connection refused")
	}
	s.materializeCalls++
	for _, report := range reports {
		exists := false
		for _, r := range s.reports {
			if r.MemberID == report.MemberID && r.TaskDate.Equal(report.TaskDate) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		s.nextID++
		report.ID = strconv.Itoa(s.nextID)
		s.reports[report.ID] = report
	}
	return nil
}

func (s *schedStore) GetReport(_ context.Context, reportID string) (*models.Report, error) {
	if r, ok := s.reports[reportID]; ok {
		return r, nil
	}
	return nil, models.ErrNotFound
}

func (s *schedStore) GetCurrentReport(_ context.Context, memberID string, taskDate time.Time) (*models.Report, error) {
	for _, r := range s.reports {
		if r.MemberID == memberID && r.TaskDate.Equal(taskDate) {
			return r, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *schedStore) GetReportByPhotoURL(context.Context, string) (*models.Report, error) {
	return nil, nil
}

func (s *schedStore) GetLatestReportsForMember(_ context.Context, memberID string, limit int) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range s.reports {
		if r.MemberID == memberID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskDate.After(out[j].TaskDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *schedStore) GetReportsForShiftByStatus(context.Context, string, models.ReportStatus) ([]*models.Report, error) {
	return nil, nil
}

func (s *schedStore) GetWaitingReports(_ context.Context, shiftID string, taskDate time.Time) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range s.reports {
		if r.ShiftID == shiftID && r.TaskDate.Equal(taskDate) && r.Status == models.ReportStatusWaiting {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *schedStore) UpdateReportStatusCAS(_ context.Context, reportID string, from []models.ReportStatus, to models.ReportStatus, _ map[string]any) (bool, error) {
	r, ok := s.reports[reportID]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if r.Status == status {
			r.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (s *schedStore) CloseOpenReportsForMember(_ context.Context, memberID string) error {
	for _, r := range s.reports {
		if r.MemberID == memberID && r.Status.Accepting() {
			r.Status = models.ReportStatusNotParticipate
		}
	}
	return nil
}

func (s *schedStore) GetTask(context.Context, string) (*models.Task, error) {
	return s.task, nil
}

func newScheduler(store *schedStore) *scheduler.Scheduler {
	cfg := &config.Config{
		SequentialPassesForExclude: 5,
		MaxReportAttempts:          3,
		SendNewTaskHour:            8,
		DailyJobHour:               8,
		ReminderHour:               20,
		MinShiftDays:               1,
		MaxShiftDays:               93,
	}
	notifier := noopNotifier{}
	shiftSvc := shifts.New(cfg, store, notifier)
	reportSvc := reports.New(cfg, store, notifier, nil)
	return scheduler.New(cfg, store, shiftSvc, reportSvc)
}

func TestTick_RunsDailyPipelineOnce(t *testing.T) {
	store := newSchedStore()
	store.members = []*models.Member{
		{ID: "m1", ShiftID: "s1", Status: models.MemberStatusActive, User: &models.User{ID: "u1"}},
	}
	sched := newScheduler(store)
	logger := logrus.WithField("component", "test")

	morning := time.Date(2024, 7, 15, 8, 30, 0, 0, time.UTC)
	sched.Tick(context.Background(), morning, logger)

	require.Len(t, store.reports, 1)
	assert.Equal(t, 1, store.materializeCalls)

	// a later tick the same day must not re-run the pipeline
	sched.Tick(context.Background(), morning.Add(2*time.Hour), logger)
	assert.Equal(t, 1, store.materializeCalls)

	// next day it fires again and skips the existing report
	sched.Tick(context.Background(), morning.AddDate(0, 0, 1), logger)
	assert.Equal(t, 2, store.materializeCalls)
	assert.Len(t, store.reports, 2)
}

func TestTick_ExcludedMemberGetsNoReport(t *testing.T) {
	store := newSchedStore()
	store.members = []*models.Member{
		{ID: "m1", ShiftID: "s1", Status: models.MemberStatusActive, User: &models.User{ID: "u1"}},
	}
	date := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	for day := 1; day <= 5; day++ {
		store.reports[strconv.Itoa(100+day)] = &models.Report{
			ID:       strconv.Itoa(100 + day),
			ShiftID:  "s1",
			MemberID: "m1",
			TaskDate: date.AddDate(0, 0, -day),
			Status:   models.ReportStatusDeclined,
		}
	}
	sched := newScheduler(store)

	sched.Tick(context.Background(), date.Add(9*time.Hour), logrus.WithField("component", "test"))

	assert.Equal(t, models.MemberStatusExcluded, store.members[0].Status)
	for _, r := range store.reports {
		assert.NotEqual(t, date, r.TaskDate, "excluded member must not get today's report")
	}
}

func TestTick_RetriesDailyPipelineAfterFailure(t *testing.T) {
	store := newSchedStore()
	store.members = []*models.Member{
		{ID: "m1", ShiftID: "s1", Status: models.MemberStatusActive, User: &models.User{ID: "u1"}},
	}
	store.startedShiftErrs = 1
	sched := newScheduler(store)
	logger := logrus.WithField("component", "test")

	morning := time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC)
	sched.Tick(context.Background(), morning, logger)
	assert.Empty(t, store.reports, "failed run must not materialize anything")

	// storage is healthy again a minute later: the day is not lost
	sched.Tick(context.Background(), morning.Add(time.Minute), logger)
	require.Len(t, store.reports, 1)
	assert.Equal(t, 1, store.materializeCalls)

	// and once it succeeded the pipeline does not run again that day
	sched.Tick(context.Background(), morning.Add(2*time.Minute), logger)
	assert.Equal(t, 1, store.materializeCalls)
}

func TestTick_RetriesAfterMaterializationFailure(t *testing.T) {
	store := newSchedStore()
	store.members = []*models.Member{
		{ID: "m1", ShiftID: "s1", Status: models.MemberStatusActive, User: &models.User{ID: "u1"}},
	}
	store.createReportsErrs = 1
	sched := newScheduler(store)
	logger := logrus.WithField("component", "test")

	morning := time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC)
	sched.Tick(context.Background(), morning, logger)
	assert.Empty(t, store.reports)

	sched.Tick(context.Background(), morning.Add(time.Minute), logger)
	require.Len(t, store.reports, 1)
}

func TestTick_AutoStartsPreparingShift(t *testing.T) {
	store := newSchedStore()
	store.shift.Status = models.ShiftStatusPreparing
	sched := newScheduler(store)

	sched.Tick(context.Background(), store.shift.StartedAt.Add(6*time.Hour), logrus.WithField("component", "test"))
	assert.Equal(t, models.ShiftStatusStarted, store.shift.Status)
}
