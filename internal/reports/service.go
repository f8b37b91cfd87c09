package reports

import (
	"context"
	"errors"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

type Storage interface {
	GetActiveMembersForShift(ctx context.Context, shiftID string) ([]*models.Member, error)
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	SetMemberStatus(ctx context.Context, memberID string, status models.MemberStatus) error
	AddLombaryers(ctx context.Context, memberID string, amount int) error

	CreateReports(ctx context.Context, reports []*models.Report) error
	GetReport(ctx context.Context, reportID string) (*models.Report, error)
	GetCurrentReport(ctx context.Context, memberID string, taskDate time.Time) (*models.Report, error)
	GetReportByPhotoURL(ctx context.Context, photoURL string) (*models.Report, error)
	GetLatestReportsForMember(ctx context.Context, memberID string, limit int) ([]*models.Report, error)
	GetReportsForShiftByStatus(ctx context.Context, shiftID string, status models.ReportStatus) ([]*models.Report, error)
	GetWaitingReports(ctx context.Context, shiftID string, taskDate time.Time) ([]*models.Report, error)
	UpdateReportStatusCAS(ctx context.Context, reportID string, from []models.ReportStatus, to models.ReportStatus, extra map[string]any) (bool, error)
	CloseOpenReportsForMember(ctx context.Context, memberID string) error

	GetTask(ctx context.Context, taskID string) (*models.Task, error)
}

type Service struct {
	config   *config.Config
	storage  Storage
	notifier notify.Notifier
	photos   PhotoChecker
}

func New(cfg *config.Config, storage Storage, notifier notify.Notifier, photos PhotoChecker) *Service {
	return &Service{
		config:   cfg,
		storage:  storage,
		notifier: notifier,
		photos:   photos,
	}
}

// MaterializeDailyReports bulk-creates the day's waiting reports for every
// active member. Safe to re-run: members with an existing report for the
// date are skipped.
func (s *Service) MaterializeDailyReports(ctx context.Context, shift *models.Shift, date time.Time) error {
	taskID, ok := shift.TaskForDate(date)
	if !ok {
		return models.ErrNoCurrentTask
	}

	members, err := s.storage.GetActiveMembersForShift(ctx, shift.ID)
	if err != nil {
		return err
	}

	reports := make([]*models.Report, 0, len(members))
	for _, member := range members {
		reports = append(reports, &models.Report{
			ShiftID:  shift.ID,
			MemberID: member.ID,
			TaskID:   taskID,
			TaskDate: date,
			Status:   models.ReportStatusWaiting,
		})
	}

	if err := s.storage.CreateReports(ctx, reports); err != nil {
		return err
	}

	logrus.Infof("materialized %d reports for shift %s on %s", len(reports), shift.ID, date.Format(time.DateOnly))
	return nil
}

// BroadcastDailyTask sends the day's task to every active member.
func (s *Service) BroadcastDailyTask(ctx context.Context, shift *models.Shift, date time.Time) error {
	taskID, ok := shift.TaskForDate(date)
	if !ok {
		return models.ErrNoCurrentTask
	}

	task, err := s.storage.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	members, err := s.storage.GetActiveMembersForShift(ctx, shift.ID)
	if err != nil {
		return err
	}

	for _, member := range members {
		if member.User == nil || member.User.TelegramBlocked {
			continue
		}
		if err := s.notifier.Notify(ctx, member.User, models.TemplateTaskNew, notify.Payload{
			TaskDescription: task.Description,
			TaskURL:         task.URL,
		}); err != nil {
			logrus.Errorf("failed to send task to member %s: %v", member.ID, err)
		}
	}

	return nil
}

// SubmitPhoto accepts a member's photo for the current task date. Guard
// order is fixed: report exists, status accepting, photo not reused,
// attempts left, url reachable. The terminal-status guard fires before the
// attempt counter.
func (s *Service) SubmitPhoto(ctx context.Context, memberID, photoURL string, now time.Time) (*models.Report, error) {
	taskDate := s.config.CurrentTaskDate(now)

	report, err := s.storage.GetCurrentReport(ctx, memberID, taskDate)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoCurrentTask
		}
		return nil, err
	}

	if !report.Status.Accepting() {
		return nil, models.ErrReportNotAccepting
	}

	dup, err := s.storage.GetReportByPhotoURL(ctx, photoURL)
	if err != nil {
		return nil, err
	}
	if dup != nil {
		return nil, models.ErrDuplicatePhoto
	}

	if report.NumberAttempt >= s.config.MaxReportAttempts {
		return nil, models.ErrAttemptsExceeded
	}

	if s.photos != nil {
		if err := s.photos.Check(ctx, photoURL); err != nil {
			return nil, err
		}
	}

	uploadedAt := now
	ok, err := s.storage.UpdateReportStatusCAS(
		ctx,
		report.ID,
		[]models.ReportStatus{models.ReportStatusWaiting, models.ReportStatusReviewing},
		models.ReportStatusReviewing,
		map[string]any{
			"report_url":     photoURL,
			"number_attempt": report.NumberAttempt + 1,
			"uploaded_at":    uploadedAt,
		},
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrReportNotAccepting
	}

	report.Status = models.ReportStatusReviewing
	report.ReportURL = photoURL
	report.NumberAttempt++
	report.UploadedAt = &uploadedAt
	return report, nil
}

// Approve accepts a reviewed photo and credits exactly one lombaryer.
func (s *Service) Approve(ctx context.Context, reportID, adminID string) error {
	report, err := s.review(ctx, reportID, models.ReportStatusApproved, adminID)
	if err != nil {
		return err
	}

	if err := s.storage.AddLombaryers(ctx, report.MemberID, 1); err != nil {
		return err
	}

	member, err := s.storage.GetMember(ctx, report.MemberID)
	if err != nil {
		return err
	}
	if member.User != nil {
		if err := s.notifier.Notify(ctx, member.User, models.TemplateTaskAccepted, notify.Payload{
			Lombaryers: member.NumbersLombaryers,
		}); err != nil {
			logrus.Errorf("failed to notify member %s about approval: %v", member.ID, err)
		}
	}

	return nil
}

// Decline rejects a reviewed photo. The decision is final: the report is
// terminal and takes no further submissions; the member's next chance is
// the next day's task.
func (s *Service) Decline(ctx context.Context, reportID, adminID string) error {
	report, err := s.review(ctx, reportID, models.ReportStatusDeclined, adminID)
	if err != nil {
		return err
	}

	member, err := s.storage.GetMember(ctx, report.MemberID)
	if err != nil {
		return err
	}
	if member.User != nil {
		if err := s.notifier.Notify(ctx, member.User, models.TemplateTaskDeclined, notify.Payload{}); err != nil {
			logrus.Errorf("failed to notify member %s about decline: %v", member.ID, err)
		}
	}

	return nil
}

// Skip marks the member's current waiting report as explicitly skipped.
func (s *Service) Skip(ctx context.Context, memberID string, now time.Time) error {
	taskDate := s.config.CurrentTaskDate(now)

	report, err := s.storage.GetCurrentReport(ctx, memberID, taskDate)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNoCurrentTask
		}
		return err
	}

	if err := report.Status.Transition(models.ReportStatusSkipped); err != nil {
		return err
	}

	ok, err := s.storage.UpdateReportStatusCAS(
		ctx,
		report.ID,
		[]models.ReportStatus{models.ReportStatusWaiting},
		models.ReportStatusSkipped,
		nil,
	)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrReportNotAccepting
	}
	return nil
}

func (s *Service) Get(ctx context.Context, reportID string) (*models.Report, error) {
	return s.storage.GetReport(ctx, reportID)
}

func (s *Service) ListReviewing(ctx context.Context, shiftID string) ([]*models.Report, error) {
	return s.storage.GetReportsForShiftByStatus(ctx, shiftID, models.ReportStatusReviewing)
}

// review runs the shared terminal/awaiting guards and the CAS flip.
// Guard order: terminal first (AlreadyReviewed), then waiting
// (AwaitingPhoto); of two concurrent reviewers exactly one wins.
func (s *Service) review(ctx context.Context, reportID string, to models.ReportStatus, adminID string) (*models.Report, error) {
	report, err := s.storage.GetReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if report.Status.Terminal() {
		return nil, models.AlreadyReviewed(report.Status)
	}
	if report.Status == models.ReportStatusWaiting {
		return nil, models.ErrAwaitingPhoto
	}
	if err := report.Status.Transition(to); err != nil {
		return nil, err
	}

	reviewedAt := time.Now()
	ok, err := s.storage.UpdateReportStatusCAS(
		ctx,
		reportID,
		[]models.ReportStatus{models.ReportStatusReviewing},
		to,
		map[string]any{
			"reviewed_at": reviewedAt,
			"updated_by":  adminID,
		},
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.storage.GetReport(ctx, reportID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.ReportStatusWaiting {
			return nil, models.ErrAwaitingPhoto
		}
		return nil, models.AlreadyReviewed(current.Status)
	}

	report.Status = to
	report.ReviewedAt = &reviewedAt
	report.UpdatedBy = adminID
	return report, nil
}
