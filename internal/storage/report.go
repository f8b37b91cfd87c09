package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateReports bulk-inserts the day's waiting reports. Members who already
// have a report for the date are skipped via the unique index, so a retried
// scheduler tick is harmless.
func (s *Storage) CreateReports(ctx context.Context, reports []*models.Report) error {
	if len(reports) == 0 {
		return nil
	}
	for _, r := range reports {
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
	}
	if err := s.db.
		WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "shift_id"},
				{Name: "member_id"},
				{Name: "task_date"},
			},
			DoNothing: true,
		}).
		Create(reports).
		Error; err != nil {
		return fmt.Errorf("creating reports: %w", err)
	}
	return nil
}

func (s *Storage) GetReport(ctx context.Context, reportID string) (*models.Report, error) {
	var report models.Report
	if err := s.db.
		WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Where("id = ?", reportID).
		First(&report).
		Error; err != nil {
		return nil, wrapGet(err, "report")
	}
	return &report, nil
}

// GetCurrentReport returns the member's report for the given task date.
func (s *Storage) GetCurrentReport(ctx context.Context, memberID string, taskDate time.Time) (*models.Report, error) {
	var report models.Report
	if err := s.db.
		WithContext(ctx).
		Where("member_id = ? AND task_date = ?", memberID, taskDate).
		First(&report).
		Error; err != nil {
		return nil, wrapGet(err, "current report")
	}
	return &report, nil
}

// GetReportByPhotoURL backs the global photo-reuse guard.
func (s *Storage) GetReportByPhotoURL(ctx context.Context, photoURL string) (*models.Report, error) {
	var report models.Report
	if err := s.db.
		WithContext(ctx).
		Where("report_url = ?", photoURL).
		First(&report).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting report by photo url: %w", err)
	}
	return &report, nil
}

func (s *Storage) GetLatestReportsForMember(ctx context.Context, memberID string, limit int) ([]*models.Report, error) {
	var reports []*models.Report
	if err := s.db.
		WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("task_date DESC").
		Limit(limit).
		Find(&reports).
		Error; err != nil {
		return nil, fmt.Errorf("getting latest reports: %w", err)
	}
	return reports, nil
}

func (s *Storage) GetReportsForShiftByStatus(ctx context.Context, shiftID string, status models.ReportStatus) ([]*models.Report, error) {
	var reports []*models.Report
	if err := s.db.
		WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Where("shift_id = ? AND status = ?", shiftID, status).
		Order("task_date").
		Find(&reports).
		Error; err != nil {
		return nil, fmt.Errorf("getting reports by status: %w", err)
	}
	return reports, nil
}

// GetWaitingReports returns the shift's still-waiting reports for a date,
// members preloaded, for reminder broadcasts.
func (s *Storage) GetWaitingReports(ctx context.Context, shiftID string, taskDate time.Time) ([]*models.Report, error) {
	var reports []*models.Report
	if err := s.db.
		WithContext(ctx).
		Preload("Member").
		Preload("Member.User").
		Where(
			"shift_id = ? AND task_date = ? AND status = ?",
			shiftID,
			taskDate,
			models.ReportStatusWaiting,
		).
		Find(&reports).
		Error; err != nil {
		return nil, fmt.Errorf("getting waiting reports: %w", err)
	}
	return reports, nil
}

// UpdateReportStatusCAS performs the read-modify-write as a compare-and-set
// on status: the update applies only while the report still holds one of
// the expected statuses. A concurrent reviewer losing the race sees false.
func (s *Storage) UpdateReportStatusCAS(
	ctx context.Context,
	reportID string,
	from []models.ReportStatus,
	to models.ReportStatus,
	extra map[string]any,
) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := s.db.
		WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status IN ?", reportID, from).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("updating report status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CloseOpenReportsForMember flips an excluded member's unfinished reports
// to not_participate so they drop out of review queues.
func (s *Storage) CloseOpenReportsForMember(ctx context.Context, memberID string) error {
	if err := s.db.
		WithContext(ctx).
		Model(&models.Report{}).
		Where(
			"member_id = ? AND status IN ?",
			memberID,
			[]models.ReportStatus{models.ReportStatusWaiting, models.ReportStatusReviewing},
		).
		Updates(map[string]any{"status": models.ReportStatusNotParticipate}).
		Error; err != nil {
		return fmt.Errorf("closing open reports: %w", err)
	}
	return nil
}
