package reports

import (
	"context"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/sirupsen/logrus"
)

// ExcludeLaggingMembers drops members with a streak of consecutive passed
// days. Runs before daily materialization so an excluded member never
// receives the new report.
func (s *Service) ExcludeLaggingMembers(ctx context.Context, shiftID string, today time.Time) error {
	members, err := s.storage.GetActiveMembersForShift(ctx, shiftID)
	if err != nil {
		return err
	}

	threshold := s.config.SequentialPassesForExclude

	for _, member := range members {
		// one extra row covers today's not-yet-due report
		latest, err := s.storage.GetLatestReportsForMember(ctx, member.ID, threshold+1)
		if err != nil {
			logrus.Errorf("failed to get reports for member %s: %v", member.ID, err)
			continue
		}

		if passStreak(latest, today) < threshold {
			continue
		}

		if err := s.exclude(ctx, member); err != nil {
			logrus.Errorf("failed to exclude member %s: %v", member.ID, err)
		}
	}

	return nil
}

func (s *Service) exclude(ctx context.Context, member *models.Member) error {
	if err := s.storage.SetMemberStatus(ctx, member.ID, models.MemberStatusExcluded); err != nil {
		return err
	}
	if err := s.storage.CloseOpenReportsForMember(ctx, member.ID); err != nil {
		return err
	}

	logrus.Infof("excluded member %s from shift %s", member.ID, member.ShiftID)

	if member.User != nil {
		if err := s.notifier.Notify(ctx, member.User, models.TemplateExcludedFromShift, notify.Payload{}); err != nil {
			logrus.Errorf("failed to notify excluded member %s: %v", member.ID, err)
		}
	}
	return nil
}

// passStreak counts consecutive passed days over reports ordered newest
// first. Declined, skipped and overdue waiting reports count; an approved
// or reviewing report breaks the streak; today's still-open waiting report
// is ignored.
func passStreak(latest []*models.Report, today time.Time) int {
	streak := 0
	for _, report := range latest {
		switch {
		case report.Status == models.ReportStatusDeclined,
			report.Status == models.ReportStatusSkipped:
			streak++
		case report.Status == models.ReportStatusWaiting && report.TaskDate.Before(today):
			streak++
		case report.Status == models.ReportStatusWaiting:
			continue
		default:
			return streak
		}
	}
	return streak
}

// MembersWithNoReport returns the active members whose report for the date
// is still waiting. Pure read, used for reminder broadcasts.
func (s *Service) MembersWithNoReport(ctx context.Context, shiftID string, date time.Time) ([]*models.Member, error) {
	waiting, err := s.storage.GetWaitingReports(ctx, shiftID, date)
	if err != nil {
		return nil, err
	}

	members := make([]*models.Member, 0, len(waiting))
	for _, report := range waiting {
		if report.Member != nil {
			members = append(members, report.Member)
		}
	}
	return members, nil
}

// SendReminders pings everyone who has not submitted today's report.
func (s *Service) SendReminders(ctx context.Context, shiftID string, date time.Time) error {
	members, err := s.MembersWithNoReport(ctx, shiftID, date)
	if err != nil {
		return err
	}

	for _, member := range members {
		if member.User == nil || member.User.TelegramBlocked {
			continue
		}
		if err := s.notifier.Notify(ctx, member.User, models.TemplateTaskReminder, notify.Payload{}); err != nil {
			logrus.Errorf("failed to remind member %s: %v", member.ID, err)
		}
	}
	return nil
}
