package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pastDate(daysAgo int) time.Time {
	return taskDate().AddDate(0, 0, -daysAgo)
}

func TestExcludeLaggingMembers_FiveDeclines(t *testing.T) {
	store := newFakeReportStore()
	member := store.addMember("m1", "s1", models.MemberStatusActive)
	for day := 1; day <= 5; day++ {
		store.addReport("m1", pastDate(day), models.ReportStatusDeclined)
	}
	notifier := &fakeNotifier{}
	svc := reports.New(testConfig(), store, notifier, nil)

	require.NoError(t, svc.ExcludeLaggingMembers(context.Background(), "s1", taskDate()))

	assert.Equal(t, models.MemberStatusExcluded, member.Status)
	assert.Equal(t, 1, notifier.countTemplate(models.TemplateExcludedFromShift),
		"exactly one exclusion notification")
}

func TestExcludeLaggingMembers_ApprovedBreaksStreak(t *testing.T) {
	store := newFakeReportStore()
	member := store.addMember("m1", "s1", models.MemberStatusActive)
	store.addReport("m1", pastDate(1), models.ReportStatusDeclined)
	store.addReport("m1", pastDate(2), models.ReportStatusSkipped)
	store.addReport("m1", pastDate(3), models.ReportStatusApproved)
	store.addReport("m1", pastDate(4), models.ReportStatusDeclined)
	store.addReport("m1", pastDate(5), models.ReportStatusDeclined)
	store.addReport("m1", pastDate(6), models.ReportStatusDeclined)
	svc := reports.New(testConfig(), store, &fakeNotifier{}, nil)

	require.NoError(t, svc.ExcludeLaggingMembers(context.Background(), "s1", taskDate()))
	assert.Equal(t, models.MemberStatusActive, member.Status)
}

func TestExcludeLaggingMembers_OverdueWaitingCounts(t *testing.T) {
	store := newFakeReportStore()
	member := store.addMember("m1", "s1", models.MemberStatusActive)
	// today's report is open and must not count either way
	store.addReport("m1", taskDate(), models.ReportStatusWaiting)
	store.addReport("m1", pastDate(1), models.ReportStatusWaiting)
	store.addReport("m1", pastDate(2), models.ReportStatusWaiting)
	store.addReport("m1", pastDate(3), models.ReportStatusDeclined)
	store.addReport("m1", pastDate(4), models.ReportStatusSkipped)
	store.addReport("m1", pastDate(5), models.ReportStatusDeclined)
	svc := reports.New(testConfig(), store, &fakeNotifier{}, nil)

	require.NoError(t, svc.ExcludeLaggingMembers(context.Background(), "s1", taskDate()))

	assert.Equal(t, models.MemberStatusExcluded, member.Status)
	assert.Equal(t, models.ReportStatusNotParticipate, currentStatus(store, "m1", taskDate()),
		"open reports are closed on exclusion")
}

func TestExcludeLaggingMembers_FourPassesNotEnough(t *testing.T) {
	store := newFakeReportStore()
	member := store.addMember("m1", "s1", models.MemberStatusActive)
	for day := 1; day <= 4; day++ {
		store.addReport("m1", pastDate(day), models.ReportStatusDeclined)
	}
	svc := reports.New(testConfig(), store, &fakeNotifier{}, nil)

	require.NoError(t, svc.ExcludeLaggingMembers(context.Background(), "s1", taskDate()))
	assert.Equal(t, models.MemberStatusActive, member.Status)
}

func TestExcludeLaggingMembers_ReviewingBreaksStreak(t *testing.T) {
	store := newFakeReportStore()
	member := store.addMember("m1", "s1", models.MemberStatusActive)
	store.addReport("m1", pastDate(1), models.ReportStatusReviewing)
	for day := 2; day <= 6; day++ {
		store.addReport("m1", pastDate(day), models.ReportStatusDeclined)
	}
	svc := reports.New(testConfig(), store, &fakeNotifier{}, nil)

	require.NoError(t, svc.ExcludeLaggingMembers(context.Background(), "s1", taskDate()))
	assert.Equal(t, models.MemberStatusActive, member.Status)
}

func TestMembersWithNoReport(t *testing.T) {
	store := newFakeReportStore()
	store.addMember("m1", "s1", models.MemberStatusActive)
	store.addMember("m2", "s1", models.MemberStatusActive)
	store.addReport("m1", taskDate(), models.ReportStatusWaiting)
	report := store.addReport("m2", taskDate(), models.ReportStatusWaiting)
	report.Status = models.ReportStatusReviewing
	svc := reports.New(testConfig(), store, &fakeNotifier{}, nil)

	members, err := svc.MembersWithNoReport(context.Background(), "s1", taskDate())
	require.NoError(t, err)

	require.Len(t, members, 1)
	assert.Equal(t, "m1", members[0].ID)
}

func TestSendReminders(t *testing.T) {
	store := newFakeReportStore()
	store.addMember("m1", "s1", models.MemberStatusActive)
	store.addReport("m1", taskDate(), models.ReportStatusWaiting)
	notifier := &fakeNotifier{}
	svc := reports.New(testConfig(), store, notifier, nil)

	require.NoError(t, svc.SendReminders(context.Background(), "s1", taskDate()))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, models.TemplateTaskReminder, notifier.sent[0].template)
}

func currentStatus(store *fakeReportStore, memberID string, date time.Time) models.ReportStatus {
	for _, r := range store.reports {
		if r.MemberID == memberID && r.TaskDate.Equal(date) {
			return r.Status
		}
	}
	return ""
}
