package reports_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
)

type sentMessage struct {
	userID   string
	template models.MessageTemplate
	payload  notify.Payload
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

func (f *fakeNotifier) Notify(_ context.Context, user *models.User, template models.MessageTemplate, payload notify.Payload) error {
	f.sent = append(f.sent, sentMessage{userID: user.ID, template: template, payload: payload})
	return f.err
}

func (f *fakeNotifier) countTemplate(template models.MessageTemplate) int {
	n := 0
	for _, msg := range f.sent {
		if msg.template == template {
			n++
		}
	}
	return n
}

type rejectAllPhotos struct{}

func (rejectAllPhotos) Check(context.Context, string) error {
	return models.ErrPhotoUnavailable
}

// fakeReportStore emulates the storage contract including the unique
// (member, date) index and the CAS status updates.
type fakeReportStore struct {
	members map[string]*models.Member
	reports map[string]*models.Report
	tasks   map[string]*models.Task
	casFail bool

	nextID int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{
		members: map[string]*models.Member{},
		reports: map[string]*models.Report{},
		tasks:   map[string]*models.Task{},
	}
}

func (f *fakeReportStore) addMember(id, shiftID string, status models.MemberStatus) *models.Member {
	member := &models.Member{
		ID:      id,
		UserID:  "user-" + id,
		ShiftID: shiftID,
		Status:  status,
		User:    &models.User{ID: "user-" + id, TelegramID: int64(len(f.members) + 1)},
	}
	f.members[id] = member
	return member
}

func (f *fakeReportStore) addReport(memberID string, date time.Time, status models.ReportStatus) *models.Report {
	f.nextID++
	report := &models.Report{
		ID:       fmt.Sprintf("rep%d", f.nextID),
		ShiftID:  "s1",
		MemberID: memberID,
		TaskDate: date,
		Status:   status,
	}
	f.reports[report.ID] = report
	return report
}

func (f *fakeReportStore) GetActiveMembersForShift(_ context.Context, shiftID string) ([]*models.Member, error) {
	var out []*models.Member
	for _, m := range f.members {
		if m.ShiftID == shiftID && m.Status == models.MemberStatusActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReportStore) GetMember(_ context.Context, memberID string) (*models.Member, error) {
	member, ok := f.members[memberID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return member, nil
}

func (f *fakeReportStore) SetMemberStatus(_ context.Context, memberID string, status models.MemberStatus) error {
	if m, ok := f.members[memberID]; ok {
		m.Status = status
	}
	return nil
}

func (f *fakeReportStore) AddLombaryers(_ context.Context, memberID string, amount int) error {
	if m, ok := f.members[memberID]; ok {
		m.NumbersLombaryers += amount
	}
	return nil
}

func (f *fakeReportStore) CreateReports(_ context.Context, reports []*models.Report) error {
	for _, report := range reports {
		if f.hasReportFor(report.MemberID, report.TaskDate) {
			continue
		}
		f.nextID++
		report.ID = fmt.Sprintf("rep%d", f.nextID)
		f.reports[report.ID] = report
	}
	return nil
}

func (f *fakeReportStore) hasReportFor(memberID string, date time.Time) bool {
	for _, r := range f.reports {
		if r.MemberID == memberID && r.TaskDate.Equal(date) {
			return true
		}
	}
	return false
}

func (f *fakeReportStore) GetReport(_ context.Context, reportID string) (*models.Report, error) {
	report, ok := f.reports[reportID]
	if !ok {
		return nil, models.ErrNotFound
	}
	copy := *report
	return &copy, nil
}

func (f *fakeReportStore) GetCurrentReport(_ context.Context, memberID string, taskDate time.Time) (*models.Report, error) {
	for _, r := range f.reports {
		if r.MemberID == memberID && r.TaskDate.Equal(taskDate) {
			copy := *r
			return &copy, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeReportStore) GetReportByPhotoURL(_ context.Context, photoURL string) (*models.Report, error) {
	for _, r := range f.reports {
		if r.ReportURL != "" && r.ReportURL == photoURL {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeReportStore) GetLatestReportsForMember(_ context.Context, memberID string, limit int) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range f.reports {
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

func (f *fakeReportStore) GetReportsForShiftByStatus(_ context.Context, shiftID string, status models.ReportStatus) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range f.reports {
		if r.ShiftID == shiftID && r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportStore) GetWaitingReports(_ context.Context, shiftID string, taskDate time.Time) ([]*models.Report, error) {
	var out []*models.Report
	for _, r := range f.reports {
		if r.ShiftID == shiftID && r.TaskDate.Equal(taskDate) && r.Status == models.ReportStatusWaiting {
			copy := *r
			copy.Member = f.members[r.MemberID]
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeReportStore) UpdateReportStatusCAS(
	_ context.Context,
	reportID string,
	from []models.ReportStatus,
	to models.ReportStatus,
	extra map[string]any,
) (bool, error) {
	if f.casFail {
		return false, nil
	}
	report, ok := f.reports[reportID]
	if !ok {
		return false, nil
	}

	matched := false
	for _, status := range from {
		if report.Status == status {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}

	report.Status = to
	if url, ok := extra["report_url"].(string); ok {
		report.ReportURL = url
	}
	if attempt, ok := extra["number_attempt"].(int); ok {
		report.NumberAttempt = attempt
	}
	if uploaded, ok := extra["uploaded_at"].(time.Time); ok {
		report.UploadedAt = &uploaded
	}
	if reviewed, ok := extra["reviewed_at"].(time.Time); ok {
		report.ReviewedAt = &reviewed
	}
	if by, ok := extra["updated_by"].(string); ok {
		report.UpdatedBy = by
	}
	return true, nil
}

func (f *fakeReportStore) CloseOpenReportsForMember(_ context.Context, memberID string) error {
	for _, r := range f.reports {
		if r.MemberID == memberID && r.Status.Accepting() {
			r.Status = models.ReportStatusNotParticipate
		}
	}
	return nil
}

func (f *fakeReportStore) GetTask(_ context.Context, taskID string) (*models.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return task, nil
}
