package models

import "time"

type ReportStatus string

const (
	ReportStatusWaiting        ReportStatus = "waiting"
	ReportStatusReviewing      ReportStatus = "reviewing"
	ReportStatusApproved       ReportStatus = "approved"
	ReportStatusDeclined       ReportStatus = "declined"
	ReportStatusSkipped        ReportStatus = "skipped"
	ReportStatusNotParticipate ReportStatus = "not_participate"
)

// Report is one member's task submission for one calendar day.
type Report struct {
	ID       string `gorm:"type:uuid;primaryKey"`
	ShiftID  string `gorm:"type:uuid;uniqueIndex:idx_shift_member_date"`
	MemberID string `gorm:"type:uuid;uniqueIndex:idx_shift_member_date"`
	TaskID   string `gorm:"type:uuid"`

	TaskDate time.Time    `gorm:"type:date;uniqueIndex:idx_shift_member_date"`
	Status   ReportStatus `gorm:"default:waiting"`

	ReportURL     string `gorm:"index"`
	NumberAttempt int    `gorm:"default:0"`
	UploadedAt    *time.Time
	ReviewedAt    *time.Time
	UpdatedBy     string `gorm:"type:uuid"`

	Member *Member `gorm:"constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Terminal reports that never accept another photo or review.
func (s ReportStatus) Terminal() bool {
	switch s {
	case ReportStatusApproved, ReportStatusDeclined, ReportStatusSkipped, ReportStatusNotParticipate:
		return true
	}
	return false
}

func (s ReportStatus) Accepting() bool {
	return s == ReportStatusWaiting || s == ReportStatusReviewing
}
