package models

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDeclined RequestStatus = "declined"
)

// Request is a user's application to join a shift.
type Request struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	UserID  string `gorm:"type:uuid;index"`
	ShiftID string `gorm:"type:uuid;index"`

	Status        RequestStatus `gorm:"default:pending"`
	DeclineReason string

	User  *User `gorm:"constraint:OnDelete:CASCADE"`
	Shift *Shift

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (s RequestStatus) Reviewed() bool {
	return s != RequestStatusPending
}
