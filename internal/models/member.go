package models

import "time"

type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusExcluded MemberStatus = "excluded"
)

// Member is a user's participation instance in one shift.
type Member struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	UserID  string `gorm:"type:uuid;uniqueIndex:idx_user_shift"`
	ShiftID string `gorm:"type:uuid;uniqueIndex:idx_user_shift"`

	Status            MemberStatus `gorm:"default:active"`
	NumbersLombaryers int          `gorm:"default:0"`

	User  *User  `gorm:"constraint:OnDelete:CASCADE"`
	Shift *Shift

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
