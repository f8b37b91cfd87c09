package models

import "time"

// Invitation lets a future administrator register through a one-time link.
type Invitation struct {
	Token   string `gorm:"type:uuid;primaryKey"`
	Email   string `gorm:"index"`
	Name    string
	Surname string

	ExpiresAt time.Time
	Used      bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
