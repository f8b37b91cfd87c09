package models

import "time"

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusVerified UserStatus = "verified"
	UserStatusDeclined UserStatus = "declined"
)

type User struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string
	Surname     string
	DateOfBirth time.Time `gorm:"type:date"`
	City        string
	PhoneNumber string `gorm:"uniqueIndex"`
	TelegramID  int64  `gorm:"uniqueIndex"`

	Status          UserStatus `gorm:"default:pending"`
	TelegramBlocked bool       `gorm:"default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}
