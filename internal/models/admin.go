package models

import "time"

type AdminRole string

const (
	AdminRoleAdministrator AdminRole = "administrator"
	AdminRolePsychologist  AdminRole = "psychologist"
	AdminRoleExpert        AdminRole = "expert"
)

type AdminStatus string

const (
	AdminStatusActive  AdminStatus = "active"
	AdminStatusBlocked AdminStatus = "blocked"
)

type Administrator struct {
	ID      string `gorm:"type:uuid;primaryKey"`
	Name    string
	Surname string
	Email   string `gorm:"uniqueIndex"`

	Role   AdminRole   `gorm:"default:expert"`
	Status AdminStatus `gorm:"default:active"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
