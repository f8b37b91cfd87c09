package models

import "time"

type Task struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	URL         string
	Description string

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
