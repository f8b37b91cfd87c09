package models

import (
	"strconv"
	"time"
)

type ShiftStatus string

const (
	ShiftStatusPreparing        ShiftStatus = "preparing"
	ShiftStatusStarted          ShiftStatus = "started"
	ShiftStatusReadyForComplete ShiftStatus = "ready_for_complete"
	ShiftStatusFinished         ShiftStatus = "finished"
	ShiftStatusCancelled        ShiftStatus = "cancelled"
)

// TaskMapDays is the size of a shift's day->task rotation. Shifts longer
// than one month reuse the same rotation by day of month.
const TaskMapDays = 31

type Shift struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Title        string
	FinalMessage string

	Status     ShiftStatus `gorm:"index"`
	StartedAt  time.Time   `gorm:"type:date"`
	FinishedAt time.Time   `gorm:"type:date"`

	// Tasks maps day of month ("1".."31") to a task id. Built once at
	// shift creation; later task edits do not touch it.
	Tasks map[string]string `gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TaskForDate resolves the task assigned to a calendar date.
func (s *Shift) TaskForDate(date time.Time) (string, bool) {
	id, ok := s.Tasks[strconv.Itoa(date.Day())]
	return id, ok
}

func (s ShiftStatus) Open() bool {
	return s == ShiftStatusPreparing || s == ShiftStatusStarted
}
