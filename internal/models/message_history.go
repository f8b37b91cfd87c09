package models

import "time"

type MessageTemplate string

const (
	TemplateRegistrationConfirmed MessageTemplate = "registration_confirmed"
	TemplateRequestApproved       MessageTemplate = "request_approved"
	TemplateRequestDeclined       MessageTemplate = "request_declined"
	TemplateTaskNew               MessageTemplate = "task_new"
	TemplateTaskAccepted          MessageTemplate = "task_accepted"
	TemplateTaskDeclined          MessageTemplate = "task_declined"
	TemplateTaskReminder          MessageTemplate = "task_reminder"
	TemplateExcludedFromShift     MessageTemplate = "excluded_from_shift"
	TemplateShiftFinished         MessageTemplate = "shift_finished"
	TemplateShiftCancelled        MessageTemplate = "shift_cancelled"
)

// MessageHistory keeps a record of every outbound telegram message.
type MessageHistory struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	UserID string `gorm:"type:uuid;index"`

	Template  MessageTemplate
	Text      string
	Delivered bool

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}
