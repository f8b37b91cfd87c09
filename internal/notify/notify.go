package notify

import (
	"context"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
)

// Payload carries the substitutable fields of a template. The dispatcher
// never composes domain text beyond these substitutions.
type Payload struct {
	Reason          string
	Lombaryers      int
	TaskDescription string
	TaskURL         string
	FinalMessage    string
	ShiftTitle      string
}

// Notifier delivers a templated message to a user. Delivery is best-effort
// relative to domain state: callers log failures and move on.
type Notifier interface {
	Notify(ctx context.Context, user *models.User, template models.MessageTemplate, payload Payload) error
}
