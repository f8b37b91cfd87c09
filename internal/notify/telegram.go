package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/storage"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Telegram sends templated messages through the shared bot connection and
// records every attempt in the message history.
type Telegram struct {
	bot     telebot.API
	storage *storage.Storage
}

func NewTelegram(bot telebot.API, storage *storage.Storage) *Telegram {
	return &Telegram{bot: bot, storage: storage}
}

func (t *Telegram) Notify(ctx context.Context, user *models.User, template models.MessageTemplate, payload Payload) error {
	text := render(user, template, payload)

	_, sendErr := t.bot.Send(&telebot.User{ID: user.TelegramID}, text)

	if err := t.storage.AddMessageHistory(ctx, &models.MessageHistory{
		UserID:    user.ID,
		Template:  template,
		Text:      text,
		Delivered: sendErr == nil,
	}); err != nil {
		logrus.Errorf("failed to record message history for user %s: %v", user.ID, err)
	}

	if sendErr == nil {
		return nil
	}

	if errors.Is(sendErr, telebot.ErrBlockedByUser) || errors.Is(sendErr, telebot.ErrUserIsDeactivated) {
		if err := t.storage.SetUserTelegramBlocked(ctx, user.ID, true); err != nil {
			logrus.Errorf("failed to flag user %s as blocked: %v", user.ID, err)
		}
	}

	return fmt.Errorf("%w: sending %q to user %s: %v", models.ErrNotifyFailed, template, user.ID, sendErr)
}

func render(user *models.User, template models.MessageTemplate, p Payload) string {
	switch template {
	case models.TemplateRegistrationConfirmed:
		return fmt.Sprintf(
			"%s, your application for the %q shift has been received. We will get back to you after review.",
			user.Name, p.ShiftTitle,
		)
	case models.TemplateRequestApproved:
		return fmt.Sprintf(
			"%s, welcome to the %q shift! You will receive a new task every morning.",
			user.Name, p.ShiftTitle,
		)
	case models.TemplateRequestDeclined:
		if p.Reason != "" {
			return fmt.Sprintf("%s, unfortunately your application was declined: %s", user.Name, p.Reason)
		}
		return fmt.Sprintf("%s, unfortunately your application was declined.", user.Name)
	case models.TemplateTaskNew:
		return fmt.Sprintf(
			"Today's task:\n%s\n%s\nSend a photo report when you are done.",
			p.TaskDescription, p.TaskURL,
		)
	case models.TemplateTaskAccepted:
		return fmt.Sprintf(
			"Your report has been approved, you earned a lombaryer! Balance: %d.",
			p.Lombaryers,
		)
	case models.TemplateTaskDeclined:
		return "Your report was declined. Check the task description and try again tomorrow."
	case models.TemplateTaskReminder:
		return "You have not sent today's report yet. There is still time!"
	case models.TemplateExcludedFromShift:
		return fmt.Sprintf(
			"%s, you missed too many tasks in a row and have been excluded from the shift.",
			user.Name,
		)
	case models.TemplateShiftFinished:
		return strings.ReplaceAll(
			p.FinalMessage,
			"{numbers_lombaryers}",
			strconv.Itoa(p.Lombaryers),
		)
	case models.TemplateShiftCancelled:
		return fmt.Sprintf("The %q shift has been cancelled.", p.ShiftTitle)
	}
	return ""
}
