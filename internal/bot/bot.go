package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/models"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/requests"
	"gopkg.in/telebot.v4"
)

type Storage interface {
	GetStartedShift(ctx context.Context) (*models.Shift, error)
	GetActiveMemberByTelegramID(ctx context.Context, telegramID int64, shiftID string) (*models.Member, error)
}

// Monitor handles participant-facing telegram updates: the registration
// dialog, photo report submissions, skips and balance queries.
type Monitor struct {
	config   *config.Config
	storage  Storage
	requests *requests.Service
	reports  *reports.Service
	bot      telebot.API

	sessions *sessions
}

func New(cfg *config.Config, storage Storage, requestSvc *requests.Service, reportSvc *reports.Service, bot telebot.API) *Monitor {
	return &Monitor{
		config:   cfg,
		storage:  storage,
		requests: requestSvc,
		reports:  reportSvc,
		bot:      bot,
		sessions: newSessions(),
	}
}

func (m *Monitor) HandleStart(c telebot.Context) error {
	uc := m.updateContext(c)
	defer uc.cancel()

	m.sessions.start(c.Sender().ID)
	uc.L().Infof("user %d started registration", c.Sender().ID)
	return c.Send("Hi! Let's get you registered for the shift. What's your name?")
}

func (m *Monitor) HandleText(c telebot.Context) error {
	uc := m.updateContext(c)
	defer uc.cancel()

	sess, ok := m.sessions.get(c.Sender().ID)
	if !ok {
		return c.Send("Send /start to register, a photo to report today's task, or /help.")
	}

	prompt, accepted := sess.feed(c.Text())
	if !accepted {
		return c.Send(prompt)
	}
	if !sess.done() {
		return c.Send(prompt)
	}

	m.sessions.drop(c.Sender().ID)

	if _, err := m.requests.Register(uc, sess.form); err != nil {
		uc.L().Errorf("registration failed: %v", err)
		return c.Send(replyForError(err))
	}

	return nil // confirmation arrives through the dispatcher
}

func (m *Monitor) HandlePhoto(c telebot.Context) error {
	uc := m.updateContext(c)
	defer uc.cancel()

	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	member, err := m.currentMember(uc)
	if err != nil {
		uc.L().Errorf("resolving member: %v", err)
		return c.Send(replyForError(err))
	}

	photoFile, err := m.bot.FileByID(photo.FileID)
	if err != nil {
		uc.L().Errorf("resolving photo url: %v", err)
		return c.Send("Could not read the photo, please try again.")
	}
	photoURL := "https://api.telegram.org/file/bot" + m.config.TelegramToken + "/" + photoFile.FilePath

	if _, err := m.reports.SubmitPhoto(uc, member.ID, photoURL, time.Now()); err != nil {
		uc.L().Errorf("photo submission rejected: %v", err)
		return c.Send(replyForError(err))
	}

	uc.L().Infof("member %s submitted a photo report", member.ID)
	return c.Send("Photo received! An administrator will review it soon.")
}

func (m *Monitor) HandleSkip(c telebot.Context) error {
	uc := m.updateContext(c)
	defer uc.cancel()

	member, err := m.currentMember(uc)
	if err != nil {
		return c.Send(replyForError(err))
	}

	if err := m.reports.Skip(uc, member.ID, time.Now()); err != nil {
		uc.L().Errorf("skip rejected: %v", err)
		return c.Send(replyForError(err))
	}

	return c.Send("Today's task is skipped. See you tomorrow!")
}

func (m *Monitor) HandleBalance(c telebot.Context) error {
	uc := m.updateContext(c)
	defer uc.cancel()

	member, err := m.currentMember(uc)
	if err != nil {
		return c.Send(replyForError(err))
	}

	return c.Send(fmt.Sprintf("You have earned %d lombaryers.", member.NumbersLombaryers))
}

func (m *Monitor) HandleHelp(c telebot.Context) error {
	return c.Send(
		"/start — register for the shift\n" +
			"photo — submit today's report\n" +
			"/skip — skip today's task\n" +
			"/balance — your lombaryers",
	)
}

func (m *Monitor) currentMember(uc *updateContext) (*models.Member, error) {
	shift, err := m.storage.GetStartedShift(uc)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNoOpenShift
		}
		return nil, err
	}
	return m.storage.GetActiveMemberByTelegramID(uc, uc.Sender().ID, shift.ID)
}

type updateContext struct {
	*UpdateContext
	cancel context.CancelFunc
}

func (m *Monitor) updateContext(c telebot.Context) *updateContext {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.BotHandleTimeout)
	return &updateContext{
		UpdateContext: NewUpdateContext(ctx, c),
		cancel:        cancel,
	}
}

func replyForError(err error) string {
	var invalid *models.InvalidTransitionError
	if errors.As(err, &invalid) {
		return "Today's report is already under review and cannot be changed."
	}

	switch {
	case errors.Is(err, models.ErrNoOpenShift):
		return "There is no active shift right now."
	case errors.Is(err, models.ErrNotFound):
		return "You are not participating in the current shift."
	case errors.Is(err, models.ErrDuplicatePendingRequest):
		return "Your application is already waiting for review."
	case errors.Is(err, models.ErrNoCurrentTask):
		return "There is no task for you today."
	case errors.Is(err, models.ErrReportNotAccepting):
		return "Today's report has already been reviewed."
	case errors.Is(err, models.ErrDuplicatePhoto):
		return "This photo was already used, please send a new one."
	case errors.Is(err, models.ErrAttemptsExceeded):
		return "You have used all submission attempts for today."
	case errors.Is(err, models.ErrPhotoUnavailable):
		return "The photo could not be downloaded, please try again."
	}
	return "Something went wrong, please try again later."
}
