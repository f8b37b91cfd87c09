package bot

import (
	"sync"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/requests"
)

type regStep int

const (
	stepName regStep = iota
	stepSurname
	stepBirthDate
	stepCity
	stepPhone
	stepDone
)

const birthDateLayout = "02.01.2006"

// regSession is the in-flight registration dialog of one telegram user.
type regSession struct {
	step regStep
	form requests.RegistrationForm
}

// sessions tracks registration dialogs by telegram id. In-memory on
// purpose: an interrupted dialog just starts over with /start.
type sessions struct {
	mu sync.Mutex
	m  map[int64]*regSession
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*regSession)}
}

func (s *sessions) start(telegramID int64) *regSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := &regSession{step: stepName, form: requests.RegistrationForm{TelegramID: telegramID}}
	s.m[telegramID] = sess
	return sess
}

func (s *sessions) get(telegramID int64) (*regSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[telegramID]
	return sess, ok
}

func (s *sessions) drop(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, telegramID)
}

// feed advances the dialog with the user's answer and reports the prompt
// for the next step. ok is false when the answer was rejected.
func (sess *regSession) feed(answer string) (prompt string, ok bool) {
	switch sess.step {
	case stepName:
		sess.form.Name = answer
		sess.step = stepSurname
		return "Your surname?", true
	case stepSurname:
		sess.form.Surname = answer
		sess.step = stepBirthDate
		return "Date of birth (DD.MM.YYYY)?", true
	case stepBirthDate:
		date, err := time.Parse(birthDateLayout, answer)
		if err != nil {
			return "Please send the date as DD.MM.YYYY, e.g. 21.03.2005.", false
		}
		sess.form.DateOfBirth = date
		sess.step = stepCity
		return "Which city are you from?", true
	case stepCity:
		sess.form.City = answer
		sess.step = stepPhone
		return "Your phone number?", true
	case stepPhone:
		sess.form.PhoneNumber = answer
		sess.step = stepDone
		return "", true
	}
	return "", false
}

func (sess *regSession) done() bool {
	return sess.step == stepDone
}
