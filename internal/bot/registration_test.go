package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationDialog(t *testing.T) {
	s := newSessions()
	sess := s.start(42)

	answers := []string{"Ivan", "Petrov", "21.03.2005", "Pskov", "+79991234567"}
	for _, answer := range answers {
		_, ok := sess.feed(answer)
		require.True(t, ok, "answer %q must be accepted", answer)
	}

	require.True(t, sess.done())
	assert.Equal(t, int64(42), sess.form.TelegramID)
	assert.Equal(t, "Ivan", sess.form.Name)
	assert.Equal(t, "Petrov", sess.form.Surname)
	assert.Equal(t, time.Date(2005, 3, 21, 0, 0, 0, 0, time.UTC), sess.form.DateOfBirth)
	assert.Equal(t, "Pskov", sess.form.City)
	assert.Equal(t, "+79991234567", sess.form.PhoneNumber)
}

func TestRegistrationDialog_BadDateReprompts(t *testing.T) {
	s := newSessions()
	sess := s.start(42)

	sess.feed("Ivan")
	sess.feed("Petrov")

	_, ok := sess.feed("march 21")
	assert.False(t, ok)
	assert.False(t, sess.done())

	_, ok = sess.feed("21.03.2005")
	assert.True(t, ok)
}

func TestSessions_StartReplacesExisting(t *testing.T) {
	s := newSessions()
	first := s.start(42)
	first.feed("Ivan")

	second := s.start(42)
	got, ok := s.get(42)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, stepName, got.step)

	s.drop(42)
	_, ok = s.get(42)
	assert.False(t, ok)
}
