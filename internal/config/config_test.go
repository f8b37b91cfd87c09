package config_test

import (
	"testing"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestCurrentTaskDate(t *testing.T) {
	cfg := &config.Config{SendNewTaskHour: 8}

	morning := time.Date(2024, 7, 15, 7, 59, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC),
		cfg.CurrentTaskDate(morning),
		"before the cutoff hour, today is still yesterday")

	afterCutoff := time.Date(2024, 7, 15, 8, 0, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		cfg.CurrentTaskDate(afterCutoff))

	evening := time.Date(2024, 7, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		cfg.CurrentTaskDate(evening))
}
