package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	TelegramToken    string        `mapstructure:"telegram_token"`
	BotHandleTimeout time.Duration `mapstructure:"bot_handle_timeout"`
	HTTPListen       string        `mapstructure:"http_listen"`

	PostgresDSN string `mapstructure:"postgres_dsn"`

	// Domain tunables.
	SequentialPassesForExclude int           `mapstructure:"sequential_passes_for_exclude"`
	MaxReportAttempts          int           `mapstructure:"max_report_attempts"`
	MinShiftDays               int           `mapstructure:"min_shift_days"`
	MaxShiftDays               int           `mapstructure:"max_shift_days"`
	SendNewTaskHour            int           `mapstructure:"send_new_task_hour"`
	DailyJobHour               int           `mapstructure:"daily_job_hour"`
	ReminderHour               int           `mapstructure:"reminder_hour"`
	PhotoCheckTimeout          time.Duration `mapstructure:"photo_check_timeout"`
	InvitationTTL              time.Duration `mapstructure:"invitation_ttl"`
}

func New() *Config {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		logrus.Fatalf("unmarshalling config: %v", err)
	}
	return cfg
}

// CurrentTaskDate shifts the day boundary: before SendNewTaskHour "today"
// still means yesterday's task.
func (c *Config) CurrentTaskDate(now time.Time) time.Time {
	day := now
	if now.Hour() < c.SendNewTaskHour {
		day = now.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

func SetupCommon() {
	viper.SetDefault("http_listen", ":8080")
	viper.SetDefault("bot_handle_timeout", "10s")
	viper.SetDefault("sequential_passes_for_exclude", 5)
	viper.SetDefault("max_report_attempts", 3)
	viper.SetDefault("min_shift_days", 1)
	viper.SetDefault("max_shift_days", 93)
	viper.SetDefault("send_new_task_hour", 8)
	viper.SetDefault("daily_job_hour", 8)
	viper.SetDefault("reminder_hour", 20)
	viper.SetDefault("photo_check_timeout", "10s")
	viper.SetDefault("invitation_ttl", "72h")
	viper.SetEnvPrefix("LOMBARYERY")

	viper.MustBindEnv("telegram_token")
	viper.MustBindEnv("postgres_dsn")
	viper.AutomaticEnv()
}
