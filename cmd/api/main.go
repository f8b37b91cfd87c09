package main

import (
	"context"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/api"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/logging"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/requests"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	config.SetupCommon()
	logging.Init()

	cfg := config.New()
	logrus.Debugf("config: %+v", cfg)

	bot, err := telebot.NewBot(telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	migrateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Migrate(migrateCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	notifier := notify.NewTelegram(bot, store)
	shiftSvc := shifts.New(cfg, store, notifier)
	requestSvc := requests.New(cfg, store, notifier)
	reportSvc := reports.New(cfg, store, notifier, reports.NewPhotoChecker(cfg.PhotoCheckTimeout))

	service := api.NewService(cfg, store, shiftSvc, requestSvc, reportSvc)

	e := echo.New()
	service.Register(e)
	if err := e.Start(cfg.HTTPListen); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
