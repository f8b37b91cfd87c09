package main

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/bot"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/config"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/logging"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/notify"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/reports"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/requests"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/scheduler"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/shifts"
	"github.com/Studio-Yandex-Practicum/lomaya-baryery-backend/internal/storage"
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

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.New(db)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	initCtx, migrateCancel := context.WithTimeout(ctx, 10*time.Second)
	defer migrateCancel()

	if err := store.Migrate(initCtx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	b, err := telebot.NewBot(telebot.Settings{
		Token: cfg.TelegramToken,
		Poller: &telebot.LongPoller{
			Timeout:        10 * time.Second,
			AllowedUpdates: []string{"message"},
		},
	})
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	notifier := notify.NewTelegram(b, store)
	shiftSvc := shifts.New(cfg, store, notifier)
	requestSvc := requests.New(cfg, store, notifier)
	reportSvc := reports.New(cfg, store, notifier, reports.NewPhotoChecker(cfg.PhotoCheckTimeout))

	mon := bot.New(cfg, store, requestSvc, reportSvc, b)
	b.Handle("/start", mon.HandleStart)
	b.Handle("/skip", mon.HandleSkip)
	b.Handle("/balance", mon.HandleBalance)
	b.Handle("/help", mon.HandleHelp)
	b.Handle(telebot.OnText, mon.HandleText)
	b.Handle(telebot.OnPhoto, mon.HandlePhoto)

	sched := scheduler.New(cfg, store, shiftSvc, reportSvc)

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Start()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()

	<-ctx.Done()

	b.Stop()

	logrus.Info("waiting for services to finish")
	wg.Wait()
}
