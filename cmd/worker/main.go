package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mrawais006/autoworkx/internal/app"
	"github.com/mrawais006/autoworkx/internal/bookings"
	"github.com/mrawais006/autoworkx/internal/platform/cache"
	"github.com/mrawais006/autoworkx/internal/platform/db"
	"github.com/mrawais006/autoworkx/internal/reminders"
	"github.com/mrawais006/autoworkx/internal/settings"
	"github.com/mrawais006/autoworkx/jobs"
)

// settingsTemplates adapts the settings service to the reminder template port.
type settingsTemplates struct {
	settings *settings.Service
}

func (a settingsTemplates) Templates(ctx context.Context) (string, string) {
	current, err := a.settings.Get(ctx)
	if err != nil {
		return "", ""
	}
	return current.ReminderEmailTemplate, current.ReminderSMSTemplate
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	settingsRepo := settings.NewRepository(pool)
	settingsService := settings.NewService(settingsRepo, cache.NewCache(redisClient, cfg.CacheTTL))

	remindersRepo := reminders.NewRepository(pool)
	remindersService := reminders.NewService(logger, remindersRepo, &jobs.QueueSender{Client: jobClient}, settingsTemplates{settings: settingsService})
	reminderJob := jobs.NewReminderScanJob(remindersService, logger, cfg.ReminderLeadDays)

	bookingsRepo := bookings.NewRepository(pool)
	bookingsService := bookings.NewService(logger, bookingsRepo, jobClient)
	forwarder := bookings.NewForwarder(cfg.BookingWebhookURL, cfg.BookingForwardTimeout)
	bookingJob := jobs.NewBookingForwardJob(bookingsService, forwarder, jobClient, cfg.NotifyEmail, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReminderScan, Handler: reminderJob.Handle},
			{Type: jobs.TaskReminderDispatch, Handler: reminderJob.HandleDispatch},
			{Type: jobs.TaskBookingForward, Handler: bookingJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 8 * * *", Task: jobs.NewReminderScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
