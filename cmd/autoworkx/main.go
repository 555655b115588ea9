package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mrawais006/autoworkx/internal/app"
	"github.com/mrawais006/autoworkx/internal/billing"
	"github.com/mrawais006/autoworkx/internal/bookings"
	"github.com/mrawais006/autoworkx/internal/insights"
	"github.com/mrawais006/autoworkx/internal/masterdata"
	"github.com/mrawais006/autoworkx/internal/observability"
	"github.com/mrawais006/autoworkx/internal/platform/cache"
	"github.com/mrawais006/autoworkx/internal/platform/db"
	"github.com/mrawais006/autoworkx/internal/reminders"
	"github.com/mrawais006/autoworkx/internal/settings"
	"github.com/mrawais006/autoworkx/internal/visits"
	"github.com/mrawais006/autoworkx/jobs"
	"github.com/mrawais006/autoworkx/report"
)

// settingsDefaults adapts the settings service to the ports the visit and
// billing modules consume.
type settingsDefaults struct {
	settings *settings.Service
}

func (a settingsDefaults) Defaults(ctx context.Context) (visits.Defaults, error) {
	current, err := a.settings.Get(ctx)
	if err != nil {
		return visits.Defaults{}, err
	}
	return visits.Defaults{
		TaxRate:       current.DefaultTaxRate,
		ReminderWeeks: current.DefaultReminderWeeks,
		DueDays:       current.InvoiceDueDays,
		PaymentMethod: billing.PaymentMethod(current.DefaultPaymentMethod),
	}, nil
}

func (a settingsDefaults) DefaultPaymentMethod(ctx context.Context) billing.PaymentMethod {
	return billing.PaymentMethod(a.settings.DefaultPaymentMethod(ctx))
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	readCache := cache.NewCache(redisClient, cfg.CacheTTL)
	validate := validator.New(validator.WithRequiredStructEnabled())

	settingsRepo := settings.NewRepository(dbpool)
	settingsService := settings.NewService(settingsRepo, readCache)
	settingsHandler := settings.NewHandler(logger, settingsService)

	defaults := settingsDefaults{settings: settingsService}

	reportClient := report.NewClient(cfg.GotenbergURL, cfg.GotenbergTimeout)
	invoiceRenderer := report.NewInvoiceRenderer(reportClient, settingsService)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo)
	billingHandler := billing.NewHandler(logger, billingService, validate, defaults, invoiceRenderer)

	visitsRepo := visits.NewRepository(dbpool)
	visitsService := visits.NewService(visitsRepo, defaults)
	visitsHandler := visits.NewHandler(logger, visitsService, validate)

	masterdataRepo := masterdata.NewRepository(dbpool)
	masterdataService := masterdata.NewService(masterdataRepo)
	masterdataHandler := masterdata.NewHandler(logger, masterdataService)

	insightsRepo := insights.NewRepository(dbpool)
	insightsService := insights.NewService(insightsRepo, readCache)
	insightsHandler := insights.NewHandler(logger, insightsService)

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

	bookingsRepo := bookings.NewRepository(dbpool)
	bookingsService := bookings.NewService(logger, bookingsRepo, jobClient)
	bookingsHandler := bookings.NewHandler(logger, bookingsService)

	remindersRepo := reminders.NewRepository(dbpool)
	remindersService := reminders.NewService(logger, remindersRepo, &jobs.QueueSender{Client: jobClient}, settingsTemplates{settings: settingsService})
	remindersHandler := reminders.NewHandler(logger, remindersService)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		BillingHandler:    billingHandler,
		VisitsHandler:     visitsHandler,
		MasterDataHandler: masterdataHandler,
		SettingsHandler:   settingsHandler,
		InsightsHandler:   insightsHandler,
		BookingsHandler:   bookingsHandler,
		RemindersHandler:  remindersHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

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
