package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	availabilityCache "github.com/m04kA/SMC-DetailingService/internal/infra/cache/availability"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	blackoutRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blackout"
	notifierClient "github.com/m04kA/SMC-DetailingService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-DetailingService/internal/service/availability"
	blackoutsService "github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/internal/service/window"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

// App зависимости, общие для всех команд
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Dialect sqlbuilder.Dialect
	Log     *logger.Logger
	Out     io.Writer

	Availability *availabilityService.Calculator
	Appointments *appointmentsService.Service
	Blackouts    *blackoutsService.Service
	Auth         *middleware.Authenticator

	closers []func() error
}

func newApp(configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Логи CLI пишутся только в файл, чтобы не смешиваться с выводом команд
	log := logger.NewNop()
	if cfg.Logs.File != "" {
		log, err = logger.New(cfg.Logs.File, cfg.Logs.Level)
		if err != nil {
			return nil, err
		}
	}

	dialect, err := sqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(dialect, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Dialect: dialect,
		Log:     log,
		Out:     os.Stdout,
		closers: []func() error{log.Close, db.Close},
	}

	wrappedDB := dbmetrics.Wrap(db, nil)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, dialect)
	blackoutRepository := blackoutRepo.NewRepository(wrappedDB, dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB, dialect)

	// Изменения из CLI должны сбрасывать тот же кэш, что читает API
	var cache availabilityService.Cache = availabilityCache.NoopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.CacheDB,
		})
		app.closers = append([]func() error{redisClient.Close}, app.closers...)
		cache = availabilityCache.NewRedisCache(redisClient, cfg.Redis.CacheTTLDuration())
	}

	var notifier appointmentsService.Notifier = notifierClient.Noop{}
	if cfg.Notifications.Enabled {
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.QueueDB,
		})
		app.closers = append([]func() error{queueClient.Close}, app.closers...)
		notifier = notifierClient.NewClient(queueClient, log)
	}

	var noMetrics *metrics.Metrics
	timeProvider := &window.RealTimeProvider{}

	app.Availability = availabilityService.NewCalculator(blackoutRepository, appointmentRepository, cache, txMgr, noMetrics, log)
	app.Appointments = appointmentsService.NewService(appointmentRepository, app.Availability, notifier, noMetrics, timeProvider, log)
	app.Blackouts = blackoutsService.NewService(
		blackoutRepository,
		window.NewPolicy(cfg.Booking.Location(), timeProvider),
		app.Availability,
		timeProvider,
		log,
	)
	app.Auth = middleware.NewAuthenticator(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.Leeway)*time.Second, log)

	return app, nil
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
}
