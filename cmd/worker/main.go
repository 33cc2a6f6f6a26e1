package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-DetailingService/internal/config"
	notifierClient "github.com/m04kA/SMC-DetailingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-DetailingService/internal/worker/notifications"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/mailer"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
)

// asynqLogger адаптер логгера сервиса к asynq.Logger
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug("%s", fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info("%s", fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn("%s", fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error("%s", fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal("%s", fmt.Sprint(args...)) }

func main() {
	configPath := os.Getenv("DD_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if !cfg.Notifications.Enabled {
		log.Info("Notifications are disabled in %s, worker has nothing to do", configPath)
		return
	}

	log.Info("Starting SMC-DetailingService notification worker...")

	// Метрики worker отдает на отдельном порту
	var metricsCollector *metrics.Metrics
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "-worker")

		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Notifications.MetricsPort),
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Worker metrics exposed at :%d%s", cfg.Notifications.MetricsPort, cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("Metrics server failed: %v", err)
			}
		}()
	}

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.Notifications.SMTPHost,
		Port:     cfg.Notifications.SMTPPort,
		Username: cfg.Notifications.SMTPUser,
		Password: cfg.Notifications.SMTPPassword,
		From:     cfg.Notifications.From,
	})

	handler := notifications.NewHandler(smtpMailer, cfg.Notifications.AdminEmail, metricsCollector, log)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.QueueDB,
		},
		asynq.Config{
			Concurrency: cfg.Notifications.Concurrency,
			Queues: map[string]int{
				notifierClient.Queue: 1,
			},
			Logger: asynqLogger{log: log},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				log.Warn("Task %s failed (attempt %d of %d): %v", task.Type(), retried+1, maxRetry+1, err)
			}),
		},
	)

	if err := srv.Start(mux); err != nil {
		log.Fatal("Failed to start worker: %v", err)
	}
	log.Info("Worker started (queue=%s, concurrency=%d)", notifierClient.Queue, cfg.Notifications.Concurrency)

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down worker...")
	srv.Shutdown()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("Metrics server forced to shutdown: %v", err)
		}
	}

	log.Info("Worker stopped gracefully")
}
