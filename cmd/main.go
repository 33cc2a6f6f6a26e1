package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	blockDateHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/block_date"
	createAppointmentHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_availability"
	getMyAppointmentsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/get_my_appointments"
	listAppointmentsHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_appointments"
	listBlockedDatesHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/list_blocked_dates"
	transitionAppointmentHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/transition_appointment"
	unblockDateHandler "github.com/m04kA/SMC-DetailingService/internal/api/handlers/unblock_date"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/config"
	availabilityCache "github.com/m04kA/SMC-DetailingService/internal/infra/cache/availability"
	"github.com/m04kA/SMC-DetailingService/internal/infra/storage"
	appointmentRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/appointment"
	blackoutRepo "github.com/m04kA/SMC-DetailingService/internal/infra/storage/blackout"
	catalogClient "github.com/m04kA/SMC-DetailingService/internal/integrations/catalog"
	notifierClient "github.com/m04kA/SMC-DetailingService/internal/integrations/notifier"
	appointmentsService "github.com/m04kA/SMC-DetailingService/internal/service/appointments"
	availabilityService "github.com/m04kA/SMC-DetailingService/internal/service/availability"
	blackoutsService "github.com/m04kA/SMC-DetailingService/internal/service/blackouts"
	"github.com/m04kA/SMC-DetailingService/internal/service/pricing"
	"github.com/m04kA/SMC-DetailingService/internal/service/reservation"
	"github.com/m04kA/SMC-DetailingService/internal/service/window"
	createAppointmentUC "github.com/m04kA/SMC-DetailingService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-DetailingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DetailingService/pkg/logger"
	"github.com/m04kA/SMC-DetailingService/pkg/metrics"
	"github.com/m04kA/SMC-DetailingService/pkg/sqlbuilder"
	"github.com/m04kA/SMC-DetailingService/pkg/txmanager"
)

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

	log.Info("Starting SMC-DetailingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	dialect, err := sqlbuilder.ParseDialect(cfg.Database.Driver)
	if err != nil {
		log.Fatal("Unsupported database driver: %v", err)
	}

	db, err := storage.Open(dialect, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool (sqlite уже ограничен одним соединением)
	if dialect == sqlbuilder.Postgres {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s)", dialect)

	if cfg.Database.AutoMigrate {
		applied, err := storage.Migrate(context.Background(), db, dialect, log)
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied: %d", applied)
	}

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Инициализируем репозитории и transaction manager
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB, dialect)
	blackoutRepository := blackoutRepo.NewRepository(wrappedDB, dialect)
	txMgr := txmanager.NewTransactionManager(wrappedDB, dialect)

	// Кэш доступности (redis) или работа без кэша
	var cache availabilityService.Cache = availabilityCache.NoopCache{}
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.CacheDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Warn("Redis is unavailable, availability cache will fall back to the database: %v", err)
		}
		cache = availabilityCache.NewRedisCache(redisClient, cfg.Redis.CacheTTLDuration())
		log.Info("Availability cache enabled (addr=%s, db=%d, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheDB, cfg.Redis.CacheTTL)
	}

	// Инициализируем интеграционных клиентов
	catalog := catalogClient.NewClient(
		cfg.Catalog.URL,
		cfg.Catalog.File,
		time.Duration(cfg.Catalog.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, file=%s, timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.File, cfg.Catalog.Timeout)

	type Notifier interface {
		createAppointmentUC.Notifier
		appointmentsService.Notifier
	}
	var notifier Notifier = notifierClient.Noop{}
	if cfg.Notifications.Enabled {
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.QueueDB,
		})
		defer queueClient.Close()

		notifier = notifierClient.NewClient(queueClient, log)
		log.Info("Notifications enabled (queue=%s, redis db=%d)", notifierClient.Queue, cfg.Redis.QueueDB)
	}

	// Инициализируем сервисы
	timeProvider := &window.RealTimeProvider{}
	windowPolicy := window.NewPolicy(cfg.Booking.Location(), timeProvider)

	availabilitySvc := availabilityService.NewCalculator(
		blackoutRepository,
		appointmentRepository,
		cache,
		txMgr,
		metricsCollector,
		log,
	)
	pricingResolver := pricing.NewResolver(catalog, log)
	slotGuard := reservation.NewGuard(
		availabilitySvc,
		appointmentRepository,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		availabilitySvc,
		notifier,
		metricsCollector,
		timeProvider,
		log,
	)
	blackoutsSvc := blackoutsService.NewService(
		blackoutRepository,
		windowPolicy,
		availabilitySvc,
		timeProvider,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		windowPolicy,
		pricingResolver,
		slotGuard,
		notifier,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getMyAppointments := getMyAppointmentsHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(appointmentsSvc, log)
	blockDate := blockDateHandler.NewHandler(blackoutsSvc, log)
	unblockDate := unblockDateHandler.NewHandler(blackoutsSvc, log)
	listBlockedDates := listBlockedDatesHandler.NewHandler(blackoutsSvc, log)

	authenticator := middleware.NewAuthenticator(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.Leeway)*time.Second,
		log,
	)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check
	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := wrappedDB.PingContext(req.Context()); err != nil {
			log.Error("GET /healthz - Database ping failed: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (токен необязателен)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	public.Use(authenticator.OptionalAuth)

	// Сводка доступности по датам
	public.HandleFunc("/availability/summary", getAvailability.Handle).Methods(http.MethodGet)

	// Создание записи (с ограничением частоты запросов)
	var createHandler http.Handler = http.HandlerFunc(createAppointment.Handle)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, log)
		createHandler = limiter.Middleware(createHandler)
		log.Info("Rate limit enabled for appointment creation (%d rpm, burst %d)",
			cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	public.Handle("/appointments", createHandler).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticator.RequireAuth)

	// Записи текущего клиента
	protected.HandleFunc("/me/appointments", getMyAppointments.Handle).Methods(http.MethodGet)

	// Получение записи по ID (владелец или администратор)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := api.PathPrefix("").Subrouter()
	admin.Use(authenticator.RequireAuth, middleware.RequireAdmin)

	// --- Записи ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}/{action:approve|decline|complete}",
		transitionAppointment.Handle).Methods(http.MethodPost)

	// --- Блокировки дат ---
	admin.HandleFunc("/availability/blocked-dates", listBlockedDates.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/availability/blocked-dates", blockDate.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/availability/blocked-dates/{date}", unblockDate.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
