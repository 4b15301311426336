package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createEventHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/create_event"
	deleteEventHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/delete_event"
	exportAvailabilitiesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/export_availabilities"
	exportEventsHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/export_events"
	getAvailabilitiesHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_availabilities"
	getEventHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_event"
	updateEventHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_event"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	eventRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/event"
	"github.com/m04kA/SMC-AvailabilityService/internal/maintenance"
	eventsService "github.com/m04kA/SMC-AvailabilityService/internal/service/events"
	getAvailabilitiesUC "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_availabilities"
	"github.com/m04kA/SMC-AvailabilityService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Availability.Timezone, err)
	}
	log.Info("Availability is computed in timezone %s", location)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		dbCollector      dbmetrics.Collector
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		dbCollector = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка просто пропускает запросы к *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, dbCollector, stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Database metrics collection started")
	}

	// Инициализируем репозитории
	eventRepository := eventRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Инициализируем сервисы
	eventSvc := eventsService.NewService(eventRepository, txMgr, location, log)

	// Инициализируем use cases
	var availabilityMetrics getAvailabilitiesUC.MetricsRecorder
	if cfg.Metrics.Enabled {
		availabilityMetrics = metricsCollector
	}
	getAvailabilitiesUseCase := getAvailabilitiesUC.NewUseCase(
		eventRepository,
		location,
		availabilityMetrics,
		log,
	)

	// Фоновая очистка устаревших событий
	var scheduler *maintenance.Scheduler
	if cfg.Maintenance.Enabled {
		var purgeMetrics maintenance.MetricsRecorder
		if cfg.Metrics.Enabled {
			purgeMetrics = metricsCollector
		}

		scheduler, err = maintenance.NewScheduler(
			cfg.Maintenance.Schedule,
			cfg.Maintenance.RetentionDays,
			eventSvc,
			purgeMetrics,
			log,
		)
		if err != nil {
			log.Fatal("Failed to create maintenance scheduler: %v", err)
		}
		scheduler.Start()
		log.Info("Maintenance job scheduled: %s", cfg.Maintenance.Schedule)
	}

	// Инициализируем handlers
	getAvailabilities := getAvailabilitiesHandler.NewHandler(getAvailabilitiesUseCase, log)
	exportAvailabilities := exportAvailabilitiesHandler.NewHandler(getAvailabilitiesUseCase, log)
	createEvent := createEventHandler.NewHandler(eventSvc, log)
	getEvent := getEventHandler.NewHandler(eventSvc, log)
	updateEvent := updateEventHandler.NewHandler(eventSvc, log)
	deleteEvent := deleteEventHandler.NewHandler(eventSvc, log)
	exportEvents := exportEventsHandler.NewHandler(eventSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (расчёт доступности)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		public.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute, log))
		log.Info("Rate limit enabled: %d requests/min per IP", cfg.RateLimit.RequestsPerMinute)
	}

	// Свободные слоты на 7 дней вперёд
	public.HandleFunc("/availabilities", getAvailabilities.Handle).Methods(http.MethodGet)

	// То же окно в формате iCalendar
	public.HandleFunc("/availabilities.ics", exportAvailabilities.Handle).Methods(http.MethodGet)

	// ============================================================
	// EVENTS (opening и appointment)
	// ============================================================

	api.HandleFunc("/events", createEvent.Handle).Methods(http.MethodPost)
	api.HandleFunc("/events.ics", exportEvents.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId:[0-9]+}", getEvent.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId:[0-9]+}", updateEvent.Handle).Methods(http.MethodPut)
	api.HandleFunc("/events/{eventId:[0-9]+}", deleteEvent.Handle).Methods(http.MethodDelete)

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)
	if cfg.Metrics.Enabled {
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
}
