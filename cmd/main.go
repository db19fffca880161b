package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	createBookingHandler "github.com/m04kA/SMC-BookingWidget/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BookingWidget/internal/api/handlers/get_available_slots"
	getBookingSettingsHandler "github.com/m04kA/SMC-BookingWidget/internal/api/handlers/get_booking_settings"
	"github.com/m04kA/SMC-BookingWidget/internal/api/middleware"
	"github.com/m04kA/SMC-BookingWidget/internal/config"
	appointmentRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/catalog"
	customerRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/customer"
	settingsRepo "github.com/m04kA/SMC-BookingWidget/internal/infra/storage/settings"
	settingsService "github.com/m04kA/SMC-BookingWidget/internal/service/settings"
	createBookingUC "github.com/m04kA/SMC-BookingWidget/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-BookingWidget/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingWidget/pkg/dbmetrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/logger"
	"github.com/m04kA/SMC-BookingWidget/pkg/metrics"
	"github.com/m04kA/SMC-BookingWidget/pkg/ratelimit"
	"github.com/m04kA/SMC-BookingWidget/pkg/telemetry"
	"github.com/m04kA/SMC-BookingWidget/pkg/txmanager"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-BookingWidget...")
	log.Info("Configuration loaded from %s", *configPath)

	// Трейсинг
	shutdownTracing, err := telemetry.Setup(context.Background(), telemetry.Options{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		ServiceName: cfg.Tracing.ServiceName,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Метрики (nil - выключены, методы nil-безопасны)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
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
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	err = db.PingContext(pingCtx)
	cancelPing()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Ограничитель частоты записи
	limiter, closeLimiter, err := newRateLimiter(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize rate limiter: %v", err)
	}
	defer closeLimiter()

	// Инициализируем репозитории
	businessRepository := businessRepo.NewRepository(wrappedDB)
	settingsRepository := settingsRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	customerRepository := customerRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	settingsSvc := settingsService.NewService(
		businessRepository,
		settingsRepository,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		businessRepository,
		catalogRepository,
		customerRepository,
		appointmentRepository,
		limiter,
		cfg.RateLimit.IsFailOpen(),
		txMgr,
		metricsCollector,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		businessRepository,
		settingsSvc,
		appointmentRepository,
		catalogRepository,
		metricsCollector,
		cfg.Availability.ProfessionalLookupFailure,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBookingSettings := getBookingSettingsHandler.NewHandler(settingsSvc, log)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid server.trusted_proxies: %v", err)
	}
	log.Info("X-Forwarded-For accepted from %d trusted proxy ranges", len(trustedProxies))

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.ClientIP(trustedProxies))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")

		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix, все маршруты публичные
	api := r.PathPrefix("/api/v1").Subrouter()

	// Настройки виджета записи
	api.HandleFunc("/businesses/{slug}/booking-settings", getBookingSettings.Handle).Methods(http.MethodGet)

	// Доступное время
	api.HandleFunc("/businesses/{slug}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание записи
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      otelhttp.NewHandler(r, cfg.Tracing.ServiceName),
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
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// newRateLimiter создает ограничитель по rate_limit.backend.
// Redis нужен, когда экземпляров сервиса несколько: счетчики в памяти у каждого свои.
func newRateLimiter(cfg *config.Config, log *logger.Logger) (createBookingUC.RateLimiter, func(), error) {
	if cfg.RateLimit.Backend != config.RateLimitBackendRedis {
		log.Info("Rate limiter: in-memory, %d requests per %s", cfg.RateLimit.Limit, cfg.RateLimit.Window())
		return ratelimit.NewMemory(cfg.RateLimit.Limit, cfg.RateLimit.Window()), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		if !cfg.RateLimit.IsFailOpen() {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
		}
		log.Warn("Redis %s is unreachable, rate limiter will fail open until it recovers: %v", cfg.Redis.Addr, err)
	}

	log.Info("Rate limiter: redis %s, %d requests per %s", cfg.Redis.Addr, cfg.RateLimit.Limit, cfg.RateLimit.Window())
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}
	return ratelimit.NewRedis(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window(), cfg.RateLimit.KeyPrefix), closeFn, nil
}
