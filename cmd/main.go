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

	approveBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/delete_booking"
	getBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/get_booking"
	getRulesHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/get_rules"
	getUserBookingsHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/get_user_bookings"
	updateBookingHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/update_booking"
	updateRulesHandler "github.com/bookwise-app/booking-backend/internal/api/handlers/update_rules"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	"github.com/bookwise-app/booking-backend/internal/config"
	"github.com/bookwise-app/booking-backend/internal/infra/broadcast"
	bookingRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/booking"
	rulesRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/rules"
	userRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/user"
	paymentServiceClient "github.com/bookwise-app/booking-backend/internal/integrations/paymentservice"
	bookingsService "github.com/bookwise-app/booking-backend/internal/service/bookings"
	rulesService "github.com/bookwise-app/booking-backend/internal/service/rules"
	cancelBookingUC "github.com/bookwise-app/booking-backend/internal/usecase/cancel_booking"
	createBookingUC "github.com/bookwise-app/booking-backend/internal/usecase/create_booking"
	"github.com/bookwise-app/booking-backend/pkg/dbmetrics"
	"github.com/bookwise-app/booking-backend/pkg/logger"
	"github.com/bookwise-app/booking-backend/pkg/metrics"
	"github.com/bookwise-app/booking-backend/pkg/simpletxmanager"
	"github.com/bookwise-app/booking-backend/pkg/txmanager"
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

	log.Info("Starting booking-backend...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем broadcast-транспорт
	broadcaster, err := broadcast.New(cfg.Broker.URL, cfg.Broker.Enabled, log)
	if err != nil {
		log.Fatal("Failed to connect to broker: %v", err)
	}
	defer broadcaster.Close()
	if cfg.Broker.Enabled {
		log.Info("Broadcast transport connected (url=%s)", cfg.Broker.URL)
	} else {
		log.Info("Broadcast transport disabled")
	}

	// Инициализируем интеграционных клиентов
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PaymentService=%s timeout=%ds)",
		cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		userRepository    *userRepo.Repository
		rulesRepository   *rulesRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		rulesRepository = rulesRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		rulesRepository = rulesRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		userRepository,
		paymentClient,
		broadcaster,
		txMgr,
		log,
	)
	rulesSvc := rulesService.NewService(
		rulesRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		rulesSvc,
		broadcaster,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		userRepository,
		paymentClient,
		broadcaster,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getRules := getRulesHandler.NewHandler(rulesSvc, log)
	updateRules := updateRulesHandler.NewHandler(rulesSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Текущие бизнес-правила бронирования
	api.HandleFunc("/rules", getRules.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	auth := middleware.NewAuth(userRepository, log)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(auth.Middleware)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Обновление бронирования
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Одобрение бронирования (для сотрудников)
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPatch)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Удаление бронирования
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Бизнес-правила (для сотрудников) ---
	protected.HandleFunc("/rules", updateRules.Handle).Methods(http.MethodPut)

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

	log.Info("Server stopped gracefully")
}
