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

	cancelAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/cancel_appointment"
	completeAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/complete_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/create_appointment"
	deleteDayExceptionHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/delete_day_exception"
	getAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_available_slots"
	getBarberAppointmentsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_barber_appointments"
	getBarberScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_barber_schedule"
	getClientAppointmentsHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_client_appointments"
	getSchedulingConfigHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/get_scheduling_config"
	listServicesHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/list_services"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/reschedule_appointment"
	setDayExceptionHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/set_day_exception"
	updateSchedulingConfigHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/update_scheduling_config"
	updateWeeklyScheduleHandler "github.com/m04kA/SMC-BarberService/internal/api/handlers/update_weekly_schedule"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/config"
	appointmentRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/appointment"
	schedConfigRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedconfig"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	serviceCatalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/servicecatalog"
	notifyServiceClient "github.com/m04kA/SMC-BarberService/internal/integrations/notifyservice"
	appointmentsService "github.com/m04kA/SMC-BarberService/internal/service/appointments"
	catalogService "github.com/m04kA/SMC-BarberService/internal/service/catalog"
	scheduleService "github.com/m04kA/SMC-BarberService/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-BarberService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-BarberService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
	"github.com/m04kA/SMC-BarberService/pkg/metrics"
	"github.com/m04kA/SMC-BarberService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-BarberService/pkg/txmanager"
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

	log.Info("Starting SMC-BarberService...")
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

	// Инициализируем клиент уведомлений (nil, если интеграция выключена)
	var notifyClient *notifyServiceClient.Client
	if cfg.NotifyService.Enabled {
		notifyClient = notifyServiceClient.NewClient(
			cfg.NotifyService.URL,
			time.Duration(cfg.NotifyService.Timeout)*time.Second,
			log,
		)
		log.Info("NotifyService client initialized (url=%s, timeout=%ds)",
			cfg.NotifyService.URL, cfg.NotifyService.Timeout)
	} else {
		log.Info("NotifyService integration disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		apptRepository     *appointmentRepo.Repository
		scheduleRepository *scheduleRepo.Repository
		catalogRepository  *serviceCatalogRepo.Repository
		configRepository   *schedConfigRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	// TODO: вынести в отдельный пакет, чтобы не объявлять его в main
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		apptRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		catalogRepository = serviceCatalogRepo.NewRepository(wrappedDB)
		configRepository = schedConfigRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		apptRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		catalogRepository = serviceCatalogRepo.NewRepository(db)
		configRepository = schedConfigRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(catalogRepository, log)
	scheduleSvc := scheduleService.NewService(
		scheduleRepository,
		configRepository,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		apptRepository,
		notifyClient,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		apptRepository,
		scheduleRepository,
		configRepository,
		catalogSvc,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		apptRepository,
		scheduleRepository,
		configRepository,
		catalogRepository,
		catalogSvc,
		notifyClient,
		txMgr,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		apptRepository,
		scheduleRepository,
		configRepository,
		catalogSvc,
		notifyClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	completeAppointment := completeAppointmentHandler.NewHandler(appointmentsSvc, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBarberAppointments := getBarberAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getBarberSchedule := getBarberScheduleHandler.NewHandler(scheduleSvc, log)
	updateWeeklySchedule := updateWeeklyScheduleHandler.NewHandler(scheduleSvc, log)
	setDayException := setDayExceptionHandler.NewHandler(scheduleSvc, log)
	deleteDayException := deleteDayExceptionHandler.NewHandler(scheduleSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getSchedulingConfig := getSchedulingConfigHandler.NewHandler(scheduleSvc, log)
	updateSchedulingConfig := updateSchedulingConfigHandler.NewHandler(scheduleSvc, log)

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

	// Доступные слоты для записи к барберу
	api.HandleFunc("/barbers/{barberId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание барбера: недельный шаблон и исключения
	api.HandleFunc("/barbers/{barberId}/schedule",
		getBarberSchedule.Handle).Methods(http.MethodGet)

	// Действующая конфигурация генерации слотов
	api.HandleFunc("/barbers/{barberId}/config",
		getSchedulingConfig.Handle).Methods(http.MethodGet)

	// Каталог услуг барбершопа
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Перенос записи на другое время
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// Завершение записи барбером
	protected.HandleFunc("/appointments/{appointmentId}/complete", completeAppointment.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/clients/{clientId}/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// --- Рабочий журнал барбера ---
	// Записи барбера с фильтрацией
	protected.HandleFunc("/barbers/{barberId}/appointments", getBarberAppointments.Handle).Methods(http.MethodGet)

	// Замена недельного расписания
	protected.HandleFunc("/barbers/{barberId}/schedule/weekly", updateWeeklySchedule.Handle).Methods(http.MethodPut)

	// Установка исключения на дату
	protected.HandleFunc("/barbers/{barberId}/schedule/exceptions", setDayException.Handle).Methods(http.MethodPut)

	// Удаление исключения на дату
	protected.HandleFunc("/barbers/{barberId}/schedule/exceptions/{date}", deleteDayException.Handle).Methods(http.MethodDelete)

	// Обновление персональной конфигурации слотов
	protected.HandleFunc("/barbers/{barberId}/config", updateSchedulingConfig.Handle).Methods(http.MethodPut)

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
