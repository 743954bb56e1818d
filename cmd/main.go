package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	applyTemplateHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/apply_template"
	createAppointmentHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/create_appointment"
	getAvailabilityHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/get_availability"
	listSlotsHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/list_slots"
	manageSlotsHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/manage_slots"
	manageTemplatesHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/manage_templates"
	runReconciliationHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/run_reconciliation"
	updateAppointmentHandler "github.com/m04kA/SMC-OfficeScheduler/internal/api/handlers/update_appointment"
	"github.com/m04kA/SMC-OfficeScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-OfficeScheduler/internal/config"
	availabilityCache "github.com/m04kA/SMC-OfficeScheduler/internal/infra/cache/availability"
	appointmentRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/appointment"
	officeRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/office"
	scheduleRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/schedule"
	templateRepo "github.com/m04kA/SMC-OfficeScheduler/internal/infra/storage/template"
	"github.com/m04kA/SMC-OfficeScheduler/internal/integrations/bitrix"
	availabilityService "github.com/m04kA/SMC-OfficeScheduler/internal/service/availability"
	reconciliationService "github.com/m04kA/SMC-OfficeScheduler/internal/service/reconciliation"
	slotsService "github.com/m04kA/SMC-OfficeScheduler/internal/service/slots"
	templatesService "github.com/m04kA/SMC-OfficeScheduler/internal/service/templates"
	applyTemplateUC "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/apply_template"
	createAppointmentUC "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/create_appointment"
	updateAppointmentUC "github.com/m04kA/SMC-OfficeScheduler/internal/usecase/update_appointment"
	"github.com/m04kA/SMC-OfficeScheduler/internal/worker/reconcile"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/logger"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/metrics"
	"github.com/m04kA/SMC-OfficeScheduler/pkg/txmanager"
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

	log.Info("Starting SMC-OfficeScheduler...")

	// Метрики: при выключенных метриках коллектор nil, все методы ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Кэш доступности
	var store availabilityCache.Store
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		store = availabilityCache.NewRedis(redisClient)
		log.Info("Availability cache: redis (addr=%s, db=%d, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.DB, cfg.Cache.TTLSeconds)
	default:
		store = availabilityCache.NewMemory()
		log.Info("Availability cache: memory (ttl=%ds)", cfg.Cache.TTLSeconds)
	}
	cache := availabilityCache.NewInstrumented(store, metricsCollector)

	// Репозитории
	officeRepository := officeRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	templateRepository := templateRepo.NewRepository(wrappedDB)
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)

	// Сервисы
	availabilitySvc := availabilityService.NewService(
		officeRepository,
		scheduleRepository,
		appointmentRepository,
		cache,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		log,
	)
	slotsSvc := slotsService.NewService(
		officeRepository,
		scheduleRepository,
		txMgr,
		cache,
		log,
	)
	templatesSvc := templatesService.NewService(
		templateRepository,
		officeRepository,
		log,
	)

	// Клиент Bitrix24 (без webhook_url синхронизация статусов отключена)
	var crm reconciliationService.LeadStatusProvider
	if cfg.Bitrix.Enabled() {
		crm = bitrix.NewClient(
			cfg.Bitrix.WebhookURL,
			time.Duration(cfg.Bitrix.Timeout)*time.Second,
			cfg.Bitrix.BatchSize,
			log,
		)
		log.Info("Bitrix24 client initialized (timeout=%ds, batch_size=%d)", cfg.Bitrix.Timeout, cfg.Bitrix.BatchSize)
	} else {
		log.Warn("Bitrix24 webhook_url is empty, status sync is disabled")
	}

	statusMap, err := reconciliationService.ParseStatusMap(cfg.Bitrix.StatusMap)
	if err != nil {
		log.Fatal("Invalid bitrix.status_map: %v", err)
	}

	reconciliationSvc := reconciliationService.NewService(
		appointmentRepository,
		crm,
		txMgr,
		cache,
		metricsCollector,
		statusMap,
		cfg.Reconcile.LookbackDays,
		log,
	)

	// Use cases
	applyTemplateUseCase := applyTemplateUC.NewUseCase(
		templateRepository,
		officeRepository,
		scheduleRepository,
		txMgr,
		cache,
		cfg.Schedule.MaxApplyDays,
		cfg.Schedule.DefaultCapacity,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		officeRepository,
		scheduleRepository,
		appointmentRepository,
		txMgr,
		cache,
		metricsCollector,
		cfg.Booking.EnforceCapacity,
		log,
	)
	updateAppointmentUseCase := updateAppointmentUC.NewUseCase(
		officeRepository,
		scheduleRepository,
		appointmentRepository,
		txMgr,
		cache,
		metricsCollector,
		cfg.Booking.EnforceCapacity,
		log,
	)

	// Handlers
	getAvailability := getAvailabilityHandler.NewHandler(availabilitySvc, log)
	listSlots := listSlotsHandler.NewHandler(availabilitySvc, log)
	manageSlots := manageSlotsHandler.NewHandler(slotsSvc, log)
	manageTemplates := manageTemplatesHandler.NewHandler(templatesSvc, log)
	applyTemplate := applyTemplateHandler.NewHandler(applyTemplateUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	updateAppointment := updateAppointmentHandler.NewHandler(updateAppointmentUseCase, log)
	runReconciliation := runReconciliationHandler.NewHandler(reconciliationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты офиса на дату
	api.HandleFunc("/offices/{officeId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPut, http.MethodPatch)

	// ============================================================
	// ADMIN ROUTES (X-User-ID + X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	// --- Шаблоны ---
	admin.HandleFunc("/templates", manageTemplates.Create).Methods(http.MethodPost)
	admin.HandleFunc("/templates", manageTemplates.List).Methods(http.MethodGet)
	admin.HandleFunc("/templates/{templateId}", manageTemplates.Get).Methods(http.MethodGet)
	admin.HandleFunc("/templates/{templateId}", manageTemplates.Update).Methods(http.MethodPut)
	admin.HandleFunc("/templates/{templateId}", manageTemplates.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/templates/{templateId}/apply", applyTemplate.Handle).Methods(http.MethodPost)

	// --- Расписание дня ---
	admin.HandleFunc("/offices/{officeId}/slots", listSlots.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/offices/{officeId}/days/{date}", manageSlots.UpdateDay).Methods(http.MethodPut)
	admin.HandleFunc("/offices/{officeId}/days/{date}/slots", manageSlots.CreateSlot).Methods(http.MethodPost)
	admin.HandleFunc("/offices/{officeId}/days/{date}/slots", manageSlots.DeleteSlots).Methods(http.MethodDelete)
	admin.HandleFunc("/slots/{slotId}", manageSlots.UpdateSlot).Methods(http.MethodPatch)

	// --- Сверка ---
	admin.HandleFunc("/reconcile/{job}", runReconciliation.Handle).Methods(http.MethodPost)

	// Фоновые задания сверки
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workerWG sync.WaitGroup

	if cfg.Reconcile.Enabled {
		runner := reconcile.NewRunner(reconciliationSvc, reconcile.Intervals{
			Sync:   time.Duration(cfg.Reconcile.SyncIntervalSec) * time.Second,
			Expire: time.Duration(cfg.Reconcile.ExpireIntervalSec) * time.Second,
			Dedupe: time.Duration(cfg.Reconcile.DedupeIntervalSec) * time.Second,
		}, log)

		if crm == nil {
			log.Warn("Reconcile sync job will fail until bitrix.webhook_url is set")
		}

		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			runner.Run(workerCtx)
		}()
		log.Info("Reconciliation worker started (sync=%ds, expire=%ds, dedupe=%ds)",
			cfg.Reconcile.SyncIntervalSec, cfg.Reconcile.ExpireIntervalSec, cfg.Reconcile.DedupeIntervalSec)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	stopWorker()
	workerWG.Wait()

	close(stopMetricsCh)

	log.Info("Server stopped gracefully")
}
