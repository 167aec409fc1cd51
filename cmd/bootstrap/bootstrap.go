package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medical-appointment-scheduler/config"
	deliveryHttp "medical-appointment-scheduler/internal/delivery/http"
	"medical-appointment-scheduler/internal/delivery/http/handler"
	"medical-appointment-scheduler/internal/delivery/http/middleware"
	"medical-appointment-scheduler/internal/infrastructure/cache"
	"medical-appointment-scheduler/internal/infrastructure/database"
	"medical-appointment-scheduler/internal/infrastructure/storage"
	"medical-appointment-scheduler/internal/repository"
	"medical-appointment-scheduler/internal/service"
	"medical-appointment-scheduler/internal/usecase"
	"medical-appointment-scheduler/pkg/clock"
	"medical-appointment-scheduler/pkg/jwt"
	"medical-appointment-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New connects to PostgreSQL and Redis, applies migrations when enabled and
// wires every layer behind the HTTP server.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := SetupLogger(cfg.App.Env)
	app := &App{Config: cfg, Log: log}

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	db, err := OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db
	log.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		sqlDB, err := db.DB()
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		if err := database.MigrateUp(sqlDB, log); err != nil {
			app.Close()
			return nil, err
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.RedisClient = redisClient
	log.Info("Redis connected successfully")

	server, err := initializeServer(cfg, log, loc, db, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Server = server

	return app, nil
}

// SetupLogger configures the standard logrus logger and returns it.
func SetupLogger(env string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)
	if env == "development" {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// OpenDatabase opens the GORM pool in the clinic time zone.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	return database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, cfg.App.Env)
}

func newNotifier(cfg config.NotifierConfig, log *logrus.Logger) service.Notifier {
	switch cfg.Driver {
	case service.NotifierDriverEmail:
		return service.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.From, log)
	default:
		return service.NewLogNotifier(log)
	}
}

// uploadPrefix is the path under which stored exams are served. An absolute
// UPLOAD_BASE_URL contributes only its path.
func uploadPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Path == "" {
		return "/uploads"
	}
	return u.Path
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, loc *time.Location, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	clk := clock.New()

	osFs := afero.NewOsFs()
	fileStorage, err := storage.NewLocalFileStorage(osFs, cfg.Upload.Dir, cfg.Upload.BaseURL, cfg.Upload.MaxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare upload storage: %w", err)
	}

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	scheduleRepo := repository.NewDoctorScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	recordRepo := repository.NewMedicalRecordRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Services
	auditService := service.NewAuditService(log, auditLogRepo)
	tokenStore := service.NewTokenStore(redisClient, log)
	slotLock := service.NewSlotLockService(redisClient, log, cfg.Booking.SlotLockTTL)
	notifier := newNotifier(cfg.Notifier, log)
	exportService := service.NewExportService(log)
	pdfService := service.NewPrescriptionPDFService(cfg.App.ClinicName, log)
	calendarService := service.NewCalendarService(cfg.App.ClinicName, log)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, txManager, userRepo, patientProfileRepo, jwtService, tokenStore, auditService)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, txManager, doctorProfileRepo, auditService)
	doctorScheduleUsecase := usecase.NewDoctorScheduleUsecase(db, log, txManager, scheduleRepo, doctorProfileRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, loc, doctorProfileRepo, scheduleRepo, appointmentRepo)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, loc, txManager, appointmentRepo, doctorProfileRepo, patientProfileRepo, scheduleRepo, slotLock, notifier, auditService)
	insightsUsecase := usecase.NewDoctorInsightsUsecase(db, log, loc, clk, doctorProfileRepo, appointmentRepo, exportService, calendarService)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, loc, txManager, prescriptionRepo, patientProfileRepo, appointmentRepo, pdfService, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, clk, patientProfileRepo)
	recordUsecase := usecase.NewMedicalRecordUsecase(db, log, clk, txManager, recordRepo, patientProfileRepo, fileStorage, auditService)
	reminderUsecase := usecase.NewReminderUsecase(db, log, loc, clk, appointmentRepo, notifier)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorProfileUsecase, availabilityUsecase, customValidator),
		DoctorSchedule: handler.NewDoctorScheduleHandler(doctorScheduleUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		DoctorInsights: handler.NewDoctorInsightsHandler(insightsUsecase),
		Prescription:   handler.NewPrescriptionHandler(prescriptionUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase),
		MedicalRecord:  handler.NewMedicalRecordHandler(recordUsecase, customValidator, cfg.Upload.MaxBytes),
		Reminder:       handler.NewReminderHandler(reminderUsecase),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins...)

	uploads := afero.NewHttpFs(osFs).Dir(cfg.Upload.Dir)
	router := deliveryHttp.NewRouter(handlers, authMiddleware, corsMiddleware, uploads, uploadPrefix(cfg.Upload.BaseURL))

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
