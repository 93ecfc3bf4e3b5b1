package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-scheduler/config"
	deliveryHttp "clinic-scheduler/internal/delivery/http"
	"clinic-scheduler/internal/delivery/http/handler"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/infrastructure/cache"
	"clinic-scheduler/internal/infrastructure/database"
	"clinic-scheduler/internal/repository"
	"clinic-scheduler/internal/scheduling"
	"clinic-scheduler/internal/service"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/jwt"
	"clinic-scheduler/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Reminders   *service.ReminderService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, reminders := initializeServer(cfg, db, redisClient)
	app.Server = server
	app.Reminders = reminders

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, *service.ReminderService) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	workingHoursRepo := repository.NewWorkingHoursRepository()
	exceptionRepo := repository.NewScheduleExceptionRepository()
	patternRepo := repository.NewAvailabilityPatternRepository()
	timeSlotRepo := repository.NewTimeSlotRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize shared services
	auditService := service.NewAuditService(db, log, auditLogRepo)
	cacheService := service.NewCacheService(redisClient, log, cfg.Scheduling.CacheTTL)
	eventService := service.NewEventService(redisClient, log)
	reminderService := service.NewReminderService(db, log, appointmentRepo, eventService, redisClient, cfg.Scheduling.ReminderLead)

	policy := usecase.SchedulingPolicy{
		Policy: scheduling.Policy{
			MinDuration: int(cfg.Scheduling.MinDuration.Minutes()),
			MaxDuration: int(cfg.Scheduling.MaxDuration.Minutes()),
		},
		DefaultSlotDuration: int(cfg.Scheduling.DefaultSlotDuration.Minutes()),
		DefaultSlotInterval: int(cfg.Scheduling.DefaultSlotInterval.Minutes()),
	}

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, jwtService, redisClient)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, auditService)
	patientProfileUsecase := usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService)
	workingHoursUsecase := usecase.NewWorkingHoursUsecase(db, log, workingHoursRepo, doctorProfileRepo, auditService, cacheService)
	exceptionUsecase := usecase.NewScheduleExceptionUsecase(db, log, exceptionRepo, timeSlotRepo, doctorProfileRepo, auditService, cacheService)
	patternUsecase := usecase.NewAvailabilityPatternUsecase(db, log, patternRepo, doctorProfileRepo, auditService)
	availabilityUsecase := usecase.NewAvailabilityUsecase(db, log, workingHoursRepo, exceptionRepo, timeSlotRepo, auditService, cacheService, policy)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, timeSlotRepo, workingHoursRepo, exceptionRepo, auditService, cacheService, eventService, policy)
	bulkEditUsecase := usecase.NewBulkEditUsecase(db, log, patternRepo, timeSlotRepo, exceptionRepo, auditService, cacheService, eventService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientProfileUsecase, customValidator)
	workingHoursHandler := handler.NewWorkingHoursHandler(workingHoursUsecase, customValidator)
	exceptionHandler := handler.NewExceptionHandler(exceptionUsecase, customValidator)
	patternHandler := handler.NewPatternHandler(patternUsecase, customValidator)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	bulkEditHandler := handler.NewBulkEditHandler(bulkEditUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		patientHandler,
		workingHoursHandler,
		exceptionHandler,
		patternHandler,
		availabilityHandler,
		appointmentHandler,
		bulkEditHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}
	return server, reminderService
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start background reminder sweeps
	if err := app.Reminders.Start(); err != nil {
		logrus.Fatalf("Failed to start reminder service: %v", err)
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop background jobs before closing connections
	app.Reminders.Stop()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
