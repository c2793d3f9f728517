package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hospital-appointment-service/config"
	deliveryHttp "hospital-appointment-service/internal/delivery/http"
	"hospital-appointment-service/internal/delivery/http/handler"
	"hospital-appointment-service/internal/delivery/http/middleware"
	"hospital-appointment-service/internal/infrastructure/cache"
	"hospital-appointment-service/internal/infrastructure/database"
	"hospital-appointment-service/internal/infrastructure/websocket"
	"hospital-appointment-service/internal/repository"
	"hospital-appointment-service/internal/service"
	"hospital-appointment-service/internal/usecase"
	"hospital-appointment-service/pkg/jwt"
	"hospital-appointment-service/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Locker      service.BookingLocker
	Server      *http.Server
	log         *logrus.Logger
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	log := setupLogger(cfg.App.LogLevel)
	app.log = log
	log.Info("Configuration loaded successfully")

	// Initialize database
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	log.Info("Database connected successfully")

	// Initialize Redis
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis, log)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		app.RedisClient = redisClient
		app.Locker = service.NewRedisBookingLocker(redisClient, log, cfg.Scheduling.BookingLockTTL, cfg.Scheduling.BookingLockWait)
		log.Info("Redis connected successfully")
	} else {
		app.Locker = service.NewLocalBookingLocker(log, cfg.Scheduling.BookingLockWait)
		log.Warn("Redis disabled, booking locks are process-local")
	}

	// Initialize all layers
	app.Server = app.initializeServer(log)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer(log *logrus.Logger) *http.Server {
	cfg := app.Config

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorScheduleRepo := repository.NewDoctorScheduleRepository()

	// Initialize services
	doctorOracle := service.NewDoctorOracle(app.DB, log, doctorProfileRepo, doctorScheduleRepo)
	patientOracle := service.NewPatientOracle(app.DB, log, patientProfileRepo)
	auditService := service.NewAuditService(app.DB, log, auditLogRepo)
	hub := websocket.NewHub(log)
	eventService := service.NewEventService(hub, log)

	// Initialize usecases
	appointmentUsecase := usecase.NewAppointmentUsecase(app.DB, log, cfg.Scheduling, appointmentRepo,
		doctorOracle, patientOracle, app.Locker, auditService, eventService)
	appointmentScheduleUsecase := usecase.NewAppointmentScheduleUsecase(app.DB, log, cfg.Scheduling, appointmentRepo, doctorOracle)

	// Initialize handlers
	errorResponder := handler.NewErrorResponder(log, cfg.App.IsProduction())
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator, errorResponder)
	appointmentScheduleHandler := handler.NewAppointmentScheduleHandler(appointmentScheduleUsecase, customValidator, errorResponder)
	healthHandler := handler.NewHealthHandler(app.DB)
	eventsHandler := websocket.NewHandler(hub, log, middleware.AuthorizeEventTopic)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, app.RedisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	// Initialize router
	router := deliveryHttp.NewRouter(appointmentHandler, appointmentScheduleHandler, healthHandler, eventsHandler,
		authMiddleware, corsMiddleware, loggingMiddleware)

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		app.log.Infof("Server starting on port %s", app.Config.App.Port)
		app.log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.log.Fatalf("Failed to start server: %v", err)
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

	app.log.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		app.log.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	app.log.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, lock cleanup)
func (app *App) Close() {
	if local, ok := app.Locker.(*service.LocalBookingLocker); ok {
		local.Stop()
	}

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
