package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/umut/fairline/internal/app/controllers"
	appMigrations "github.com/umut/fairline/internal/app/migrations"
	appRepos "github.com/umut/fairline/internal/app/repositories"
	appRoutes "github.com/umut/fairline/internal/app/routes"
	appServices "github.com/umut/fairline/internal/app/services"
	"github.com/umut/fairline/internal/config"
	"github.com/umut/fairline/internal/db"
	appMiddleware "github.com/umut/fairline/internal/middleware"
	pkgAuth "github.com/umut/fairline/internal/pkg/auth"
	"github.com/umut/fairline/internal/pkg/logger"
	"github.com/umut/fairline/internal/pkg/realtime"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	JobFairService    appServices.JobFairService
	BoothService      appServices.BoothService
	BookingService    appServices.BookingService
	QnaService        appServices.QnaService
	AuthController    *appControllers.AuthController
	JobFairController *appControllers.JobFairController
	BoothController   *appControllers.BoothController
	BookingController *appControllers.BookingController
	QnaController     *appControllers.QnaController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Hub               *realtime.Hub
	RealtimeHandler   *realtime.Handler
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.Run(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	txManager := db.NewTxManager(dbPool)

	accessTokenExp, err := time.ParseDuration(cfg.JWT.AccessTokenExpiration)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: accessTokenExp,
		TokenIssuer:    cfg.JWT.Issuer,
	})

	// Realtime hub runs for the lifetime of the process
	deps.Hub = realtime.NewHub(lgr)
	go deps.Hub.Run()
	deps.RealtimeHandler = realtime.NewHandler(deps.Hub, lgr)

	opTimeout := cfg.OperationTimeout()

	// Initialize services
	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.JWTService,
		opTimeout,
		lgr,
	)
	deps.JobFairService = appServices.NewJobFairService(
		deps.Repos.JobFairRepository,
		deps.Repos.BoothRepository,
		txManager,
		time.Now,
		cfg.Booking.ValidateFairWindow,
		opTimeout,
		lgr,
	)
	deps.BoothService = appServices.NewBoothService(
		deps.Repos.BoothRepository,
		deps.Hub,
		opTimeout,
		lgr,
	)
	deps.BookingService = appServices.NewBookingService(
		deps.Repos.BoothRepository,
		deps.Repos.AppointmentRepository,
		txManager,
		deps.Hub,
		opTimeout,
		lgr,
	)
	deps.QnaService = appServices.NewQnaService(
		deps.Repos.QnaRepository,
		deps.Hub,
		opTimeout,
		lgr,
	)

	// Subscribe endpoints push full snapshots sourced from the services
	deps.RealtimeHandler.RegisterProvider("booth", deps.BoothService)
	deps.RealtimeHandler.RegisterProvider("qna", deps.QnaService)

	// Initialize controllers
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.JobFairController = appControllers.NewJobFairController(deps.JobFairService)
	deps.BoothController = appControllers.NewBoothController(deps.BoothService)
	deps.BookingController = appControllers.NewBookingController(deps.BookingService)
	deps.QnaController = appControllers.NewQnaController(deps.QnaService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.JobFairController,
		deps.BoothController,
		deps.BookingController,
		deps.QnaController,
		deps.RealtimeHandler,
		deps.AuthMiddleware,
	)

	return router
}
