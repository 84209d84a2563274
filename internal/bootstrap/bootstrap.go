package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/medresidency/logbook/internal/app/controllers"
	appMigrations "github.com/medresidency/logbook/internal/app/migrations"
	appRepos "github.com/medresidency/logbook/internal/app/repositories"
	appRoutes "github.com/medresidency/logbook/internal/app/routes"
	appServices "github.com/medresidency/logbook/internal/app/services"
	"github.com/medresidency/logbook/internal/config"
	"github.com/medresidency/logbook/internal/db"
	appMiddleware "github.com/medresidency/logbook/internal/middleware"
	pkgAuth "github.com/medresidency/logbook/internal/pkg/auth"
	"github.com/medresidency/logbook/internal/pkg/crm"
	"github.com/medresidency/logbook/internal/pkg/email"
	"github.com/medresidency/logbook/internal/pkg/helpers"
	"github.com/medresidency/logbook/internal/pkg/logger"
	"github.com/medresidency/logbook/internal/pkg/report"
	"github.com/medresidency/logbook/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	ProcedureService    appServices.ProcedureService
	ReportService       appServices.ReportService
	ReferenceService    appServices.ReferenceService
	ResidentService     appServices.ResidentService
	AuthController      *appControllers.AuthController
	ProcedureController *appControllers.ProcedureController
	ReportController    *appControllers.ReportController
	ReferenceController *appControllers.ReferenceController
	ResidentController  *appControllers.ResidentController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	EmailDispatcher     *email.Dispatcher
	Logger              zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// seeds the reference tables.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding problems should not block startup.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	verifier := crm.NewClient(crm.Config{
		BaseURL: cfg.Registry.BaseURL,
		Timeout: helpers.ParseDuration(cfg.Registry.Timeout, 10*time.Second),
	})

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)
	deps.EmailDispatcher = email.NewDispatcher(emailService, cfg.SMTP.QueueSize, lgr)

	renderer := report.NewChromeRenderer(helpers.ParseDuration(cfg.Report.PrintTimeout, 30*time.Second))

	location, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load report timezone: %w", err)
	}

	deps.AuthService = appServices.NewAuthService(deps.Repos, deps.JWTService, verifier)
	deps.ProcedureService = appServices.NewProcedureService(deps.Repos, deps.EmailDispatcher)
	deps.ReportService = appServices.NewReportService(deps.Repos, renderer, location)
	deps.ReferenceService = appServices.NewReferenceService(deps.Repos)
	deps.ResidentService = appServices.NewResidentService(deps.Repos)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ProcedureController = appControllers.NewProcedureController(deps.ProcedureService)
	deps.ReportController = appControllers.NewReportController(deps.ReportService)
	deps.ReferenceController = appControllers.NewReferenceController(deps.ReferenceService)
	deps.ResidentController = appControllers.NewResidentController(deps.ResidentService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProcedureController,
		deps.ReportController,
		deps.ReferenceController,
		deps.ResidentController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
