package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermem "github.com/ulule/limiter/v3/drivers/store/memory"

	portsrepo "github.com/corebank/bank_ledger/internal/core/ports/repositories"
	"github.com/corebank/bank_ledger/internal/core/services"
	"github.com/corebank/bank_ledger/internal/handlers"
	"github.com/corebank/bank_ledger/internal/middleware"
	memrepo "github.com/corebank/bank_ledger/internal/repositories/database/memory"
	"github.com/corebank/bank_ledger/internal/repositories/database/pgsql"
	"github.com/corebank/bank_ledger/pkg/config"
	"github.com/corebank/bank_ledger/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT value", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermem.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(repos)
	handlers.RegisterRoutes(r, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage_driver", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildRepositories selects the storage backend, running migrations when the
// backend is Postgres. The returned cleanup releases the backend's resources.
func buildRepositories(cfg *config.Config, logger *slog.Logger) (*portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Info("Using in-memory storage; state will not survive a restart.")
		return memrepo.NewRepositoryProvider(cfg.LockWaitTimeout), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		dbPool.Close()
		return nil, nil, err
	}

	return pgsql.NewRepositoryProvider(dbPool, cfg.LockWaitTimeout), dbPool.Close, nil
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the main pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
