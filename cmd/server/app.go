package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/platform/memory"
	"github.com/phrazzld/taskdeck/internal/platform/postgres"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/phrazzld/taskdeck/internal/store"
)

// application holds the shared application dependencies so wiring happens in
// one place and cleanup runs in one place on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when the in-memory backend is selected.
	db *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
}

// initializeApp loads configuration, sets up logging, connects the selected
// storage backend, and wires the service dependencies.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	app := &application{
		config:           cfg,
		logger:           appLogger,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
	}

	// An empty database URL selects the in-memory backend, intended for
	// local development and tests. Data does not survive a restart.
	if cfg.Database.URL == "" {
		slog.Info("No database URL configured, using in-memory stores")
		app.userStore = memory.NewMemoryUserStore(hasher)
		app.taskStore = memory.NewMemoryTaskStore()
		return app, nil
	}

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, appLogger); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			appLogger.Error("Failed to close database after migration error", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app.db = db
	app.userStore = postgres.NewPostgresUserStore(db, hasher, appLogger)
	app.taskStore = postgres.NewPostgresTaskStore(db, appLogger)
	return app, nil
}

// cleanup releases held resources. Called after the HTTP server has drained.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
