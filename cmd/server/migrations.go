package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/taskdeck/internal/platform/postgres/migrations"
)

// runMigrations applies any pending schema migrations from the embedded
// migration files. Safe to run on every startup; goose tracks applied
// versions in its own table.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	before, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	after, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	if before == after {
		logger.Info("Database schema up to date", "version", after)
	} else {
		logger.Info("Applied pending migrations", "from", before, "to", after)
	}
	return nil
}
