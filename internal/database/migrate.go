package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending schema migrations. The schema is
// canonical and versioned; the application never probes table or column
// existence at runtime.
func (db *DB) RunMigrations(ctx context.Context) error {
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.UpContext(ctx, db.DB.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	db.logger.Info("Database migrations applied")
	return nil
}
