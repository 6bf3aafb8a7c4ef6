package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// MigrationCommand names a goose operation exposed by cmd/migrate.
type MigrationCommand string

const (
	MigrateUp     MigrationCommand = "up"
	MigrateDown   MigrationCommand = "down"
	MigrateStatus MigrationCommand = "status"
)

// RunMigrations applies the embedded profiles and resume_generations schema.
// A nil database is a no-op so memory-backed dev setups can call it blindly.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, MigrateUp)
}

// Migrate runs one goose command against the embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, cmd MigrationCommand) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	switch cmd {
	case MigrateUp:
		return goose.UpContext(ctx, database, migrationsDir)
	case MigrateDown:
		return goose.DownContext(ctx, database, migrationsDir)
	case MigrateStatus:
		return goose.StatusContext(ctx, database, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", cmd)
	}
}
