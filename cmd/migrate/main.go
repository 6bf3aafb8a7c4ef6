package main

// Run database migrations:
//   go run ./cmd/migrate            # apply all
//   go run ./cmd/migrate -cmd down  # roll back the latest
//   go run ./cmd/migrate -cmd status

import (
	"context"
	"flag"
	"os"

	"resume-vault/internal/shared/config"
	"resume-vault/internal/shared/storage/db"
	"resume-vault/internal/shared/telemetry"
)

func main() {
	command := flag.String("cmd", string(db.MigrateUp), "migration command: up, down or status")
	flag.Parse()

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		telemetry.Error("migrate.config_invalid", map[string]any{"error": "DATABASE_URL is required"})
		os.Exit(1)
	}
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.PoolOptions(db.RuntimeMigrate))
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, db.MigrationCommand(*command)); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"cmd": *command, "error": err.Error()})
		sqlDB.Close()
		os.Exit(1)
	}
	telemetry.Info("migrate.done", map[string]any{"cmd": *command})
}
