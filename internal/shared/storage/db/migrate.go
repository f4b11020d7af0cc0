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

// RunMigrations applies every pending embedded migration. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	return Migrate(ctx, database, "up")
}

// Migrate runs one goose command (up, down or status) against the embedded migrations.
func Migrate(ctx context.Context, database *sql.DB, command string) error {
	var run func() error
	switch command {
	case "", "up":
		run = func() error { return goose.UpContext(ctx, database, migrationsDir) }
	case "down":
		run = func() error { return goose.DownContext(ctx, database, migrationsDir) }
	case "status":
		run = func() error { return goose.StatusContext(ctx, database, migrationsDir) }
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return run()
}
