package db

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestEmbeddedMigrationsAreAnnotated(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected embedded migrations")
	}
	for _, entry := range entries {
		raw, err := fs.ReadFile(migrationFiles, "migrations/"+entry.Name())
		if err != nil {
			t.Fatalf("read %s: %v", entry.Name(), err)
		}
		body := string(raw)
		if !strings.Contains(body, "-- +goose Up") || !strings.Contains(body, "-- +goose Down") {
			t.Fatalf("%s missing goose annotations", entry.Name())
		}
	}
}

func TestApplicationsMigrationDeclaresPairUniqueness(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/00004_applications.sql")
	if err != nil {
		t.Fatalf("read applications migration: %v", err)
	}
	if !strings.Contains(string(raw), "UNIQUE (job_id, applicant_id)") {
		t.Fatalf("applications migration must enforce one application per job and applicant")
	}
}

func TestApplicationsOutliveTheirJob(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/00004_applications.sql")
	if err != nil {
		t.Fatalf("read applications migration: %v", err)
	}
	body := string(raw)
	if strings.Contains(body, "REFERENCES jobs") || strings.Contains(body, "ON DELETE CASCADE") {
		t.Fatalf("deleting a job must not remove or block its applications")
	}
}

func TestRunMigrationsNilDatabaseIsNoop(t *testing.T) {
	if err := RunMigrations(context.Background(), nil); err != nil {
		t.Fatalf("expected nil database to be a no-op, got %v", err)
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	if err := Migrate(context.Background(), nil, "sideways"); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	for _, cmd := range []string{"", "up", "down", "status"} {
		if err := Migrate(context.Background(), nil, cmd); err != nil {
			t.Fatalf("%q with nil database: %v", cmd, err)
		}
	}
}
