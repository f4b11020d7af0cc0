package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	user := User{ID: "u1", Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Role: RoleJobSeeker}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Name, user.Email, user.PasswordHash, user.Role).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	if err := repo.Create(context.Background(), user); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("u1", "Ada", "ada@example.com", "hash", RoleEmployer, now, now)
	mock.ExpectQuery("FROM users").WithArgs("ADA@example.com").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	user, err := repo.GetByEmail(context.Background(), "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.ID != "u1" || user.Role != RoleEmployer {
		t.Fatalf("unexpected user: %+v", user)
	}

	mock.ExpectQuery("FROM users").WithArgs("u2").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	if _, err := repo.GetByID(context.Background(), "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
