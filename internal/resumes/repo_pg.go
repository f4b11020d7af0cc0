package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobboard-backend/internal/shared/storage/db"
)

const resumeColumns = `id, user_id, filename, original_name, path, size_bytes, mime_type, is_active, created_at, updated_at`

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Replace(ctx context.Context, res Resume) (*Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var prev *Resume
	old, err := scanResume(tx.QueryRowContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 FOR UPDATE`, res.UserID))
	switch {
	case err == nil:
		prev = &old
		if _, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, old.ID); err != nil {
			return nil, fmt.Errorf("delete previous: %w", err)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("load previous: %w", err)
	}

	const insert = `
INSERT INTO resumes (id, user_id, filename, original_name, path, size_bytes, mime_type, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())`
	_, err = tx.ExecContext(ctx, insert,
		res.ID,
		res.UserID,
		res.Filename,
		res.OriginalName,
		res.Path,
		res.Size,
		res.MimeType,
		res.IsActive,
	)
	if err != nil {
		if db.IsUniqueViolation(err, "resumes_user_key") {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return prev, nil
}

func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 LIMIT 1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return res, err
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) (Resume, error) {
	res, err := scanResume(r.DB.QueryRowContext(ctx,
		`DELETE FROM resumes WHERE user_id = $1 RETURNING `+resumeColumns, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return res, err
}

func scanResume(row *sql.Row) (Resume, error) {
	var res Resume
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.Filename,
		&res.OriginalName,
		&res.Path,
		&res.Size,
		&res.MimeType,
		&res.IsActive,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	return res, err
}
