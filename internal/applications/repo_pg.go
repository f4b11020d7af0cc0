package applications

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"jobboard-backend/internal/shared/storage/db"
)

const uniqueJobApplicant = "applications_job_applicant_key"

const appColumns = `id, job_id, applicant_id, resume_filename, resume_original_name, resume_path,
  cover_letter, status, applied_at, created_at, updated_at`

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	const query = `
INSERT INTO applications (id, job_id, applicant_id, resume_filename, resume_original_name, resume_path,
  cover_letter, status, applied_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(), now())`
	var filename, original, path any
	if app.Resume != nil {
		filename, original, path = app.Resume.Filename, app.Resume.OriginalName, app.Resume.Path
	}
	_, err := r.DB.ExecContext(ctx, query,
		app.ID,
		app.JobID,
		app.ApplicantID,
		filename,
		original,
		path,
		app.CoverLetter,
		app.Status,
	)
	if db.IsUniqueViolation(err, uniqueJobApplicant) {
		return ErrDuplicate
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE id = $1 LIMIT 1`
	app, err := scanApp(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id, status string) (Application, error) {
	query := `UPDATE applications SET status = $2, updated_at = now() WHERE id = $1 RETURNING ` + appColumns
	app, err := scanApp(r.DB.QueryRowContext(ctx, query, id, status))
	if errors.Is(err, sql.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (r *PGRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE applicant_id = $1 ORDER BY applied_at DESC, id DESC`
	return r.list(ctx, query, applicantID)
}

func (r *PGRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE job_id = $1 ORDER BY applied_at DESC, id DESC`
	return r.list(ctx, query, jobID)
}

func (r *PGRepo) ListIDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(jobIDs) == 0 {
		return out, nil
	}
	const query = `SELECT job_id, id FROM applications WHERE job_id = ANY($1) ORDER BY applied_at ASC, id ASC`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(jobIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var jobID, id string
		if err := rows.Scan(&jobID, &id); err != nil {
			return nil, err
		}
		out[jobID] = append(out[jobID], id)
	}
	return out, rows.Err()
}

func (r *PGRepo) CountByResumeFilename(ctx context.Context, filename string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE resume_filename = $1`, filename).Scan(&n)
	return n, err
}

func (r *PGRepo) list(ctx context.Context, query string, arg string) ([]Application, error) {
	rows, err := r.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Application, 0)
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApp(row rowScanner) (Application, error) {
	var app Application
	var filename, original, path sql.NullString
	err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&filename,
		&original,
		&path,
		&app.CoverLetter,
		&app.Status,
		&app.AppliedAt,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return Application{}, err
	}
	if filename.Valid {
		app.Resume = &ResumeSnapshot{
			Filename:     filename.String,
			OriginalName: original.String,
			Path:         path.String,
		}
	}
	return app, nil
}
