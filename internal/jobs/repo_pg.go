package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, title, company, location, type, experience,
  salary_min, salary_max, salary_currency, salary_range, category,
  description, requirements, skills, benefits, application_deadline,
  is_active, is_featured, employer_id, created_at, updated_at`

const searchVector = `to_tsvector('english', title || ' ' || description || ' ' || company)`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (` + jobColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Experience,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		job.SalaryRange,
		job.Category,
		job.Description,
		job.Requirements,
		pq.Array(nonNil(job.Skills)),
		pq.Array(nonNil(job.Benefits)),
		job.ApplicationDeadline,
		job.IsActive,
		job.IsFeatured,
		job.EmployerID,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	job, err := scanJob(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}
	return job, nil
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE jobs SET
  title = $2,
  company = $3,
  location = $4,
  type = $5,
  experience = $6,
  salary_min = $7,
  salary_max = $8,
  salary_currency = $9,
  salary_range = $10,
  category = $11,
  description = $12,
  requirements = $13,
  skills = $14,
  benefits = $15,
  application_deadline = $16,
  is_active = $17,
  is_featured = $18,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Type,
		job.Experience,
		job.Salary.Min,
		job.Salary.Max,
		job.Salary.Currency,
		job.SalaryRange,
		job.Category,
		job.Description,
		job.Requirements,
		pq.Array(nonNil(job.Skills)),
		pq.Array(nonNil(job.Benefits)),
		job.ApplicationDeadline,
		job.IsActive,
		job.IsFeatured,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Job, int, error) {
	q = q.Normalize()
	where, args := buildWhere(q.Filter)

	var total int
	countQuery := `SELECT count(*) FROM jobs` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	if q.Offset() >= total {
		return []Job{}, total, nil
	}

	n := len(args)
	listQuery := `SELECT ` + jobColumns + ` FROM jobs` + where +
		` ORDER BY ` + orderBy(q.Sort) +
		` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := r.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	list, err := scanJobs(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *PGRepo) ListByEmployer(ctx context.Context, employerID string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE employer_id = $1 ORDER BY ` + orderBy(SortNewest)
	rows, err := r.DB.QueryContext(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *PGRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM jobs`).Scan(&n)
	return n, err
}

type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends clause with its single "?" placeholder renumbered.
func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(w.args)), 1))
}

func buildWhere(f Filter) (string, []any) {
	var w whereBuilder
	if f.ActiveOnly {
		w.clauses = append(w.clauses, "is_active")
	}
	if terms := keywordTerms(f.Keyword); len(terms) > 0 {
		w.add(searchVector+" @@ to_tsquery('english', ?)", strings.Join(terms, " | "))
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Experience != "" {
		w.add("experience = ?", f.Experience)
	}
	if f.Location != "" {
		w.add(`location ILIKE ? ESCAPE '\'`, "%"+escapeLike(f.Location)+"%")
	}
	if len(w.clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(w.clauses, " AND "), w.args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func orderBy(s Sort) string {
	switch s {
	case SortOldest:
		return "created_at ASC, id ASC"
	case SortSalaryHigh:
		return "salary_max DESC NULLS LAST, created_at DESC, id DESC"
	case SortSalaryLow:
		return "salary_min ASC NULLS FIRST, created_at DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var salaryMin, salaryMax sql.NullFloat64
	var deadline sql.NullTime
	var skills, benefits pq.StringArray
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Type,
		&job.Experience,
		&salaryMin,
		&salaryMax,
		&job.Salary.Currency,
		&job.SalaryRange,
		&job.Category,
		&job.Description,
		&job.Requirements,
		&skills,
		&benefits,
		&deadline,
		&job.IsActive,
		&job.IsFeatured,
		&job.EmployerID,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return Job{}, err
	}
	if salaryMin.Valid {
		v := salaryMin.Float64
		job.Salary.Min = &v
	}
	if salaryMax.Valid {
		v := salaryMax.Float64
		job.Salary.Max = &v
	}
	if deadline.Valid {
		t := deadline.Time
		job.ApplicationDeadline = &t
	}
	job.Skills = []string(skills)
	job.Benefits = []string(benefits)
	return job, nil
}

func scanJobs(rows *sql.Rows) ([]Job, error) {
	out := make([]Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
