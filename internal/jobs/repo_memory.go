package jobs

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Job)}
}

func (r *MemoryRepo) Create(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = job.CreatedAt
	r.jobs[job.ID] = job.clone()
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Job, error) {
	if err := ctx.Err(); err != nil {
		return Job{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job.clone(), nil
}

func (r *MemoryRepo) Update(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok {
		return ErrNotFound
	}
	job.CreatedAt = existing.CreatedAt
	job.EmployerID = existing.EmployerID
	job.UpdatedAt = time.Now().UTC()
	r.jobs[job.ID] = job.clone()
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, q Query) ([]Job, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	q = q.Normalize()
	r.mu.RLock()
	matched := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		if q.Filter.Matches(job) {
			matched = append(matched, job.clone())
		}
	}
	r.mu.RUnlock()

	SortJobs(matched, q.Sort)
	total := len(matched)
	start := q.Offset()
	if start >= total {
		return []Job{}, total, nil
	}
	end := total
	if q.Limit < total-start {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (r *MemoryRepo) ListByEmployer(ctx context.Context, employerID string) ([]Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Job, 0)
	for _, job := range r.jobs {
		if job.EmployerID == employerID {
			out = append(out, job.clone())
		}
	}
	r.mu.RUnlock()
	SortJobs(out, SortNewest)
	return out, nil
}

func (r *MemoryRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs), nil
}
