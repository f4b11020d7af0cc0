package applications

import (
	"context"
	"sort"
	"sync"
	"time"
)

type pairKey struct {
	jobID       string
	applicantID string
}

type MemoryRepo struct {
	mu    sync.RWMutex
	apps  map[string]Application
	pairs map[pairKey]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		apps:  make(map[string]Application),
		pairs: make(map[pairKey]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := pairKey{jobID: app.JobID, applicantID: app.ApplicantID}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pairs[key]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = now
	}
	app.CreatedAt = now
	app.UpdatedAt = now
	r.apps[app.ID] = copyApp(app)
	r.pairs[key] = app.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return copyApp(app), nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id, status string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	r.apps[id] = app
	return copyApp(app), nil
}

func (r *MemoryRepo) ListByApplicant(ctx context.Context, applicantID string) ([]Application, error) {
	return r.filter(ctx, func(a Application) bool { return a.ApplicantID == applicantID })
}

func (r *MemoryRepo) ListByJob(ctx context.Context, jobID string) ([]Application, error) {
	return r.filter(ctx, func(a Application) bool { return a.JobID == jobID })
}

func (r *MemoryRepo) ListIDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error) {
	want := make(map[string]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		want[id] = struct{}{}
	}
	list, err := r.filter(ctx, func(a Application) bool {
		_, ok := want[a.JobID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for i := len(list) - 1; i >= 0; i-- {
		out[list[i].JobID] = append(out[list[i].JobID], list[i].ID)
	}
	return out, nil
}

func (r *MemoryRepo) CountByResumeFilename(ctx context.Context, filename string) (int, error) {
	list, err := r.filter(ctx, func(a Application) bool {
		return a.Resume != nil && a.Resume.Filename == filename
	})
	return len(list), err
}

// filter returns matches newest first.
func (r *MemoryRepo) filter(ctx context.Context, keep func(Application) bool) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Application, 0)
	for _, app := range r.apps {
		if keep(app) {
			out = append(out, copyApp(app))
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AppliedAt.Equal(out[j].AppliedAt) {
			return out[i].AppliedAt.After(out[j].AppliedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func copyApp(a Application) Application {
	if a.Resume != nil {
		snap := *a.Resume
		a.Resume = &snap
	}
	return a
}
