package resumes

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu     sync.Mutex
	byUser map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Resume)}
}

func (m *MemoryRepo) Replace(ctx context.Context, r Resume) (*Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var prev *Resume
	if old, ok := m.byUser[r.UserID]; ok {
		prev = &old
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.byUser[r.UserID] = r
	return prev, nil
}

func (m *MemoryRepo) GetByUser(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byUser[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) DeleteByUser(ctx context.Context, userID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byUser[userID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	delete(m.byUser, userID)
	return r, nil
}
