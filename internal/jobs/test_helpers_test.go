package jobs

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/users"
)

const (
	employerID = "11111111-1111-1111-1111-111111111111"
	otherID    = "22222222-2222-2222-2222-222222222222"
	adminID    = "33333333-3333-3333-3333-333333333333"
	seekerID   = "44444444-4444-4444-4444-444444444444"
)

type fakeApplications map[string][]string

func (f fakeApplications) ListIDsByJobs(_ context.Context, jobIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range jobIDs {
		if apps, ok := f[id]; ok {
			out[id] = apps
		}
	}
	return out, nil
}

type fixture struct {
	svc  *Service
	repo *MemoryRepo
	apps fakeApplications
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	userRepo := users.NewMemoryRepo()
	for id, role := range map[string]string{
		employerID: users.RoleEmployer,
		otherID:    users.RoleEmployer,
		adminID:    users.RoleAdmin,
		seekerID:   users.RoleJobSeeker,
	} {
		if err := userRepo.Create(context.Background(), users.User{ID: id, Name: role + "-" + id[:4], Email: id[:8] + "@example.com", Role: role}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	repo := NewMemoryRepo()
	apps := fakeApplications{}
	return fixture{
		svc:  NewService(repo, users.NewService(userRepo, nil), apps),
		repo: repo,
		apps: apps,
	}
}

func subject(id string) authz.Subject {
	role := users.RoleEmployer
	switch id {
	case adminID:
		role = users.RoleAdmin
	case seekerID:
		role = users.RoleJobSeeker
	}
	return authz.Subject{ID: id, Role: role}
}

// asUser stands in for RequireAuth in handler tests.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			s := subject(id)
			c.Set("userId", s.ID)
			c.Set("userRole", s.Role)
		}
		c.Next()
	}
}

func (f fixture) mustCreate(t *testing.T, owner string, body string) View {
	t.Helper()
	v, err := f.svc.Create(context.Background(), subject(owner), []byte(body))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return v
}
