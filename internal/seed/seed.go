// Package seed loads a sample employer and job listings for local development.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/users"
)

//go:embed sample_jobs.json
var sampleJobs []byte

// Employer is the account that owns the sample jobs.
type Employer struct {
	Name     string
	Email    string
	Password string
}

// DefaultEmployer is used when the caller does not override it.
var DefaultEmployer = Employer{
	Name:     "TechCorp HR",
	Email:    "hr@techcorp.com",
	Password: "password123",
}

type UserEnsurer interface {
	EnsureUser(ctx context.Context, in users.RegisterInput) (users.User, error)
}

type JobCreator interface {
	Create(ctx context.Context, subject authz.Subject, raw []byte) (jobs.View, error)
	ListMine(ctx context.Context, subject authz.Subject) ([]jobs.View, error)
}

// Run creates the employer if needed and the sample jobs when the employer
// has none yet. It returns the number of jobs created.
func Run(ctx context.Context, people UserEnsurer, listings JobCreator, employer Employer) (int, error) {
	user, err := people.EnsureUser(ctx, users.RegisterInput{
		Name:     employer.Name,
		Email:    employer.Email,
		Password: employer.Password,
		Role:     users.RoleEmployer,
	})
	if err != nil {
		return 0, fmt.Errorf("ensure employer: %w", err)
	}
	if user.Role != users.RoleEmployer {
		return 0, fmt.Errorf("seed account %s exists with role %s", user.Email, user.Role)
	}
	subject := authz.Subject{ID: user.ID, Role: user.Role}

	existing, err := listings.ListMine(ctx, subject)
	if err != nil {
		return 0, fmt.Errorf("list employer jobs: %w", err)
	}
	if len(existing) > 0 {
		telemetry.Info("seed.skipped", map[string]any{"employer": user.Email, "jobs": len(existing)})
		return 0, nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(sampleJobs, &docs); err != nil {
		return 0, fmt.Errorf("decode sample jobs: %w", err)
	}
	for i, doc := range docs {
		if _, err := listings.Create(ctx, subject, doc); err != nil {
			return i, fmt.Errorf("create sample job %d: %w", i, err)
		}
	}
	telemetry.Info("seed.complete", map[string]any{"employer": user.Email, "jobs": len(docs)})
	return len(docs), nil
}
