package jobs

import "context"

type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	Update(ctx context.Context, job Job) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q Query) ([]Job, int, error)
	ListByEmployer(ctx context.Context, employerID string) ([]Job, error)
	Count(ctx context.Context) (int, error)
}
