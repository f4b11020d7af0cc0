package resumes

import "context"

type Repo interface {
	// Replace makes r the user's only résumé and returns the one it displaced, if any.
	Replace(ctx context.Context, r Resume) (*Resume, error)
	GetByUser(ctx context.Context, userID string) (Resume, error)
	// DeleteByUser removes the user's résumé and returns it. ErrNotFound when there is none.
	DeleteByUser(ctx context.Context, userID string) (Resume, error)
}
