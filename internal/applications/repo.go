package applications

import "context"

type Repo interface {
	// Create fails with ErrDuplicate when the applicant already applied to the job.
	Create(ctx context.Context, app Application) error
	GetByID(ctx context.Context, id string) (Application, error)
	UpdateStatus(ctx context.Context, id, status string) (Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	ListIDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error)
	CountByResumeFilename(ctx context.Context, filename string) (int, error)
}
