package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/users"
)

// JobLookup loads jobs by id.
type JobLookup interface {
	GetJob(ctx context.Context, id string) (jobs.Job, error)
}

// PeopleDirectory loads applicants by id.
type PeopleDirectory interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// ResumeLookup runs fn with the caller's active résumé, or nil when there is
// none, keeping that résumé in place until fn returns.
type ResumeLookup interface {
	WithActiveSnapshot(ctx context.Context, userID string, fn func(*ResumeSnapshot) error) error
}

type Service struct {
	Repo    Repo
	Jobs    JobLookup
	People  PeopleDirectory
	Resumes ResumeLookup
}

func NewService(repo Repo, jobLookup JobLookup, people PeopleDirectory, resumes ResumeLookup) *Service {
	return &Service{Repo: repo, Jobs: jobLookup, People: people, Resumes: resumes}
}

// Apply records the subject's application to jobID with their current résumé.
func (s *Service) Apply(ctx context.Context, subject authz.Subject, jobID, coverLetter string) (View, error) {
	if utf8.RuneCountInString(coverLetter) > MaxCoverLetterLen {
		return View{}, fmt.Errorf("%w: Cover letter cannot be more than %d characters", ErrInvalidInput, MaxCoverLetterLen)
	}
	job, err := s.Jobs.GetJob(ctx, strings.TrimSpace(jobID))
	if err != nil {
		return View{}, err
	}

	app := Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		ApplicantID: subject.ID,
		CoverLetter: coverLetter,
		Status:      StatusPending,
	}
	create := func(snapshot *ResumeSnapshot) error {
		app.Resume = snapshot
		return s.Repo.Create(ctx, app)
	}
	if s.Resumes != nil {
		err = s.Resumes.WithActiveSnapshot(ctx, subject.ID, create)
	} else {
		err = create(nil)
	}
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			metrics.IncApplicationDuplicate()
		}
		return View{}, err
	}
	metrics.IncApplicationSubmitted()

	created, err := s.Repo.GetByID(ctx, app.ID)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, created, &job)
}

// ListMine returns the subject's applications, newest first.
func (s *Service) ListMine(ctx context.Context, subject authz.Subject) ([]View, error) {
	list, err := s.Repo.ListByApplicant(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(list))
	for _, app := range list {
		v, err := s.view(ctx, app, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ListForJob returns the applications to a job. Only the job's owner may list them.
func (s *Service) ListForJob(ctx context.Context, jobID string, subject authz.Subject) ([]View, error) {
	job, err := s.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(subject, authz.ApplicationListForJob, authz.Resource{OwnerID: job.EmployerID}); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(list))
	for _, app := range list {
		v, err := s.view(ctx, app, &job)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// SetStatus moves an application to status and returns it with the previous status.
func (s *Service) SetStatus(ctx context.Context, id string, subject authz.Subject, status string) (View, string, error) {
	status = strings.TrimSpace(status)
	if !ValidStatus(status) {
		return View{}, "", fmt.Errorf("%w: status must be one of pending, reviewed, accepted, rejected", ErrInvalidInput)
	}
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return View{}, "", fmt.Errorf("%w: invalid application id", ErrInvalidInput)
	}
	app, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return View{}, "", err
	}
	job, err := s.Jobs.GetJob(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return View{}, "", ErrNotFound
		}
		return View{}, "", err
	}
	if err := authz.Check(subject, authz.ApplicationSetStatus, authz.Resource{OwnerID: job.EmployerID}); err != nil {
		return View{}, "", err
	}
	updated, err := s.Repo.UpdateStatus(ctx, app.ID, status)
	if err != nil {
		return View{}, "", err
	}
	metrics.IncStatusChange()
	v, err := s.view(ctx, updated, &job)
	return v, app.Status, err
}

func (s *Service) view(ctx context.Context, app Application, job *jobs.Job) (View, error) {
	v := View{Application: app}
	if job == nil {
		j, err := s.Jobs.GetJob(ctx, app.JobID)
		switch {
		case err == nil:
			job = &j
		case !errors.Is(err, jobs.ErrNotFound):
			return View{}, fmt.Errorf("load job: %w", err)
		}
	}
	if job != nil {
		v.Job = &JobSummary{
			ID:          job.ID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Type:        job.Type,
			SalaryRange: job.SalaryRange,
		}
	}
	if s.People != nil {
		u, err := s.People.GetByID(ctx, app.ApplicantID)
		switch {
		case err == nil:
			summary := u.Summary()
			v.Applicant = &summary
		case !errors.Is(err, users.ErrNotFound):
			return View{}, fmt.Errorf("load applicant: %w", err)
		}
	}
	return v, nil
}
