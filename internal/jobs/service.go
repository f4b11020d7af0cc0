package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/users"
)

// ApplicationIndex answers which applications belong to which jobs.
type ApplicationIndex interface {
	ListIDsByJobs(ctx context.Context, jobIDs []string) (map[string][]string, error)
}

// EmployerDirectory resolves job owners.
type EmployerDirectory interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Service struct {
	Repo         Repo
	Employers    EmployerDirectory
	Applications ApplicationIndex
}

func NewService(repo Repo, employers EmployerDirectory, applications ApplicationIndex) *Service {
	return &Service{Repo: repo, Employers: employers, Applications: applications}
}

// List returns one page of active jobs and the total number of matches.
func (s *Service) List(ctx context.Context, q Query) ([]View, int, error) {
	q = q.Normalize()
	q.ActiveOnly = true
	list, total, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	views, err := s.views(ctx, list)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (View, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, job)
}

// GetJob loads a job without its relations.
func (s *Service) GetJob(ctx context.Context, id string) (Job, error) {
	if err := validateID(id); err != nil {
		return Job{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

// Create validates raw against the job schema and stores it for the subject.
func (s *Service) Create(ctx context.Context, subject authz.Subject, raw []byte) (View, error) {
	if err := authz.Check(subject, authz.JobCreate, authz.Resource{}); err != nil {
		return View{}, err
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return View{}, err
	}
	if err := validateDocument(doc); err != nil {
		return View{}, err
	}
	in, err := doc.decode()
	if err != nil {
		return View{}, err
	}
	if err := checkSalary(in); err != nil {
		return View{}, err
	}
	if s.Employers != nil {
		if _, err := s.Employers.GetByID(ctx, subject.ID); err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return View{}, fmt.Errorf("%w: employer does not exist", ErrInvalidInput)
			}
			return View{}, err
		}
	}

	job := Job{
		ID:         uuid.NewString(),
		IsActive:   true,
		EmployerID: subject.ID,
	}
	in.applyTo(&job)
	if err := s.Repo.Create(ctx, job); err != nil {
		return View{}, err
	}
	metrics.IncJobCreated()
	return s.Get(ctx, job.ID)
}

// Update applies the supplied fields of raw to the job and revalidates the result.
func (s *Service) Update(ctx context.Context, id string, subject authz.Subject, raw []byte) (View, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := authz.Check(subject, authz.JobUpdate, authz.Resource{OwnerID: job.EmployerID}); err != nil {
		return View{}, err
	}
	patch, err := ParseDocument(raw)
	if err != nil {
		return View{}, err
	}
	base, err := documentFromJob(job)
	if err != nil {
		return View{}, err
	}
	doc := merge(base, patch)
	if err := validateDocument(doc); err != nil {
		return View{}, err
	}
	in, err := doc.decode()
	if err != nil {
		return View{}, err
	}
	if err := checkSalary(in); err != nil {
		return View{}, err
	}
	in.applyTo(&job)
	if err := s.Repo.Update(ctx, job); err != nil {
		return View{}, err
	}
	return s.Get(ctx, job.ID)
}

func (s *Service) Delete(ctx context.Context, id string, subject authz.Subject) error {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.Check(subject, authz.JobDelete, authz.Resource{OwnerID: job.EmployerID}); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.IncJobDeleted()
	return nil
}

// ListMine returns every job owned by the subject, active or not.
func (s *Service) ListMine(ctx context.Context, subject authz.Subject) ([]View, error) {
	if err := authz.Check(subject, authz.JobListOwn, authz.Resource{OwnerID: subject.ID}); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByEmployer(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, list)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.Repo.Count(ctx)
}

func (s *Service) view(ctx context.Context, job Job) (View, error) {
	views, err := s.views(ctx, []Job{job})
	if err != nil {
		return View{}, err
	}
	return views[0], nil
}

func (s *Service) views(ctx context.Context, list []Job) ([]View, error) {
	ids := make([]string, 0, len(list))
	for _, j := range list {
		ids = append(ids, j.ID)
	}
	apps := map[string][]string{}
	if s.Applications != nil && len(ids) > 0 {
		var err error
		apps, err = s.Applications.ListIDsByJobs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list job applications: %w", err)
		}
	}

	employers := make(map[string]users.Summary)
	out := make([]View, 0, len(list))
	for _, j := range list {
		summary, ok := employers[j.EmployerID]
		if !ok {
			summary = users.Summary{ID: j.EmployerID}
			if s.Employers != nil {
				u, err := s.Employers.GetByID(ctx, j.EmployerID)
				switch {
				case err == nil:
					summary = u.Summary()
				case !errors.Is(err, users.ErrNotFound):
					return nil, fmt.Errorf("load employer: %w", err)
				}
			}
			employers[j.EmployerID] = summary
		}
		out = append(out, View{Job: j, Employer: summary, Applications: apps[j.ID]})
	}
	return out, nil
}

func documentFromJob(j Job) (Document, error) {
	raw, err := json.Marshal(inputFromJob(j))
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkSalary(in Input) error {
	if in.Salary == nil || in.Salary.Min == nil || in.Salary.Max == nil {
		return nil
	}
	if *in.Salary.Min > *in.Salary.Max {
		return fmt.Errorf("%w: salary.min must not exceed salary.max", ErrInvalidInput)
	}
	return nil
}

func validateID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("%w: invalid job id", ErrInvalidInput)
	}
	return nil
}
