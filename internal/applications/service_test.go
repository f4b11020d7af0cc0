package applications

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"jobboard-backend/internal/authz"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/users"
)

const (
	employerID = "11111111-1111-1111-1111-111111111111"
	otherID    = "22222222-2222-2222-2222-222222222222"
	adminID    = "33333333-3333-3333-3333-333333333333"
	seekerID   = "44444444-4444-4444-4444-444444444444"
	seeker2ID  = "55555555-5555-5555-5555-555555555555"
)

const jobJSON = `{
  "title": "Data Scientist", "company": "DataInsights LLC", "location": "Remote",
  "type": "Full-time", "experience": "Senior Level", "salaryRange": "$110,000 - $150,000",
  "category": "Technology", "description": "Analyze datasets", "requirements": "Python"
}`

type fakeResumes map[string]*ResumeSnapshot

func (f fakeResumes) WithActiveSnapshot(_ context.Context, userID string, fn func(*ResumeSnapshot) error) error {
	return fn(f[userID])
}

type fixture struct {
	svc     *Service
	jobs    *jobs.Service
	repo    *MemoryRepo
	resumes fakeResumes
}

func roleOf(id string) string {
	switch id {
	case employerID, otherID:
		return users.RoleEmployer
	case adminID:
		return users.RoleAdmin
	}
	return users.RoleJobSeeker
}

func subject(id string) authz.Subject {
	return authz.Subject{ID: id, Role: roleOf(id)}
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	userRepo := users.NewMemoryRepo()
	for i, id := range []string{employerID, otherID, adminID, seekerID, seeker2ID} {
		u := users.User{ID: id, Name: "user" + string(rune('A'+i)), Email: id[:8] + "@example.com", Role: roleOf(id)}
		if err := userRepo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	people := users.NewService(userRepo, nil)
	repo := NewMemoryRepo()
	jobSvc := jobs.NewService(jobs.NewMemoryRepo(), people, repo)
	resumes := fakeResumes{}
	return fixture{
		svc:     NewService(repo, jobSvc, people, resumes),
		jobs:    jobSvc,
		repo:    repo,
		resumes: resumes,
	}
}

func (f fixture) newJob(t *testing.T, owner string) string {
	t.Helper()
	v, err := f.jobs.Create(context.Background(), subject(owner), []byte(jobJSON))
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	return v.ID
}

func TestApplyCapturesResumeAndEmbedsRelations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := f.newJob(t, employerID)
	f.resumes[seekerID] = &ResumeSnapshot{Filename: "resume-1-2.pdf", OriginalName: "cv.pdf", Path: "resumes/resume-1-2.pdf"}

	v, err := f.svc.Apply(ctx, subject(seekerID), jobID, "Hire me")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if v.Status != StatusPending {
		t.Fatalf("expected pending, got %s", v.Status)
	}
	if v.Resume == nil || v.Resume.Filename != "resume-1-2.pdf" {
		t.Fatalf("resume snapshot missing: %+v", v.Resume)
	}
	if v.Job == nil || v.Job.Title != "Data Scientist" || v.Applicant == nil || v.Applicant.ID != seekerID {
		t.Fatalf("relations not embedded: job=%+v applicant=%+v", v.Job, v.Applicant)
	}

	f.resumes[seekerID] = &ResumeSnapshot{Filename: "resume-9-9.pdf"}
	got, err := f.repo.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Resume.Filename != "resume-1-2.pdf" {
		t.Fatalf("snapshot must not follow later uploads, got %s", got.Resume.Filename)
	}

	job, err := f.jobs.Get(ctx, jobID)
	if err != nil {
		t.Fatalf("job Get: %v", err)
	}
	if len(job.Applications) != 1 || job.Applications[0] != v.ID {
		t.Fatalf("job applications not derived: %v", job.Applications)
	}
}

func TestApplyErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := f.newJob(t, employerID)

	if _, err := f.svc.Apply(ctx, subject(seekerID), "99999999-9999-9999-9999-999999999999", ""); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("expected jobs.ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, subject(seekerID), "nope", ""); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Fatalf("expected jobs.ErrInvalidInput, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, subject(seekerID), jobID, strings.Repeat("é", MaxCoverLetterLen+1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long cover letter, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, subject(seekerID), jobID, strings.Repeat("é", MaxCoverLetterLen)); err != nil {
		t.Fatalf("1000 characters must be accepted: %v", err)
	}
	if _, err := f.svc.Apply(ctx, subject(seekerID), jobID, "again"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestConcurrentApplyCreatesExactlyOne(t *testing.T) {
	f := newFixture(t)
	jobID := f.newJob(t, employerID)

	const workers = 16
	var wg sync.WaitGroup
	var ok, dup int32
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Apply(context.Background(), subject(seekerID), jobID, "")
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrDuplicate):
				atomic.AddInt32(&dup, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || dup != workers-1 {
		t.Fatalf("expected 1 success and %d duplicates, got %d and %d", workers-1, ok, dup)
	}
	list, err := f.repo.ListByJob(context.Background(), jobID)
	if err != nil {
		t.Fatalf("ListByJob: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one stored application, got %d", len(list))
	}
}

func TestListForJobAndSetStatusOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	jobID := f.newJob(t, employerID)

	first, err := f.svc.Apply(ctx, subject(seekerID), jobID, "")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := f.svc.Apply(ctx, subject(seeker2ID), jobID, ""); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	for _, who := range []string{otherID, adminID, seekerID} {
		if _, err := f.svc.ListForJob(ctx, jobID, subject(who)); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden listing, got %v", who, err)
		}
		if _, _, err := f.svc.SetStatus(ctx, first.ID, subject(who), StatusAccepted); !errors.Is(err, authz.ErrForbidden) {
			t.Fatalf("%s: expected ErrForbidden on status, got %v", who, err)
		}
	}

	list, err := f.svc.ListForJob(ctx, jobID, subject(employerID))
	if err != nil {
		t.Fatalf("ListForJob: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(list))
	}
	if !list[0].AppliedAt.After(list[1].AppliedAt) && !list[0].AppliedAt.Equal(list[1].AppliedAt) {
		t.Fatalf("expected newest first")
	}

	v, prev, err := f.svc.SetStatus(ctx, first.ID, subject(employerID), StatusAccepted)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if prev != StatusPending || v.Status != StatusAccepted {
		t.Fatalf("unexpected transition %s -> %s", prev, v.Status)
	}
	if _, _, err := f.svc.SetStatus(ctx, first.ID, subject(employerID), StatusPending); err != nil {
		t.Fatalf("any status may follow any other: %v", err)
	}
	if _, _, err := f.svc.SetStatus(ctx, first.ID, subject(employerID), "hired"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := f.svc.SetStatus(ctx, "00000000-0000-0000-0000-000000000000", subject(employerID), StatusReviewed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMineSurvivesDeletedJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	keep := f.newJob(t, employerID)
	gone := f.newJob(t, employerID)

	for _, id := range []string{keep, gone} {
		if _, err := f.svc.Apply(ctx, subject(seekerID), id, ""); err != nil {
			t.Fatalf("Apply: %v", err)
		}
	}
	if err := f.jobs.Delete(ctx, gone, subject(employerID)); err != nil {
		t.Fatalf("delete job: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, subject(seekerID))
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(mine))
	}
	missing := 0
	for _, v := range mine {
		if v.Job == nil {
			missing++
		}
	}
	if missing != 1 {
		t.Fatalf("expected exactly one application without job, got %d", missing)
	}
}
