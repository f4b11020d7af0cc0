package applications

import (
	"time"

	"jobboard-backend/internal/users"
)

// JobSummary is the slice of a job shown next to an application.
type JobSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	SalaryRange string `json:"salaryRange"`
}

// View is an application with the job and applicant it refers to.
// Job is nil when the job no longer exists.
type View struct {
	Application
	Job       *JobSummary
	Applicant *users.Summary
}

type ApplicationResponse struct {
	ID          string          `json:"id"`
	JobID       string          `json:"jobId"`
	Job         *JobSummary     `json:"job"`
	ApplicantID string          `json:"applicantId"`
	Applicant   *users.Summary  `json:"applicant,omitempty"`
	Resume      *ResumeSnapshot `json:"resume"`
	CoverLetter string          `json:"coverLetter"`
	Status      string          `json:"status"`
	AppliedAt   time.Time       `json:"appliedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func toResponse(v View) ApplicationResponse {
	return ApplicationResponse{
		ID:          v.ID,
		JobID:       v.JobID,
		Job:         v.Job,
		ApplicantID: v.ApplicantID,
		Applicant:   v.Applicant,
		Resume:      v.Resume,
		CoverLetter: v.CoverLetter,
		Status:      v.Status,
		AppliedAt:   v.AppliedAt,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toResponses(views []View) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toResponse(v))
	}
	return out
}
