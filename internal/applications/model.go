package applications

import "time"

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

const MaxCoverLetterLen = 1000

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusReviewed, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// ResumeSnapshot records which résumé file was active when the application was made.
type ResumeSnapshot struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Path         string `json:"path"`
}

type Application struct {
	ID          string
	JobID       string
	ApplicantID string
	Resume      *ResumeSnapshot
	CoverLetter string
	Status      string
	AppliedAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
