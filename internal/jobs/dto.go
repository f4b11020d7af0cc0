package jobs

import (
	"strings"
	"time"

	"jobboard-backend/internal/users"
)

type SalaryInput struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency,omitempty"`
}

// Input is the typed form of a validated Document.
type Input struct {
	Title               string       `json:"title"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	Type                string       `json:"type"`
	Experience          string       `json:"experience"`
	Salary              *SalaryInput `json:"salary,omitempty"`
	SalaryRange         string       `json:"salaryRange"`
	Category            string       `json:"category"`
	Description         string       `json:"description"`
	Requirements        string       `json:"requirements"`
	Skills              []string     `json:"skills,omitempty"`
	Benefits            []string     `json:"benefits,omitempty"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline,omitempty"`
	IsActive            *bool        `json:"isActive,omitempty"`
	IsFeatured          *bool        `json:"isFeatured,omitempty"`
}

func inputFromJob(j Job) Input {
	active, featured := j.IsActive, j.IsFeatured
	in := Input{
		Title:               j.Title,
		Company:             j.Company,
		Location:            j.Location,
		Type:                j.Type,
		Experience:          j.Experience,
		SalaryRange:         j.SalaryRange,
		Category:            j.Category,
		Description:         j.Description,
		Requirements:        j.Requirements,
		Skills:              j.Skills,
		Benefits:            j.Benefits,
		ApplicationDeadline: j.ApplicationDeadline,
		IsActive:            &active,
		IsFeatured:          &featured,
	}
	if j.Salary.Min != nil || j.Salary.Max != nil || (j.Salary.Currency != "" && j.Salary.Currency != DefaultCurrency) {
		in.Salary = &SalaryInput{Min: j.Salary.Min, Max: j.Salary.Max, Currency: j.Salary.Currency}
	}
	return in
}

// applyTo copies the input onto j. Unset flags keep the job defaults.
func (in Input) applyTo(j *Job) {
	j.Title = strings.TrimSpace(in.Title)
	j.Company = strings.TrimSpace(in.Company)
	j.Location = strings.TrimSpace(in.Location)
	j.Type = in.Type
	j.Experience = in.Experience
	j.SalaryRange = strings.TrimSpace(in.SalaryRange)
	j.Category = in.Category
	j.Description = in.Description
	j.Requirements = in.Requirements
	j.Skills = trimAll(in.Skills)
	j.Benefits = trimAll(in.Benefits)
	j.ApplicationDeadline = in.ApplicationDeadline
	j.Salary = Salary{Currency: DefaultCurrency}
	if in.Salary != nil {
		j.Salary.Min = in.Salary.Min
		j.Salary.Max = in.Salary.Max
		if in.Salary.Currency != "" {
			j.Salary.Currency = in.Salary.Currency
		}
	}
	if in.IsActive != nil {
		j.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		j.IsFeatured = *in.IsFeatured
	}
}

func trimAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// View is a job with its derived relations.
type View struct {
	Job
	Employer     users.Summary
	Applications []string
}

// JobResponse is the outward-facing representation of a job.
type JobResponse struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	Company             string        `json:"company"`
	Location            string        `json:"location"`
	Type                string        `json:"type"`
	Experience          string        `json:"experience"`
	Salary              Salary        `json:"salary"`
	SalaryRange         string        `json:"salaryRange"`
	Category            string        `json:"category"`
	Description         string        `json:"description"`
	Requirements        string        `json:"requirements"`
	Skills              []string      `json:"skills"`
	Benefits            []string      `json:"benefits"`
	ApplicationDeadline *time.Time    `json:"applicationDeadline,omitempty"`
	IsActive            bool          `json:"isActive"`
	IsFeatured          bool          `json:"isFeatured"`
	Employer            users.Summary `json:"employer"`
	Applications        []string      `json:"applications"`
	CreatedAt           time.Time     `json:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

func toResponse(v View) JobResponse {
	skills := v.Skills
	if skills == nil {
		skills = []string{}
	}
	benefits := v.Benefits
	if benefits == nil {
		benefits = []string{}
	}
	apps := v.Applications
	if apps == nil {
		apps = []string{}
	}
	return JobResponse{
		ID:                  v.ID,
		Title:               v.Title,
		Company:             v.Company,
		Location:            v.Location,
		Type:                v.Type,
		Experience:          v.Experience,
		Salary:              v.Salary,
		SalaryRange:         v.SalaryRange,
		Category:            v.Category,
		Description:         v.Description,
		Requirements:        v.Requirements,
		Skills:              skills,
		Benefits:            benefits,
		ApplicationDeadline: v.ApplicationDeadline,
		IsActive:            v.IsActive,
		IsFeatured:          v.IsFeatured,
		Employer:            v.Employer,
		Applications:        apps,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
}

func toResponses(views []View) []JobResponse {
	out := make([]JobResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toResponse(v))
	}
	return out
}
