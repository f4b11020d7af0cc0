package jobs

import "time"

const (
	TypeFullTime   = "Full-time"
	TypePartTime   = "Part-time"
	TypeContract   = "Contract"
	TypeInternship = "Internship"
	TypeRemote     = "Remote"
)

const (
	ExperienceEntry  = "Entry Level"
	ExperienceMid    = "Mid Level"
	ExperienceSenior = "Senior Level"
)

const (
	CategoryTechnology = "Technology"
	CategoryMarketing  = "Marketing"
	CategoryFinance    = "Finance"
	CategoryHealthcare = "Healthcare"
	CategoryDesign     = "Design"
	CategorySales      = "Sales"
	CategoryOther      = "Other"
)

const DefaultCurrency = "USD"

type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
}

type Job struct {
	ID                  string
	Title               string
	Company             string
	Location            string
	Type                string
	Experience          string
	Salary              Salary
	SalaryRange         string
	Category            string
	Description         string
	Requirements        string
	Skills              []string
	Benefits            []string
	ApplicationDeadline *time.Time
	IsActive            bool
	IsFeatured          bool
	EmployerID          string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (j Job) clone() Job {
	out := j
	out.Skills = append([]string(nil), j.Skills...)
	out.Benefits = append([]string(nil), j.Benefits...)
	if j.Salary.Min != nil {
		v := *j.Salary.Min
		out.Salary.Min = &v
	}
	if j.Salary.Max != nil {
		v := *j.Salary.Max
		out.Salary.Max = &v
	}
	if j.ApplicationDeadline != nil {
		v := *j.ApplicationDeadline
		out.ApplicationDeadline = &v
	}
	return out
}
