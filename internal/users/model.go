package users

import "time"

const (
	RoleJobSeeker = "job_seeker"
	RoleEmployer  = "employer"
	RoleAdmin     = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Summary is the public slice of a user embedded in other resources.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// SelfAssignable reports whether a role can be chosen at registration.
func SelfAssignable(role string) bool {
	return role == RoleJobSeeker || role == RoleEmployer
}
