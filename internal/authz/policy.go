// Package authz holds the access rules for job board resources.
package authz

import (
	"errors"

	"jobboard-backend/internal/users"
)

var ErrForbidden = errors.New("forbidden")

type Action string

const (
	JobCreate             Action = "job:create"
	JobUpdate             Action = "job:update"
	JobDelete             Action = "job:delete"
	JobListOwn            Action = "job:list-own"
	ApplicationListForJob Action = "application:list-for-job"
	ApplicationSetStatus  Action = "application:set-status"
)

// Subject is the caller.
type Subject struct {
	ID   string
	Role string
}

// Resource carries the owner of the thing being acted on. For application
// actions the owner is the employer of the job the application belongs to.
type Resource struct {
	OwnerID string
}

type rule func(Subject, Resource) bool

func isOwner(s Subject, r Resource) bool {
	return s.ID != "" && s.ID == r.OwnerID
}

func ownerOrAdmin(s Subject, r Resource) bool {
	return isOwner(s, r) || s.Role == users.RoleAdmin
}

func isEmployer(s Subject, _ Resource) bool {
	return s.Role == users.RoleEmployer
}

var policy = map[Action]rule{
	JobCreate:             isEmployer,
	JobListOwn:            isEmployer,
	JobUpdate:             ownerOrAdmin,
	JobDelete:             ownerOrAdmin,
	ApplicationListForJob: isOwner,
	ApplicationSetStatus:  isOwner,
}

// Check returns ErrForbidden unless subject may perform action on res.
// Unknown actions are denied.
func Check(subject Subject, action Action, res Resource) error {
	allow, ok := policy[action]
	if !ok || !allow(subject, res) {
		return ErrForbidden
	}
	return nil
}
