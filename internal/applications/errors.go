package applications

import "errors"

var (
	ErrNotFound     = errors.New("application not found")
	ErrInvalidInput = errors.New("invalid application input")
	ErrDuplicate    = errors.New("already applied for this job")
)
