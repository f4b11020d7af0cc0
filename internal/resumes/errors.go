package resumes

import "errors"

var (
	ErrNotFound        = errors.New("resume not found")
	ErrNoFile          = errors.New("no file uploaded")
	ErrUnsupportedType = errors.New("only PDF, DOC, and DOCX files are allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrInvalidFileName = errors.New("invalid file name")
	ErrConflict        = errors.New("concurrent resume update")
)
