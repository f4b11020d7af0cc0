package resumes

import (
	"strings"
	"time"
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxSize is the largest accepted upload, inclusive.
	MaxSize int64 = 5 << 20

	keyPrefix = "resumes/"
)

var extensionByMime = map[string]string{
	MimePDF:  ".pdf",
	MimeDOC:  ".doc",
	MimeDOCX: ".docx",
}

var mimeByExtension = map[string]string{
	".pdf":  MimePDF,
	".doc":  MimeDOC,
	".docx": MimeDOCX,
}

// AllowedMimeType reports whether uploads of this media type are accepted.
func AllowedMimeType(mimeType string) bool {
	_, ok := extensionByMime[normalizeMime(mimeType)]
	return ok
}

func normalizeMime(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}

type Resume struct {
	ID           string
	UserID       string
	Filename     string
	OriginalName string
	Path         string
	Size         int64
	MimeType     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
