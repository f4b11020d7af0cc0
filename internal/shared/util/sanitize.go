package util

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidFileName is returned for names that could escape their directory.
var ErrInvalidFileName = errors.New("invalid file name")

// ValidateFileName rejects names containing path separators or traversal
// sequences. The name is returned trimmed.
func ValidateFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if strings.Contains(s, "..") || strings.ContainsAny(s, `/\`) || strings.ContainsRune(s, 0) {
		return "", ErrInvalidFileName
	}
	return s, nil
}

// Extension returns the lower-cased extension of an uploaded file's original
// name, limited to a short alphanumeric suffix. Anything else yields "".
func Extension(originalName string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(originalName)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
