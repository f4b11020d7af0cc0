package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/extract"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/storage/object"
	"jobboard-backend/internal/shared/telemetry"
	"jobboard-backend/internal/shared/util"
)

// ReferenceCounter reports how many applications still point at a stored file.
type ReferenceCounter interface {
	CountByResumeFilename(ctx context.Context, filename string) (int, error)
}

type Service struct {
	Repo  Repo
	Store object.ObjectStore
	Refs  ReferenceCounter

	locks  userLocks
	now    func() time.Time
	random func() int64
}

func NewService(repo Repo, store object.ObjectStore, refs ReferenceCounter) *Service {
	return &Service{
		Repo:   repo,
		Store:  store,
		Refs:   refs,
		now:    time.Now,
		random: func() int64 { return rand.Int63n(1_000_000_000) },
	}
}

// UploadInput describes one uploaded file. Size is the size the client declared.
type UploadInput struct {
	UserID       string
	OriginalName string
	MimeType     string
	Size         int64
	Body         io.Reader
}

// Upload stores the file and makes it the user's active résumé. Type and
// declared size are checked before anything is written; the body is also
// capped while streaming.
func (s *Service) Upload(ctx context.Context, in UploadInput) (Resume, error) {
	mimeType := normalizeMime(in.MimeType)
	if !AllowedMimeType(mimeType) {
		metrics.IncResumeUploadRejected()
		return Resume{}, ErrUnsupportedType
	}
	if in.Size > MaxSize {
		metrics.IncResumeUploadRejected()
		return Resume{}, ErrTooLarge
	}
	if in.Body == nil {
		return Resume{}, ErrNoFile
	}

	filename := s.newFilename(in.OriginalName, mimeType)
	key := keyPrefix + filename
	written, err := s.Store.Save(ctx, key, mimeType, io.LimitReader(in.Body, MaxSize+1))
	if err != nil {
		return Resume{}, fmt.Errorf("save file: %w", err)
	}
	if written > MaxSize {
		s.removeFile(ctx, key, "oversized")
		metrics.IncResumeUploadRejected()
		return Resume{}, ErrTooLarge
	}

	res := Resume{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Filename:     filename,
		OriginalName: strings.TrimSpace(in.OriginalName),
		Path:         key,
		Size:         written,
		MimeType:     mimeType,
		IsActive:     true,
	}
	unlock := s.locks.lock(in.UserID)
	prev, err := s.Repo.Replace(ctx, res)
	if err != nil {
		unlock()
		s.removeFile(ctx, key, "metadata_failed")
		return Resume{}, fmt.Errorf("save metadata: %w", err)
	}
	if prev != nil && prev.Path != key {
		s.releaseFile(ctx, *prev)
	}
	unlock()
	metrics.IncResumeUpload()
	telemetry.Info("resume.uploaded", map[string]any{
		"user_id":  in.UserID,
		"filename": filename,
		"size":     written,
		"replaced": prev != nil,
	})

	stored, err := s.Repo.GetByUser(ctx, in.UserID)
	if err != nil {
		return res, nil
	}
	return stored, nil
}

func (s *Service) GetMine(ctx context.Context, userID string) (Resume, error) {
	return s.Repo.GetByUser(ctx, userID)
}

// Delete removes the user's résumé. Having none is not an error.
func (s *Service) Delete(ctx context.Context, userID string) error {
	defer s.locks.lock(userID)()
	prev, err := s.Repo.DeleteByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	s.releaseFile(ctx, prev)
	return nil
}

// Open returns a stored résumé file by its generated name.
func (s *Service) Open(ctx context.Context, filename string) (io.ReadCloser, string, error) {
	name, err := util.ValidateFileName(filename)
	if err != nil {
		return nil, "", ErrInvalidFileName
	}
	body, err := s.Store.Open(ctx, keyPrefix+name)
	if errors.Is(err, object.ErrNotFound) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open file: %w", err)
	}
	contentType := mimeByExtension[util.Extension(name)]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return body, contentType, nil
}

// Text extracts a plain-text preview of the user's active résumé.
func (s *Service) Text(ctx context.Context, userID string) (string, error) {
	res, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return extract.Text(ctx, s.Store, res.Path, res.MimeType, res.OriginalName, MaxSize)
}

// WithActiveSnapshot calls fn with the fields an application keeps of the
// user's résumé, or nil when there is none. The résumé cannot be replaced or
// deleted while fn runs, so a file fn records stays referenced.
func (s *Service) WithActiveSnapshot(ctx context.Context, userID string, fn func(*applications.ResumeSnapshot) error) error {
	defer s.locks.lock(userID)()
	res, err := s.Repo.GetByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return fn(nil)
	}
	if err != nil {
		return fmt.Errorf("load resume: %w", err)
	}
	return fn(&applications.ResumeSnapshot{
		Filename:     res.Filename,
		OriginalName: res.OriginalName,
		Path:         res.Path,
	})
}

// releaseFile deletes a displaced résumé's file unless an application still
// references it.
func (s *Service) releaseFile(ctx context.Context, prev Resume) {
	if s.Refs != nil {
		n, err := s.Refs.CountByResumeFilename(ctx, prev.Filename)
		if err != nil {
			telemetry.Warn("resume.refcount_failed", map[string]any{
				"filename": prev.Filename,
				"error":    err.Error(),
			})
			return
		}
		if n > 0 {
			return
		}
	}
	s.removeFile(ctx, prev.Path, "replaced")
	metrics.IncOrphanFileRemoved()
}

func (s *Service) removeFile(ctx context.Context, key, reason string) {
	if err := s.Store.Delete(ctx, key); err != nil {
		telemetry.Warn("resume.file_remove_failed", map[string]any{
			"key":    key,
			"reason": reason,
			"error":  err.Error(),
		})
	}
}

func (s *Service) newFilename(originalName, mimeType string) string {
	ext := util.Extension(originalName)
	if ext == "" {
		ext = extensionByMime[mimeType]
	}
	return fmt.Sprintf("resume-%d-%d%s", s.now().UnixMilli(), s.random(), ext)
}
