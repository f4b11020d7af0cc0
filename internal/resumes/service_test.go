package resumes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/shared/storage/object/local"
)

type refCounts map[string]int

func (r refCounts) CountByResumeFilename(_ context.Context, filename string) (int, error) {
	return r[filename], nil
}

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Replace(context.Context, Resume) (*Resume, error) {
	return nil, errors.New("db down")
}

type fixture struct {
	svc  *Service
	repo *MemoryRepo
	dir  string
	refs refCounts
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	repo := NewMemoryRepo()
	refs := refCounts{}
	svc := NewService(repo, local.New(dir), refs)
	var seq int64
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	svc.random = func() int64 { seq++; return seq }
	return fixture{svc: svc, repo: repo, dir: dir, refs: refs}
}

func (f fixture) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.dir, "resumes"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func pdfInput(userID string, size int64) UploadInput {
	return UploadInput{
		UserID:       userID,
		OriginalName: "cv.pdf",
		MimeType:     MimePDF,
		Size:         size,
		Body:         bytes.NewReader(bytes.Repeat([]byte("a"), int(size))),
	}
}

func TestUploadRejectsWrongTypeWithoutWriting(t *testing.T) {
	f := newFixture(t)
	in := pdfInput("u1", 10)
	in.MimeType = "image/png"
	in.OriginalName = "photo.png"

	if _, err := f.svc.Upload(context.Background(), in); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if files := f.storedFiles(t); len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}

func TestUploadSizeBoundary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, pdfInput("u1", MaxSize))
	if err != nil {
		t.Fatalf("upload at limit: %v", err)
	}
	if res.Size != MaxSize {
		t.Fatalf("expected size %d, got %d", MaxSize, res.Size)
	}

	if _, err := f.svc.Upload(ctx, pdfInput("u2", MaxSize+1)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if files := f.storedFiles(t); len(files) != 1 {
		t.Fatalf("expected only the first file, got %v", files)
	}
}

func TestUploadCapsUndeclaredBody(t *testing.T) {
	f := newFixture(t)
	in := pdfInput("u1", MaxSize+1)
	in.Size = 0

	if _, err := f.svc.Upload(context.Background(), in); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if files := f.storedFiles(t); len(files) != 0 {
		t.Fatalf("oversized file left behind: %v", files)
	}
}

func TestUploadGeneratesFilename(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.Upload(context.Background(), pdfInput("u1", 3))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if res.Filename != "resume-1700000000000-1.pdf" {
		t.Fatalf("unexpected filename %q", res.Filename)
	}
	if res.Path != "resumes/"+res.Filename || res.OriginalName != "cv.pdf" || !res.IsActive {
		t.Fatalf("unexpected resume: %+v", res)
	}
}

func TestReplaceRemovesUnreferencedFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Upload(ctx, pdfInput("u1", 3)); err != nil {
		t.Fatalf("first upload: %v", err)
	}
	second, err := f.svc.Upload(ctx, pdfInput("u1", 4))
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	files := f.storedFiles(t)
	if len(files) != 1 || files[0] != second.Filename {
		t.Fatalf("expected only %s, got %v", second.Filename, files)
	}
	got, err := f.svc.GetMine(ctx, "u1")
	if err != nil || got.Filename != second.Filename {
		t.Fatalf("expected active %s, got %+v err=%v", second.Filename, got, err)
	}
}

func TestReplaceKeepsReferencedFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upload(ctx, pdfInput("u1", 3))
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	f.refs[first.Filename] = 1
	if _, err := f.svc.Upload(ctx, pdfInput("u1", 4)); err != nil {
		t.Fatalf("second upload: %v", err)
	}
	if files := f.storedFiles(t); len(files) != 2 {
		t.Fatalf("expected referenced file to survive, got %v", files)
	}
}

func TestMetadataFailureRemovesNewFile(t *testing.T) {
	f := newFixture(t)
	f.svc.Repo = failingRepo{f.repo}

	if _, err := f.svc.Upload(context.Background(), pdfInput("u1", 3)); err == nil {
		t.Fatalf("expected error")
	}
	if files := f.storedFiles(t); len(files) != 0 {
		t.Fatalf("expected new file to be removed, got %v", files)
	}
}

func TestDeleteRemovesMetadataAndFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Upload(ctx, pdfInput("u1", 3)); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := f.svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetMine(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if files := f.storedFiles(t); len(files) != 0 {
		t.Fatalf("expected file removed, got %v", files)
	}
	if err := f.svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"../secret", "..", `a\b`, "a/b", ""} {
		if _, _, err := f.svc.Open(context.Background(), name); !errors.Is(err, ErrInvalidFileName) {
			t.Fatalf("%q: expected ErrInvalidFileName, got %v", name, err)
		}
	}
}

func TestOpenStreamsStoredFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Upload(ctx, pdfInput("u1", 5))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	body, contentType, err := f.svc.Open(ctx, res.Filename)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "aaaaa" || contentType != MimePDF {
		t.Fatalf("unexpected body %q type %q", data, contentType)
	}

	if _, _, err := f.svc.Open(ctx, "resume-missing.pdf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func snapshotOf(t *testing.T, svc *Service, userID string) *applications.ResumeSnapshot {
	t.Helper()
	var got *applications.ResumeSnapshot
	err := svc.WithActiveSnapshot(context.Background(), userID, func(snap *applications.ResumeSnapshot) error {
		got = snap
		return nil
	})
	if err != nil {
		t.Fatalf("WithActiveSnapshot: %v", err)
	}
	return got
}

func TestWithActiveSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if snap := snapshotOf(t, f.svc, "u1"); snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
	res, err := f.svc.Upload(ctx, pdfInput("u1", 3))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	snap := snapshotOf(t, f.svc, "u1")
	if snap == nil || snap.Filename != res.Filename || snap.OriginalName != "cv.pdf" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	boom := errors.New("boom")
	err = f.svc.WithActiveSnapshot(ctx, "u1", func(*applications.ResumeSnapshot) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}

func TestReplaceWaitsForApplicationUsingOldFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old, err := f.svc.Upload(ctx, pdfInput("u1", 3))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	started := make(chan struct{})
	done := make(chan error, 1)
	err = f.svc.WithActiveSnapshot(ctx, "u1", func(snap *applications.ResumeSnapshot) error {
		go func() {
			close(started)
			_, err := f.svc.Upload(ctx, pdfInput("u1", 4))
			done <- err
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		f.refs[snap.Filename]++
		return nil
	})
	if err != nil {
		t.Fatalf("WithActiveSnapshot: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("re-upload: %v", err)
	}

	if _, err := os.Stat(filepath.Join(f.dir, "resumes", old.Filename)); err != nil {
		t.Fatalf("expected referenced file to survive re-upload: %v", err)
	}
	if got := len(f.storedFiles(t)); got != 2 {
		t.Fatalf("expected old and new file, got %d", got)
	}
}

func TestTextRejectsDOC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := pdfInput("u1", 3)
	in.MimeType = MimeDOC
	in.OriginalName = "cv.doc"
	if _, err := f.svc.Upload(ctx, in); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := f.svc.Text(ctx, "u1"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported error, got %v", err)
	}
}
