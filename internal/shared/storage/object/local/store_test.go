package local

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobboard-backend/internal/shared/storage/object"
)

func TestSaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	n, err := store.Save(ctx, "resumes/resume-1.pdf", "application/pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes written, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "resumes", "resume-1.pdf")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	rc, err := store.Open(ctx, "resumes/resume-1.pdf")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", body)
	}

	if err := store.Delete(ctx, "resumes/resume-1.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Open(ctx, "resumes/resume-1.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "resumes/resume-1.pdf"); err != nil {
		t.Fatalf("expected deleting a missing object to succeed, got %v", err)
	}
}

func TestSaveRefusesToOverwrite(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if _, err := store.Save(ctx, "resumes/a.pdf", "", strings.NewReader("one")); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if _, err := store.Save(ctx, "resumes/a.pdf", "", strings.NewReader("two")); err == nil {
		t.Fatalf("expected second Save on the same key to fail")
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	for _, key := range []string{"../escape.pdf", "/etc/passwd", "."} {
		if _, err := store.Save(ctx, key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("Save(%q) expected error", key)
		}
		if _, err := store.Open(ctx, key); err == nil {
			t.Fatalf("Open(%q) expected error", key)
		}
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, errors.New("connection reset") }

func TestSaveRemovesPartialFileOnError(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if _, err := store.Save(context.Background(), "resumes/partial.pdf", "", failingReader{}); err == nil {
		t.Fatalf("expected copy error")
	}
	if _, err := os.Stat(filepath.Join(dir, "resumes", "partial.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected partial file to be removed, stat err=%v", err)
	}
}
