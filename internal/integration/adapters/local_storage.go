package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// localStorage implements adapter.AttachmentStorage on the local filesystem.
type localStorage struct {
	dir string
	now func() time.Time
}

// NewLocalStorage creates an attachment store rooted at dir.
// The directory is created when missing.
func NewLocalStorage(dir string) (adapter.AttachmentStorage, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{dir: dir, now: time.Now}, nil
}

// Save writes the content under a generated name that keeps the original extension.
func (s *localStorage) Save(_ context.Context, originalName, mimeType string, content io.Reader) (*entity.Attachment, error) {
	filename := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	path := filepath.Join(s.dir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("failed to create attachment: %w", err)
	}

	size, err := io.Copy(f, content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write attachment: %w", err)
	}

	return &entity.Attachment{
		Filename:     filename,
		OriginalName: filepath.Base(originalName),
		MimeType:     mimeType,
		Size:         size,
		Path:         path,
		UploadedAt:   s.now().UTC(),
	}, nil
}

// Open returns a reader over a stored attachment.
func (s *localStorage) Open(_ context.Context, path string) (io.ReadCloser, error) {
	if err := s.contains(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}

// Remove deletes a stored attachment. Removing a missing file is not an error.
func (s *localStorage) Remove(_ context.Context, path string) error {
	if err := s.contains(path); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment: %w", err)
	}
	return nil
}

// contains rejects paths outside the upload directory.
func (s *localStorage) contains(path string) error {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return fmt.Errorf("attachment path %q is outside the upload directory", path)
	}
	return nil
}
