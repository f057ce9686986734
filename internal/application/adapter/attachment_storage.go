package adapter

import (
	"context"
	"io"

	"github.com/finly/backend/internal/domain/entity"
)

// AttachmentStorage persists uploaded files.
type AttachmentStorage interface {
	// Save writes the content and returns the stored attachment metadata.
	Save(ctx context.Context, originalName, mimeType string, content io.Reader) (*entity.Attachment, error)

	// Open returns a reader over a stored attachment.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes a stored attachment.
	Remove(ctx context.Context, path string) error
}
