package adapter

import (
	"context"

	"github.com/finly/backend/internal/domain/entity"
)

// ReportRenderer turns a transaction report into a document.
type ReportRenderer interface {
	// Render produces the document bytes.
	Render(ctx context.Context, report *entity.TransactionReport) ([]byte, error)

	// ContentType is the media type of the rendered document.
	ContentType() string

	// Extension is the file extension without the dot.
	Extension() string
}
