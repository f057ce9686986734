package adapter

import (
	"context"
	"io"

	"github.com/finly/backend/internal/domain/entity"
)

// OCRService is the client side of the external receipt OCR collaborator.
// Implementations make exactly one call per request and never retry.
type OCRService interface {
	// ProcessReceipt sends a receipt file and returns the extracted data.
	ProcessReceipt(ctx context.Context, filename, mimeType string, content io.Reader) (*entity.OCRData, error)

	// ProcessText parses already-extracted receipt text.
	ProcessText(ctx context.Context, text string) (*entity.OCRData, error)

	// HealthCheck reports whether the collaborator is reachable.
	HealthCheck(ctx context.Context) error
}
