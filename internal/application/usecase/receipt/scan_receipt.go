package receipt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// ScanReceiptInput represents an uploaded receipt file.
type ScanReceiptInput struct {
	UserID   uuid.UUID
	Filename string
	Size     int64 // As declared by the client; the stored size is checked too
	Content  io.Reader
}

// ScanReceiptUseCase stores a receipt, hands it to the OCR collaborator and
// suggests a category for the extracted merchant.
type ScanReceiptUseCase struct {
	ocrService  adapter.OCRService
	storage     adapter.AttachmentStorage
	suggester   *CategorySuggester
	maxFileSize int64
	now         func() time.Time
}

// NewScanReceiptUseCase creates a new ScanReceiptUseCase instance.
func NewScanReceiptUseCase(
	ocrService adapter.OCRService,
	storage adapter.AttachmentStorage,
	suggester *CategorySuggester,
	maxFileSize int64,
) *ScanReceiptUseCase {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &ScanReceiptUseCase{
		ocrService:  ocrService,
		storage:     storage,
		suggester:   suggester,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// Execute processes the receipt. The stored file is removed if the
// collaborator call fails.
func (uc *ScanReceiptUseCase) Execute(ctx context.Context, input ScanReceiptInput) (*Result, error) {
	if input.Content == nil || strings.TrimSpace(input.Filename) == "" {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeMissingReceipt,
			"a receipt file is required",
			domainerror.ErrMissingReceipt,
		)
	}

	mimeType := mimeTypeFor(input.Filename)
	if mimeType == "" {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeUnsupportedFileType,
			"invalid file type, allowed types: PNG, JPG, JPEG, PDF",
			domainerror.ErrUnsupportedFileType,
		)
	}
	if input.Size > uc.maxFileSize {
		return nil, uc.tooLarge()
	}

	attachment, err := uc.storage.Save(ctx, input.Filename, mimeType, io.LimitReader(input.Content, uc.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}
	if attachment.Size > uc.maxFileSize {
		uc.discard(ctx, attachment.Path)
		return nil, uc.tooLarge()
	}

	file, err := uc.storage.Open(ctx, attachment.Path)
	if err != nil {
		uc.discard(ctx, attachment.Path)
		return nil, fmt.Errorf("failed to open stored receipt: %w", err)
	}
	data, err := uc.ocrService.ProcessReceipt(ctx, input.Filename, mimeType, file)
	file.Close()
	if err != nil {
		uc.discard(ctx, attachment.Path)
		slog.Warn("Receipt OCR failed",
			"userID", input.UserID,
			"filename", input.Filename,
			"error", err,
		)
		return nil, ocrFailure(err)
	}

	result, err := complete(ctx, uc.suggester, input.UserID, data, uc.now().UTC())
	if err != nil {
		uc.discard(ctx, attachment.Path)
		return nil, err
	}
	result.Attachment = attachment

	slog.Info("Receipt scanned",
		"userID", input.UserID,
		"attachment", attachment.Filename,
		"confidence", result.OCRData.Confidence,
	)
	return result, nil
}

func (uc *ScanReceiptUseCase) discard(ctx context.Context, path string) {
	if err := uc.storage.Remove(ctx, path); err != nil {
		slog.Warn("Failed to remove receipt file", "path", path, "error", err)
	}
}

func (uc *ScanReceiptUseCase) tooLarge() error {
	return domainerror.NewReceiptError(
		domainerror.ErrCodeFileTooLarge,
		fmt.Sprintf("file size too large, maximum size is %dMB", uc.maxFileSize/(1024*1024)),
		domainerror.ErrFileTooLarge,
	)
}
