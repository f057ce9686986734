package receipt

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// MaxTextLength bounds the text forwarded to the OCR collaborator.
const MaxTextLength = 10000

// ProcessTextInput represents receipt text typed or pasted by the user.
type ProcessTextInput struct {
	UserID uuid.UUID
	Text   string
}

// ProcessTextUseCase parses receipt text without storing a file.
type ProcessTextUseCase struct {
	ocrService adapter.OCRService
	suggester  *CategorySuggester
	now        func() time.Time
}

// NewProcessTextUseCase creates a new ProcessTextUseCase instance.
func NewProcessTextUseCase(ocrService adapter.OCRService, suggester *CategorySuggester) *ProcessTextUseCase {
	return &ProcessTextUseCase{
		ocrService: ocrService,
		suggester:  suggester,
		now:        time.Now,
	}
}

// Execute forwards the text and suggests a category.
func (uc *ProcessTextUseCase) Execute(ctx context.Context, input ProcessTextInput) (*Result, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, domainerror.NewReceiptError(
			domainerror.ErrCodeMissingReceipt,
			"text content is required",
			domainerror.ErrMissingReceipt,
		)
	}
	if runes := []rune(text); len(runes) > MaxTextLength {
		text = string(runes[:MaxTextLength])
	}

	data, err := uc.ocrService.ProcessText(ctx, text)
	if err != nil {
		slog.Warn("Receipt text processing failed", "userID", input.UserID, "error", err)
		return nil, ocrFailure(err)
	}

	return complete(ctx, uc.suggester, input.UserID, data, uc.now().UTC())
}
