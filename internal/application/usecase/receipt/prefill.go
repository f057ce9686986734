package receipt

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// DefaultPrefillTitle is used when the receipt has no merchant.
const DefaultPrefillTitle = "Receipt"

// Prefill is a draft transaction built from the extracted receipt data.
type Prefill struct {
	Title  string
	Amount *decimal.Decimal
	Date   *time.Time
	Type   entity.TransactionType
}

// Result is what both receipt flows return.
type Result struct {
	OCRData           *entity.OCRData
	SuggestedCategory *entity.Category
	Attachment        *entity.Attachment
	Prefill           Prefill
}

// buildPrefill drafts an expense from the OCR output. Dates that fail to
// parse or lie in the future are dropped.
func buildPrefill(data *entity.OCRData, now time.Time) Prefill {
	prefill := Prefill{
		Title: DefaultPrefillTitle,
		Type:  entity.TransactionTypeExpense,
	}
	if data == nil {
		return prefill
	}
	if data.ExtractedMerchant != nil {
		if merchant := strings.TrimSpace(*data.ExtractedMerchant); merchant != "" {
			prefill.Title = merchant
		}
	}
	if data.ExtractedAmount != nil && data.ExtractedAmount.IsPositive() {
		amount := *data.ExtractedAmount
		prefill.Amount = &amount
	}
	if data.ExtractedDate != nil {
		if date, err := time.Parse("2006-01-02", *data.ExtractedDate); err == nil && !date.After(now) {
			prefill.Date = &date
		}
	}
	return prefill
}

// complete suggests a category and assembles the result.
func complete(ctx context.Context, suggester *CategorySuggester, userID uuid.UUID, data *entity.OCRData, now time.Time) (*Result, error) {
	if data == nil {
		data = &entity.OCRData{}
	}
	suggested, err := suggester.Suggest(ctx, userID, data.ExtractedMerchant)
	if err != nil {
		return nil, err
	}
	return &Result{
		OCRData:           data,
		SuggestedCategory: suggested,
		Prefill:           buildPrefill(data, now),
	}, nil
}

// ocrFailure maps a collaborator error to a receipt error.
// Rejections are the caller's fault; everything else is retryable.
func ocrFailure(err error) error {
	if errors.Is(err, domainerror.ErrOCRRejected) {
		return domainerror.NewReceiptError(
			domainerror.ErrCodeOCRRejected,
			"receipt could not be processed",
			err,
		)
	}
	return domainerror.NewReceiptError(
		domainerror.ErrCodeOCRUnavailable,
		"OCR service is unavailable, please try again later",
		err,
	)
}
