package dto

import (
	"time"

	"github.com/finly/backend/internal/application/usecase/receipt"
	"github.com/finly/backend/internal/domain/entity"
)

// ProcessTextRequest represents the request body for parsing receipt text.
type ProcessTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// PrefillResponse is the draft transaction built from a receipt.
type PrefillResponse struct {
	Title  string  `json:"title"`
	Amount *string `json:"amount"`
	Date   *string `json:"date"`
	Type   string  `json:"type"`
}

// ReceiptResponse represents the response of both receipt flows.
type ReceiptResponse struct {
	OCRData           *entity.OCRData    `json:"ocrData"`
	SuggestedCategory *CategorySummary   `json:"suggestedCategory"`
	Attachment        *entity.Attachment `json:"attachment,omitempty"`
	Prefill           PrefillResponse    `json:"prefill"`
}

// SupportedFormatsResponse lists the accepted receipt formats.
type SupportedFormatsResponse struct {
	SupportedFormats []string `json:"supportedFormats"`
	MaxFileSize      int64    `json:"maxFileSize"`
	MaxFileSizeMB    float64  `json:"maxFileSizeMB"`
}

// ToReceiptResponse converts a receipt result to a response DTO.
func ToReceiptResponse(result *receipt.Result) ReceiptResponse {
	resp := ReceiptResponse{
		OCRData:           result.OCRData,
		SuggestedCategory: ToCategorySummary(result.SuggestedCategory),
		Attachment:        result.Attachment,
		Prefill: PrefillResponse{
			Title: result.Prefill.Title,
			Type:  string(result.Prefill.Type),
		},
	}
	if result.Prefill.Amount != nil {
		amount := result.Prefill.Amount.StringFixed(2)
		resp.Prefill.Amount = &amount
	}
	if result.Prefill.Date != nil {
		date := result.Prefill.Date.Format(time.DateOnly)
		resp.Prefill.Date = &date
	}
	return resp
}

// ToSupportedFormatsResponse converts the supported formats to a response DTO.
func ToSupportedFormatsResponse(f receipt.SupportedFormats) SupportedFormatsResponse {
	return SupportedFormatsResponse{
		SupportedFormats: f.Extensions,
		MaxFileSize:      f.MaxFileSize,
		MaxFileSizeMB:    f.MaxFileSizeMB,
	}
}
