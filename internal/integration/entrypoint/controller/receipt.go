package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finly/backend/internal/application/usecase/receipt"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
)

const (
	// receiptFormField is the multipart field carrying the upload.
	receiptFormField = "receipt"
	// multipartOverhead allows for boundaries and part headers around the file.
	multipartOverhead = 64 << 10
)

// ReceiptController handles receipt OCR endpoints.
type ReceiptController struct {
	scanUseCase        *receipt.ScanReceiptUseCase
	processTextUseCase *receipt.ProcessTextUseCase
	maxFileSize        int64
}

// NewReceiptController creates a new receipt controller instance.
func NewReceiptController(
	scanUseCase *receipt.ScanReceiptUseCase,
	processTextUseCase *receipt.ProcessTextUseCase,
	maxFileSize int64,
) *ReceiptController {
	if maxFileSize <= 0 {
		maxFileSize = receipt.DefaultMaxFileSize
	}
	return &ReceiptController{
		scanUseCase:        scanUseCase,
		processTextUseCase: processTextUseCase,
		maxFileSize:        maxFileSize,
	}
}

// Scan handles POST /receipts/scan requests with a multipart "receipt" file.
func (c *ReceiptController) Scan(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxFileSize+multipartOverhead)

	header, err := ctx.FormFile(receiptFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(ctx, domainerror.NewReceiptError(
				domainerror.ErrCodeFileTooLarge,
				"file exceeds the maximum upload size",
				domainerror.ErrFileTooLarge,
			))
		case errors.Is(err, http.ErrMissingFile):
			respondError(ctx, domainerror.NewReceiptError(
				domainerror.ErrCodeMissingReceipt,
				"a receipt file is required",
				domainerror.ErrMissingReceipt,
			))
		default:
			respondBadRequest(ctx, string(domainerror.ErrCodeMissingReceipt), err)
		}
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.scanUseCase.Execute(ctx.Request.Context(), receipt.ScanReceiptInput{
		UserID:   userID,
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReceiptResponse(result))
}

// ProcessText handles POST /receipts/text requests.
func (c *ReceiptController) ProcessText(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.ProcessTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, string(domainerror.ErrCodeMissingReceipt), err)
		return
	}

	result, err := c.processTextUseCase.Execute(ctx.Request.Context(), receipt.ProcessTextInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToReceiptResponse(result))
}

// Formats handles GET /receipts/formats requests.
func (c *ReceiptController) Formats(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.ToSupportedFormatsResponse(receipt.Formats(c.maxFileSize)))
}
