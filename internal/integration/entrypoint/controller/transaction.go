package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/usecase/analytics"
	"github.com/finly/backend/internal/application/usecase/report"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/entrypoint/dto"
)

const (
	transactionRequestCode = string(domainerror.ErrCodeMissingTransactionFields)
	filterRequestCode      = string(domainerror.ErrCodeInvalidFilter)
)

// TransactionController handles transaction endpoints, including statistics and export.
type TransactionController struct {
	listUseCase       *transaction.ListTransactionsUseCase
	getUseCase        *transaction.GetTransactionUseCase
	createUseCase     *transaction.CreateTransactionUseCase
	updateUseCase     *transaction.UpdateTransactionUseCase
	deleteUseCase     *transaction.DeleteTransactionUseCase
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase
	statsUseCase      *analytics.GetStatisticsUseCase
	exportUseCase     *report.ExportTransactionsUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	getUseCase *transaction.GetTransactionUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	bulkDeleteUseCase *transaction.BulkDeleteTransactionsUseCase,
	statsUseCase *analytics.GetStatisticsUseCase,
	exportUseCase *report.ExportTransactionsUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:       listUseCase,
		getUseCase:        getUseCase,
		createUseCase:     createUseCase,
		updateUseCase:     updateUseCase,
		deleteUseCase:     deleteUseCase,
		bulkDeleteUseCase: bulkDeleteUseCase,
		statsUseCase:      statsUseCase,
		exportUseCase:     exportUseCase,
	}
}

// bindCriteria binds and converts the shared filter query parameters.
func bindCriteria(ctx *gin.Context) (transaction.Criteria, bool) {
	var query dto.TransactionQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBadRequest(ctx, filterRequestCode, err)
		return transaction.Criteria{}, false
	}
	criteria, err := query.ToCriteria()
	if err != nil {
		respondBadRequest(ctx, filterRequestCode, err)
		return transaction.Criteria{}, false
	}
	return criteria, true
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	criteria, ok := bindCriteria(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), transaction.ListTransactionsInput{
		UserID:   userID,
		Criteria: criteria,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Get handles GET /transactions/:id requests.
func (c *TransactionController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, transactionRequestCode)
	if !ok {
		return
	}

	row, err := c.getUseCase.Execute(ctx.Request.Context(), id, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(row))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, transactionRequestCode, err)
		return
	}

	input, err := createInput(userID, req)
	if err != nil {
		respondBadRequest(ctx, transactionRequestCode, err)
		return
	}

	row, err := c.createUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTransactionResponse(row))
}

func createInput(userID uuid.UUID, req dto.CreateTransactionRequest) (transaction.CreateTransactionInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return transaction.CreateTransactionInput{}, fmt.Errorf("categoryId must be a valid UUID")
	}
	date, err := dto.ParseDateParam("date", req.Date, false)
	if err != nil {
		return transaction.CreateTransactionInput{}, err
	}
	recurring, err := req.Recurring.ToEntity()
	if err != nil {
		return transaction.CreateTransactionInput{}, err
	}

	return transaction.CreateTransactionInput{
		UserID:        userID,
		Title:         req.Title,
		Description:   req.Description,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Type:          entity.TransactionType(req.Type),
		CategoryID:    categoryID,
		Date:          *date,
		PaymentMethod: entity.PaymentMethod(req.PaymentMethod),
		Location:      req.Location.ToEntity(),
		Attachments:   req.Attachments,
		OCRData:       req.OCRData,
		Tags:          req.Tags,
		Recurring:     recurring,
		Status:        entity.TransactionStatus(req.Status),
		IsVerified:    req.IsVerified,
	}, nil
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, transactionRequestCode)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, transactionRequestCode, err)
		return
	}

	input, err := updateInput(id, userID, req)
	if err != nil {
		respondBadRequest(ctx, transactionRequestCode, err)
		return
	}

	row, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionResponse(row))
}

func updateInput(id, userID uuid.UUID, req dto.UpdateTransactionRequest) (transaction.UpdateTransactionInput, error) {
	input := transaction.UpdateTransactionInput{
		TransactionID:  id,
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Tags:           req.Tags,
		IsVerified:     req.IsVerified,
		Location:       req.Location.Value.ToEntity(),
		ClearLocation:  req.Location.Clears(),
		ClearRecurring: req.Recurring.Clears(),
	}

	if req.Type != nil {
		t := entity.TransactionType(*req.Type)
		input.Type = &t
	}
	if req.PaymentMethod != nil {
		pm := entity.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &pm
	}
	if req.Status != nil {
		s := entity.TransactionStatus(*req.Status)
		input.Status = &s
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return input, fmt.Errorf("categoryId must be a valid UUID")
		}
		input.CategoryID = &categoryID
	}
	if req.Date != nil {
		date, err := dto.ParseDateParam("date", *req.Date, false)
		if err != nil {
			return input, err
		}
		input.Date = date
	}

	recurring, err := req.Recurring.Value.ToEntity()
	if err != nil {
		return input, err
	}
	input.Recurring = recurring

	return input, nil
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, transactionRequestCode)
	if !ok {
		return
	}

	err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: id,
		UserID:        userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// BulkDelete handles POST /transactions/bulk-delete requests.
func (c *TransactionController) BulkDelete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.BulkDeleteTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, string(domainerror.ErrCodeEmptyTransactionIDs), err)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(ctx, transactionRequestCode, fmt.Errorf("ids must be valid UUIDs"))
			return
		}
		ids = append(ids, id)
	}

	output, err := c.bulkDeleteUseCase.Execute(ctx.Request.Context(), transaction.BulkDeleteTransactionsInput{
		TransactionIDs: ids,
		UserID:         userID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkDeleteTransactionsResponse{DeletedCount: output.DeletedCount})
}

// Stats handles GET /transactions/stats requests.
func (c *TransactionController) Stats(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var query dto.StatsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBadRequest(ctx, filterRequestCode, err)
		return
	}

	input := analytics.GetStatisticsInput{UserID: userID}
	var err error
	if input.StartDate, err = dto.ParseDateParam("startDate", query.StartDate, false); err != nil {
		respondBadRequest(ctx, filterRequestCode, err)
		return
	}
	if input.EndDate, err = dto.ParseDateParam("endDate", query.EndDate, true); err != nil {
		respondBadRequest(ctx, filterRequestCode, err)
		return
	}
	if query.Type != "" {
		t := entity.TransactionType(query.Type)
		input.BreakdownType = &t
	}

	stats, err := c.statsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// Export handles GET /transactions/export requests and streams the rendered document.
func (c *TransactionController) Export(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	criteria, ok := bindCriteria(ctx)
	if !ok {
		return
	}

	rendered, err := c.exportUseCase.Execute(ctx.Request.Context(), report.ExportTransactionsInput{
		UserID:   userID,
		Criteria: criteria,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rendered.Filename))
	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, rendered.ContentType, rendered.Content)
}
