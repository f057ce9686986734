package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// CreateTransactionInput represents the input for transaction creation.
type CreateTransactionInput struct {
	UserID        uuid.UUID
	Title         string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	Type          entity.TransactionType
	CategoryID    uuid.UUID
	Date          time.Time
	PaymentMethod entity.PaymentMethod // Optional, defaults to cash
	Location      *entity.Location
	Attachments   []entity.Attachment
	OCRData       *entity.OCRData
	Tags          []string
	Recurring     *entity.RecurringRule
	Status        entity.TransactionStatus // Optional, defaults to completed
	IsVerified    bool
}

// CreateTransactionUseCase handles transaction creation logic.
type CreateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	now             func() time.Time
}

// NewCreateTransactionUseCase creates a new CreateTransactionUseCase instance.
func NewCreateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateTransactionUseCase {
	return &CreateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// Execute validates the input, stores the transaction and bumps the category usage counter.
// The counter update is a separate write; its failure is logged and the transaction is kept.
func (uc *CreateTransactionUseCase) Execute(ctx context.Context, input CreateTransactionInput) (*entity.TransactionWithCategory, error) {
	if err := validateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateType(input.Type); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date, uc.now()); err != nil {
		return nil, err
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = entity.PaymentMethodCash
	}
	if err := validatePaymentMethod(paymentMethod); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = entity.TransactionStatusCompleted
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	if err := validateRecurring(input.Recurring, input.Date); err != nil {
		return nil, err
	}

	tags, err := validateTags(input.Tags)
	if err != nil {
		return nil, err
	}

	category, err := resolveCategory(ctx, uc.categoryRepo, input.CategoryID, input.UserID, input.Type)
	if err != nil {
		return nil, err
	}

	transaction := entity.NewTransaction(
		input.UserID,
		strings.TrimSpace(input.Title),
		input.Amount,
		strings.ToUpper(input.Currency),
		input.Type,
		category.ID,
		input.Date.UTC(),
	)
	transaction.Description = input.Description
	transaction.PaymentMethod = paymentMethod
	transaction.Location = input.Location
	transaction.Attachments = input.Attachments
	transaction.OCRData = input.OCRData
	transaction.Tags = tags
	transaction.Recurring = input.Recurring
	transaction.Status = status
	transaction.IsVerified = input.IsVerified

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := uc.categoryRepo.IncrementUsageCount(ctx, category.ID); err != nil {
		slog.Warn("Failed to increment category usage count",
			"userID", input.UserID,
			"categoryID", category.ID,
			"transactionID", transaction.ID,
			"error", err,
		)
	} else {
		category.UsageCount++
	}

	return &entity.TransactionWithCategory{
		Transaction: transaction,
		Category:    category,
	}, nil
}
