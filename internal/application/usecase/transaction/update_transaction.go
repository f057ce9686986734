package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// UpdateTransactionInput represents the input for transaction update. Nil fields are left untouched.
type UpdateTransactionInput struct {
	TransactionID  uuid.UUID
	UserID         uuid.UUID
	Title          *string
	Description    *string
	Amount         *decimal.Decimal
	Currency       *string
	Type           *entity.TransactionType
	CategoryID     *uuid.UUID
	Date           *time.Time
	PaymentMethod  *entity.PaymentMethod
	Location       *entity.Location
	ClearLocation  bool
	Tags           *[]string
	Recurring      *entity.RecurringRule
	ClearRecurring bool
	Status         *entity.TransactionStatus
	IsVerified     *bool
}

// UpdateTransactionUseCase handles transaction update logic.
type UpdateTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	now             func() time.Time
}

// NewUpdateTransactionUseCase creates a new UpdateTransactionUseCase instance.
func NewUpdateTransactionUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
) *UpdateTransactionUseCase {
	return &UpdateTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		now:             time.Now,
	}
}

// Execute applies the changes. The category is re-validated whenever the
// category or the type changes. Concurrent updates are last-write-wins.
func (uc *UpdateTransactionUseCase) Execute(ctx context.Context, input UpdateTransactionInput) (*entity.TransactionWithCategory, error) {
	row, err := findOwned(ctx, uc.transactionRepo, input.TransactionID, input.UserID)
	if err != nil {
		return nil, err
	}
	transaction := row.Transaction
	category := row.Category

	if input.Title != nil {
		if err := validateTitle(*input.Title); err != nil {
			return nil, err
		}
		transaction.Title = strings.TrimSpace(*input.Title)
	}

	if input.Description != nil {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		transaction.Description = *input.Description
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		transaction.Amount = *input.Amount
	}

	if input.Currency != nil {
		transaction.Currency = strings.ToUpper(*input.Currency)
	}

	if input.Date != nil {
		if err := validateDate(*input.Date, uc.now()); err != nil {
			return nil, err
		}
		transaction.Date = input.Date.UTC()
	}

	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
		transaction.Type = *input.Type
	}

	if input.CategoryID != nil {
		transaction.CategoryID = *input.CategoryID
	}

	if input.CategoryID != nil || input.Type != nil {
		category, err = resolveCategory(ctx, uc.categoryRepo, transaction.CategoryID, input.UserID, transaction.Type)
		if err != nil {
			return nil, err
		}
	}

	if input.PaymentMethod != nil {
		if err := validatePaymentMethod(*input.PaymentMethod); err != nil {
			return nil, err
		}
		transaction.PaymentMethod = *input.PaymentMethod
	}

	switch {
	case input.ClearLocation:
		transaction.Location = nil
	case input.Location != nil:
		transaction.Location = input.Location
	}

	if input.Tags != nil {
		tags, err := validateTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		transaction.Tags = tags
	}

	switch {
	case input.ClearRecurring:
		transaction.Recurring = nil
	case input.Recurring != nil:
		transaction.Recurring = input.Recurring
	}
	if err := validateRecurring(transaction.Recurring, transaction.Date); err != nil {
		return nil, err
	}

	if input.Status != nil {
		if err := validateStatus(*input.Status); err != nil {
			return nil, err
		}
		transaction.Status = *input.Status
	}

	if input.IsVerified != nil {
		transaction.IsVerified = *input.IsVerified
	}

	transaction.UpdatedAt = time.Now().UTC()

	if err := uc.transactionRepo.Update(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &entity.TransactionWithCategory{
		Transaction: transaction,
		Category:    category,
	}, nil
}
