package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

const (
	// MaxTitleLength is the maximum allowed length for transaction titles.
	MaxTitleLength = 100
	// MaxDescriptionLength is the maximum allowed length for transaction descriptions.
	MaxDescriptionLength = 500
	// MaxTags is the maximum number of tags on a transaction.
	MaxTags = 20
	// AmountScale is the number of decimal places an amount is stored with.
	AmountScale = 2
	// MaxTagLength is the maximum length of a single tag.
	MaxTagLength = 30
)

func validateTitle(title string) error {
	t := strings.TrimSpace(title)
	if t == "" || len(t) > MaxTitleLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionTitle,
			fmt.Sprintf("title must be between 1 and %d characters", MaxTitleLength),
			domainerror.ErrInvalidTransactionTitle,
		)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeDescriptionTooLong,
			fmt.Sprintf("description must not exceed %d characters", MaxDescriptionLength),
			domainerror.ErrDescriptionTooLong,
		)
	}
	return nil
}

// validateAmount requires a strictly positive amount in whole cents.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"amount must be greater than 0",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			fmt.Sprintf("amount must have at most %d decimal places", AmountScale),
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	return nil
}

// validateDate rejects zero and future dates.
func validateDate(date, now time.Time) error {
	if date.IsZero() || date.After(now) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionDate,
			"date is required and cannot be in the future",
			domainerror.ErrInvalidTransactionDate,
		)
	}
	return nil
}

func validateType(transactionType entity.TransactionType) error {
	if !transactionType.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}
	return nil
}

func validatePaymentMethod(method entity.PaymentMethod) error {
	if !method.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidPaymentMethod,
			"unsupported payment method",
			domainerror.ErrInvalidPaymentMethod,
		)
	}
	return nil
}

func validateStatus(status entity.TransactionStatus) error {
	if !status.IsValid() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionStatus,
			"status must be 'pending', 'completed' or 'cancelled'",
			domainerror.ErrInvalidTransactionStatus,
		)
	}
	return nil
}

func validateRecurring(rule *entity.RecurringRule, date time.Time) error {
	if rule == nil {
		return nil
	}
	if !rule.Frequency.IsValid() || rule.Interval < 1 {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidRecurringRule,
			"recurring rule needs a daily, weekly, monthly or yearly frequency and an interval of at least 1",
			domainerror.ErrInvalidRecurringRule,
		)
	}
	if rule.EndDate != nil && rule.EndDate.Before(date) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidRecurringRule,
			"recurring end date cannot be before the transaction date",
			domainerror.ErrInvalidRecurringRule,
		)
	}
	return nil
}

func validateTags(tags []string) ([]string, error) {
	normalized := NormalizeTags(tags)
	if len(normalized) > MaxTags {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTags,
			fmt.Sprintf("a transaction can have at most %d tags", MaxTags),
			domainerror.ErrInvalidTags,
		)
	}
	for _, tag := range normalized {
		if len(tag) > MaxTagLength {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeInvalidTags,
				fmt.Sprintf("tags must not exceed %d characters", MaxTagLength),
				domainerror.ErrInvalidTags,
			)
		}
	}
	if normalized == nil {
		normalized = []string{}
	}
	return normalized, nil
}

// resolveCategory loads the category a transaction will reference and checks that
// the user can see it and that it accepts the transaction type.
func resolveCategory(
	ctx context.Context,
	repo adapter.CategoryRepository,
	categoryID, userID uuid.UUID,
	transactionType entity.TransactionType,
) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, categoryID)
	if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil || !category.IsVisibleTo(userID) || !category.IsActive {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTxnCategoryNotFound,
			"category not found",
			domainerror.ErrCategoryNotFoundForTransaction,
		)
	}
	if !category.Type.Accepts(transactionType) {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeCategoryTypeMismatch,
			fmt.Sprintf("category %q cannot hold %s transactions", category.Name, transactionType),
			domainerror.ErrCategoryTypeMismatch,
		)
	}
	return category, nil
}

// findOwned loads a transaction and checks the caller owns it.
func findOwned(ctx context.Context, repo adapter.TransactionRepository, id, userID uuid.UUID) (*entity.TransactionWithCategory, error) {
	row, err := repo.FindByIDWithCategory(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrTransactionNotFound) {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeTransactionNotFound,
				"transaction not found",
				domainerror.ErrTransactionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	if row.Transaction.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to access this transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return row, nil
}
