package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// BulkDeleteTransactionsInput represents the input for bulk transaction deletion.
type BulkDeleteTransactionsInput struct {
	TransactionIDs []uuid.UUID
	UserID         uuid.UUID
}

// BulkDeleteTransactionsOutput represents the output of bulk transaction deletion.
type BulkDeleteTransactionsOutput struct {
	DeletedCount int64
}

// BulkDeleteTransactionsUseCase handles bulk transaction deletion logic.
// Nothing is deleted unless every ID belongs to the caller.
type BulkDeleteTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewBulkDeleteTransactionsUseCase creates a new BulkDeleteTransactionsUseCase instance.
func NewBulkDeleteTransactionsUseCase(transactionRepo adapter.TransactionRepository) *BulkDeleteTransactionsUseCase {
	return &BulkDeleteTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute performs the bulk transaction deletion.
func (uc *BulkDeleteTransactionsUseCase) Execute(ctx context.Context, input BulkDeleteTransactionsInput) (*BulkDeleteTransactionsOutput, error) {
	if len(input.TransactionIDs) == 0 {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeEmptyTransactionIDs,
			"transaction IDs list cannot be empty",
			domainerror.ErrEmptyTransactionIDs,
		)
	}

	ids := dedupeIDs(input.TransactionIDs)

	allExist, err := uc.transactionRepo.ExistsAllByIDsAndUser(ctx, ids, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transactions: %w", err)
	}
	if !allExist {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIDsNotFound,
			"one or more transactions not found or not owned by user",
			domainerror.ErrTransactionIDsNotFound,
		)
	}

	deletedCount, err := uc.transactionRepo.BulkDelete(ctx, ids, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk delete transactions: %w", err)
	}

	return &BulkDeleteTransactionsOutput{
		DeletedCount: deletedCount,
	}, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
