package transaction

import (
	"context"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// GetTransactionUseCase returns one transaction owned by the caller.
type GetTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetTransactionUseCase creates a new GetTransactionUseCase instance.
func NewGetTransactionUseCase(transactionRepo adapter.TransactionRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{transactionRepo: transactionRepo}
}

// Execute loads the transaction with its category.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, transactionID, userID uuid.UUID) (*entity.TransactionWithCategory, error) {
	return findOwned(ctx, uc.transactionRepo, transactionID, userID)
}
