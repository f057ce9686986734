package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// ListTransactionsInput represents the input for listing transactions.
type ListTransactionsInput struct {
	UserID   uuid.UUID
	Criteria Criteria
}

// ListTransactionsOutput represents one page of a transaction listing.
type ListTransactionsOutput struct {
	Transactions []*entity.TransactionWithCategory
	Pagination   Pagination
}

// ListTransactionsUseCase handles filtered, sorted and paginated listing.
type ListTransactionsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewListTransactionsUseCase creates a new ListTransactionsUseCase instance.
func NewListTransactionsUseCase(transactionRepo adapter.TransactionRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{
		transactionRepo: transactionRepo,
	}
}

// Execute runs the query and counts the full result for pagination.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, input ListTransactionsInput) (*ListTransactionsOutput, error) {
	query, err := BuildQuery(input.UserID, input.Criteria)
	if err != nil {
		return nil, err
	}

	total, err := uc.transactionRepo.Count(ctx, query.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := uc.transactionRepo.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if rows == nil {
		rows = []*entity.TransactionWithCategory{}
	}

	page := query.Offset/query.Limit + 1
	return &ListTransactionsOutput{
		Transactions: rows,
		Pagination:   NewPagination(page, query.Limit, total),
	}, nil
}
