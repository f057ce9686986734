package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/domain/entity"
)

// GetStatisticsInput selects the date range and the breakdown type.
// Only the date range narrows the transaction set.
type GetStatisticsInput struct {
	UserID        uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	BreakdownType *entity.TransactionType // Optional, defaults to expense
}

// GetStatisticsUseCase computes statistics for a user's transactions.
// Results are recomputed on every call and never stored.
type GetStatisticsUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase instance.
func NewGetStatisticsUseCase(transactionRepo adapter.TransactionRepository) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{transactionRepo: transactionRepo}
}

// Execute loads the transactions in range and aggregates them.
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*entity.TransactionStatistics, error) {
	breakdownType := entity.TransactionTypeExpense
	if input.BreakdownType != nil {
		breakdownType = *input.BreakdownType
	}

	filter, err := transaction.BuildFilter(input.UserID, transaction.Criteria{
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Type:      &breakdownType,
	})
	if err != nil {
		return nil, err
	}
	// The type only selects the breakdown; summary and trend cover both types.
	filter.Type = nil

	rows, err := uc.transactionRepo.Find(ctx, adapter.TransactionQuery{
		Filter: filter,
		Sort:   adapter.TransactionSort{Field: adapter.SortByDate, Order: adapter.SortAsc},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	stats := Aggregate(rows, breakdownType)
	return &stats, nil
}
