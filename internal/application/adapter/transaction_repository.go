// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
)

// TransactionSortField is a column transactions can be ordered by.
type TransactionSortField string

const (
	SortByDate     TransactionSortField = "date"
	SortByAmount   TransactionSortField = "amount"
	SortByTitle    TransactionSortField = "title"
	SortByCategory TransactionSortField = "category"
)

// IsValid reports whether the sort field is supported.
func (f TransactionSortField) IsValid() bool {
	switch f {
	case SortByDate, SortByAmount, SortByTitle, SortByCategory:
		return true
	}
	return false
}

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid reports whether the sort order is supported.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// TransactionFilter restricts a transaction query to one owner plus optional criteria.
// Date and amount bounds are inclusive. Tags match when any tag intersects.
// Search is a case-insensitive substring match over title, description and location name.
type TransactionFilter struct {
	UserID        uuid.UUID
	Type          *entity.TransactionType
	CategoryID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	PaymentMethod *entity.PaymentMethod
	Tags          []string
	Search        string
}

// TransactionSort is a single-field sort.
type TransactionSort struct {
	Field TransactionSortField
	Order SortOrder
}

// TransactionQuery is a filter plus sort and a skip/limit window.
// A zero Limit means no upper bound.
type TransactionQuery struct {
	Filter TransactionFilter
	Sort   TransactionSort
	Offset int
	Limit  int
}

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDWithCategory retrieves a transaction with its category by ID.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error)

	// Find retrieves the transactions matching the query, in query order.
	Find(ctx context.Context, query TransactionQuery) ([]*entity.TransactionWithCategory, error)

	// Count returns how many transactions match the filter.
	Count(ctx context.Context, filter TransactionFilter) (int64, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// BulkDelete removes multiple transactions owned by the user.
	// Returns the count of deleted transactions.
	BulkDelete(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error)

	// ExistsAllByIDsAndUser checks if all transactions exist for the given IDs and user.
	ExistsAllByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error)

	// CountByCategory counts transactions referencing the category.
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)

	// CountByCategoryAndType counts transactions of the given type referencing the category.
	CountByCategoryAndType(ctx context.Context, categoryID uuid.UUID, transactionType entity.TransactionType) (int64, error)
}
