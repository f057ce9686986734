// Package transaction contains transaction-related use cases.
package transaction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

const (
	// DefaultPage is the first page.
	DefaultPage = 1
	// DefaultLimit is the page size when none is given.
	DefaultLimit = 10
	// MaxLimit is the largest page size a listing may request.
	MaxLimit = 100
	// MaxPage keeps (page-1)*MaxLimit within int.
	MaxPage = math.MaxInt / MaxLimit
)

// Criteria is the transient set of listing parameters. It is never stored.
type Criteria struct {
	Page          int
	Limit         int
	Type          *entity.TransactionType
	CategoryID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	MinAmount     *decimal.Decimal
	MaxAmount     *decimal.Decimal
	PaymentMethod *entity.PaymentMethod
	Tags          []string
	Search        string
	SortBy        adapter.TransactionSortField
	SortOrder     adapter.SortOrder
}

// BuildQuery turns criteria into a store query restricted to the owner.
// Pages are 1-indexed and the limit is clamped to [1, MaxLimit]; an unset
// limit falls back to DefaultLimit. The default sort is date descending.
func BuildQuery(userID uuid.UUID, c Criteria) (adapter.TransactionQuery, error) {
	filter, err := BuildFilter(userID, c)
	if err != nil {
		return adapter.TransactionQuery{}, err
	}

	sort, err := buildSort(c.SortBy, c.SortOrder)
	if err != nil {
		return adapter.TransactionQuery{}, err
	}

	page, limit := normalizePage(c.Page, c.Limit)
	if page > MaxPage {
		return adapter.TransactionQuery{}, invalidFilter(fmt.Sprintf("page must not exceed %d", MaxPage))
	}

	return adapter.TransactionQuery{
		Filter: filter,
		Sort:   sort,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}, nil
}

// BuildExportQuery is BuildQuery with the page fixed to the first and the
// limit fixed to maxRows instead of the listing bounds.
func BuildExportQuery(userID uuid.UUID, c Criteria, maxRows int) (adapter.TransactionQuery, error) {
	filter, err := BuildFilter(userID, c)
	if err != nil {
		return adapter.TransactionQuery{}, err
	}

	sort, err := buildSort(c.SortBy, c.SortOrder)
	if err != nil {
		return adapter.TransactionQuery{}, err
	}

	if maxRows < 1 {
		maxRows = MaxLimit
	}
	return adapter.TransactionQuery{
		Filter: filter,
		Sort:   sort,
		Limit:  maxRows,
	}, nil
}

// BuildFilter validates and normalizes the filtering part of the criteria.
func BuildFilter(userID uuid.UUID, c Criteria) (adapter.TransactionFilter, error) {
	if c.Type != nil && !c.Type.IsValid() {
		return adapter.TransactionFilter{}, invalidFilter("type must be 'income' or 'expense'")
	}
	if c.PaymentMethod != nil && !c.PaymentMethod.IsValid() {
		return adapter.TransactionFilter{}, invalidFilter("unsupported payment method")
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return adapter.TransactionFilter{}, invalidFilter("startDate must not be after endDate")
	}
	if c.MinAmount != nil && c.MinAmount.IsNegative() {
		return adapter.TransactionFilter{}, invalidFilter("minAmount must not be negative")
	}
	if c.MaxAmount != nil && c.MaxAmount.IsNegative() {
		return adapter.TransactionFilter{}, invalidFilter("maxAmount must not be negative")
	}
	if c.MinAmount != nil && c.MaxAmount != nil && c.MinAmount.GreaterThan(*c.MaxAmount) {
		return adapter.TransactionFilter{}, invalidFilter("minAmount must not exceed maxAmount")
	}

	return adapter.TransactionFilter{
		UserID:        userID,
		Type:          c.Type,
		CategoryID:    c.CategoryID,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		MinAmount:     c.MinAmount,
		MaxAmount:     c.MaxAmount,
		PaymentMethod: c.PaymentMethod,
		Tags:          NormalizeTags(c.Tags),
		Search:        strings.TrimSpace(c.Search),
	}, nil
}

func buildSort(field adapter.TransactionSortField, order adapter.SortOrder) (adapter.TransactionSort, error) {
	if field == "" {
		field = adapter.SortByDate
	}
	if order == "" {
		order = adapter.SortDesc
	}
	if !field.IsValid() {
		return adapter.TransactionSort{}, invalidFilter("sortBy must be one of date, amount, title, category")
	}
	if !order.IsValid() {
		return adapter.TransactionSort{}, invalidFilter("sortOrder must be 'asc' or 'desc'")
	}
	return adapter.TransactionSort{Field: field, Order: order}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case limit == 0:
		limit = DefaultLimit
	case limit < 1:
		limit = 1
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return page, limit
}

// NormalizeTags lower-cases, trims and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
	}
	return result
}

// Pagination describes where a page sits in the full result.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPagination computes pagination metadata for a page of a result of size total.
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = normalizePage(page, limit)
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func invalidFilter(message string) error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeInvalidFilter,
		message,
		domainerror.ErrInvalidFilter,
	)
}
