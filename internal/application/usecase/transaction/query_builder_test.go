package transaction

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

func TestBuildQuery_Defaults(t *testing.T) {
	userID := uuid.New()
	q, err := BuildQuery(userID, Criteria{})
	require.NoError(t, err)

	assert.Equal(t, userID, q.Filter.UserID)
	assert.Equal(t, adapter.SortByDate, q.Sort.Field)
	assert.Equal(t, adapter.SortDesc, q.Sort.Order)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, DefaultLimit, q.Limit)
}

func TestBuildQuery_Pagination(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		offset, expect int
	}{
		{name: "second page", page: 2, limit: 10, offset: 10, expect: 10},
		{name: "limit clamped to max", page: 3, limit: 500, offset: 200, expect: MaxLimit},
		{name: "negative limit clamped to one", page: 4, limit: -5, offset: 3, expect: 1},
		{name: "page below one", page: 0, limit: 25, offset: 0, expect: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := BuildQuery(uuid.New(), Criteria{Page: tt.page, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.offset, q.Offset)
			assert.Equal(t, tt.expect, q.Limit)
		})
	}
}

func TestBuildQuery_PageBeyondRangeIsRejected(t *testing.T) {
	_, err := BuildQuery(uuid.New(), Criteria{Page: math.MaxInt/10 + 2, Limit: 10})
	require.Error(t, err)
	assert.Equal(t, string(domainerror.ErrCodeInvalidFilter), domainerror.CodeOf(err))

	q, err := BuildQuery(uuid.New(), Criteria{Page: MaxPage, Limit: MaxLimit})
	require.NoError(t, err)
	assert.Positive(t, q.Offset)
}

func TestBuildQuery_Normalization(t *testing.T) {
	q, err := BuildQuery(uuid.New(), Criteria{
		Tags:      []string{" Work ", "work", "", "Travel"},
		Search:    "  coffee ",
		SortBy:    adapter.SortByCategory,
		SortOrder: adapter.SortAsc,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "travel"}, q.Filter.Tags)
	assert.Equal(t, "coffee", q.Filter.Search)
	assert.Equal(t, adapter.TransactionSort{Field: adapter.SortByCategory, Order: adapter.SortAsc}, q.Sort)
}

func TestBuildQuery_Rejections(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-48 * time.Hour)
	ten := decimal.NewFromInt(10)
	five := decimal.NewFromInt(5)
	negative := decimal.NewFromInt(-1)
	badType := entity.TransactionType("transfer")
	badMethod := entity.PaymentMethod("cheque")

	tests := []struct {
		name     string
		criteria Criteria
	}{
		{name: "inverted date range", criteria: Criteria{StartDate: &now, EndDate: &earlier}},
		{name: "inverted amount range", criteria: Criteria{MinAmount: &ten, MaxAmount: &five}},
		{name: "negative amount", criteria: Criteria{MinAmount: &negative}},
		{name: "unknown sort field", criteria: Criteria{SortBy: "merchant"}},
		{name: "unknown sort order", criteria: Criteria{SortOrder: "up"}},
		{name: "unknown type", criteria: Criteria{Type: &badType}},
		{name: "unknown payment method", criteria: Criteria{PaymentMethod: &badMethod}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuery(uuid.New(), tt.criteria)
			require.Error(t, err)
			assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
			assert.Equal(t, string(domainerror.ErrCodeInvalidFilter), domainerror.CodeOf(err))
		})
	}
}

func TestBuildQuery_SameDayRangeIsAllowed(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_, err := BuildQuery(uuid.New(), Criteria{StartDate: &day, EndDate: &day})
	assert.NoError(t, err)
}

func TestBuildExportQuery(t *testing.T) {
	userID := uuid.New()
	expense := entity.TransactionTypeExpense

	q, err := BuildExportQuery(userID, Criteria{Page: 7, Limit: 5, Type: &expense, SortBy: adapter.SortByAmount}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, q.Offset)
	assert.Equal(t, 1000, q.Limit)
	assert.Equal(t, adapter.SortByAmount, q.Sort.Field)
	assert.Equal(t, adapter.SortDesc, q.Sort.Order)
	assert.Equal(t, &expense, q.Filter.Type)

	q, err = BuildExportQuery(userID, Criteria{}, 0)
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, q.Limit)

	_, err = BuildExportQuery(userID, Criteria{SortOrder: "sideways"}, 1000)
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name             string
		page, limit      int
		total            int64
		totalPages       int
		hasNext, hasPrev bool
	}{
		{name: "empty", page: 1, limit: 10, total: 0, totalPages: 0},
		{name: "single partial page", page: 1, limit: 10, total: 7, totalPages: 1},
		{name: "first of three", page: 1, limit: 10, total: 25, totalPages: 3, hasNext: true},
		{name: "middle", page: 2, limit: 10, total: 25, totalPages: 3, hasNext: true, hasPrev: true},
		{name: "last", page: 3, limit: 10, total: 25, totalPages: 3, hasPrev: true},
		{name: "beyond the end", page: 5, limit: 10, total: 25, totalPages: 3, hasPrev: true},
		{name: "exact multiple", page: 2, limit: 10, total: 20, totalPages: 2, hasPrev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.totalPages, p.TotalPages)
			assert.Equal(t, tt.hasNext, p.HasNext)
			assert.Equal(t, tt.hasPrev, p.HasPrev)
			assert.Equal(t, p.Page < p.TotalPages, p.HasNext)
		})
	}
}
