package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TypeTotals holds sum, count and average for one transaction type.
type TypeTotals struct {
	Total   decimal.Decimal
	Count   int64
	Average decimal.Decimal
}

// TransactionSummary holds per-type totals over a transaction set.
type TransactionSummary struct {
	Income        TypeTotals
	Expense       TypeTotals
	NetIncome     decimal.Decimal
	TotalCount    int64
	AverageAmount decimal.Decimal
}

// CategoryBreakdownItem is one category row in a per-category breakdown.
type CategoryBreakdownItem struct {
	CategoryID uuid.UUID
	Name       string
	Color      string
	Icon       string
	Total      decimal.Decimal
	Count      int64
	Average    decimal.Decimal
}

// MonthlyTrendItem aggregates a calendar month.
type MonthlyTrendItem struct {
	Year         int
	Month        int
	IncomeTotal  decimal.Decimal
	ExpenseTotal decimal.Decimal
	Count        int64
}

// TransactionStatistics is the derived aggregation result. It is never persisted.
type TransactionStatistics struct {
	Summary           TransactionSummary
	BreakdownType     TransactionType
	CategoryBreakdown []CategoryBreakdownItem
	MonthlyTrend      []MonthlyTrendItem
}
