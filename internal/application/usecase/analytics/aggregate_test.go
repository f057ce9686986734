package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

var (
	food   = entity.NewDefaultCategory("Food & Dining", "#F97316", "utensils", entity.CategoryTypeExpense)
	rent   = entity.NewDefaultCategory("Housing", "#0EA5E9", "home", entity.CategoryTypeExpense)
	salary = entity.NewDefaultCategory("Salary", "#10B981", "briefcase", entity.CategoryTypeIncome)
)

func row(txType entity.TransactionType, amount string, category *entity.Category, date time.Time) *entity.TransactionWithCategory {
	tx := entity.NewTransaction(uuid.Nil, "t", decimal.RequireFromString(amount), "USD", txType, category.ID, date)
	return &entity.TransactionWithCategory{Transaction: tx, Category: category}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func sampleRows() []*entity.TransactionWithCategory {
	return []*entity.TransactionWithCategory{
		row(entity.TransactionTypeIncome, "3000.00", salary, day(2026, 2, 1)),
		row(entity.TransactionTypeExpense, "12.10", food, day(2026, 1, 5)),
		row(entity.TransactionTypeExpense, "7.45", food, day(2026, 2, 9)),
		row(entity.TransactionTypeExpense, "900.00", rent, day(2026, 1, 1)),
		row(entity.TransactionTypeIncome, "150.55", salary, day(2025, 12, 30)),
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleRows())

	assert.True(t, decimal.RequireFromString("3150.55").Equal(s.Income.Total))
	assert.Equal(t, int64(2), s.Income.Count)
	assert.True(t, decimal.RequireFromString("1575.28").Equal(s.Income.Average), s.Income.Average.String())

	assert.True(t, decimal.RequireFromString("919.55").Equal(s.Expense.Total))
	assert.Equal(t, int64(3), s.Expense.Count)
	assert.True(t, decimal.RequireFromString("306.52").Equal(s.Expense.Average), s.Expense.Average.String())

	assert.True(t, s.Income.Total.Sub(s.Expense.Total).Equal(s.NetIncome))
	assert.Equal(t, int64(5), s.TotalCount)
	assert.True(t, decimal.RequireFromString("814.02").Equal(s.AverageAmount), s.AverageAmount.String())
}

func TestSummarize_ExactDecimalAccumulation(t *testing.T) {
	rows := make([]*entity.TransactionWithCategory, 0, 1000)
	for i := 0; i < 1000; i++ {
		rows = append(rows, row(entity.TransactionTypeExpense, "0.10", food, day(2026, 1, 1)))
	}
	s := Summarize(rows)
	assert.Equal(t, "100", s.Expense.Total.String())
}

func TestAggregate_EmptyIsAllZeros(t *testing.T) {
	stats := Aggregate(nil, "")

	assert.Equal(t, entity.TransactionTypeExpense, stats.BreakdownType)
	assert.True(t, stats.Summary.Income.Total.IsZero())
	assert.True(t, stats.Summary.Expense.Total.IsZero())
	assert.True(t, stats.Summary.NetIncome.IsZero())
	assert.True(t, stats.Summary.AverageAmount.IsZero())
	assert.Zero(t, stats.Summary.TotalCount)
	assert.Empty(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.MonthlyTrend)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.NotNil(t, stats.MonthlyTrend)
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := sampleRows()
	first := Aggregate(rows, entity.TransactionTypeExpense)
	second := Aggregate(rows, entity.TransactionTypeExpense)
	assert.Equal(t, first, second)
}

func TestBreakdownByCategory(t *testing.T) {
	items := BreakdownByCategory(sampleRows(), entity.TransactionTypeExpense)
	require.Len(t, items, 2)

	assert.Equal(t, "Housing", items[0].Name)
	assert.True(t, decimal.RequireFromString("900").Equal(items[0].Total))
	assert.Equal(t, "#0EA5E9", items[0].Color)
	assert.Equal(t, "home", items[0].Icon)

	assert.Equal(t, "Food & Dining", items[1].Name)
	assert.Equal(t, int64(2), items[1].Count)
	assert.True(t, decimal.RequireFromString("19.55").Equal(items[1].Total))
	assert.True(t, decimal.RequireFromString("9.78").Equal(items[1].Average), items[1].Average.String())

	income := BreakdownByCategory(sampleRows(), entity.TransactionTypeIncome)
	require.Len(t, income, 1)
	assert.Equal(t, salary.ID, income[0].CategoryID)
}

func TestMonthlyTrend(t *testing.T) {
	trend := MonthlyTrend(sampleRows())
	require.Len(t, trend, 3)

	assert.Equal(t, 2025, trend[0].Year)
	assert.Equal(t, 12, trend[0].Month)
	assert.True(t, decimal.RequireFromString("150.55").Equal(trend[0].IncomeTotal))
	assert.True(t, trend[0].ExpenseTotal.IsZero())

	assert.Equal(t, 1, trend[1].Month)
	assert.True(t, decimal.RequireFromString("912.10").Equal(trend[1].ExpenseTotal))
	assert.Equal(t, int64(2), trend[1].Count)

	assert.Equal(t, 2, trend[2].Month)
	assert.True(t, decimal.RequireFromString("3000").Equal(trend[2].IncomeTotal))
	assert.True(t, decimal.RequireFromString("7.45").Equal(trend[2].ExpenseTotal))
}

func TestGetStatistics(t *testing.T) {
	ctx := context.Background()
	categories := adaptertest.NewCategoryRepository(food, rent, salary)
	transactions := adaptertest.NewTransactionRepository(categories)
	userID := uuid.New()

	for _, r := range sampleRows() {
		r.Transaction.UserID = userID
		require.NoError(t, transactions.Create(ctx, r.Transaction))
	}

	uc := NewGetStatisticsUseCase(transactions)

	start := day(2026, 1, 1).Add(-12 * time.Hour)
	end := day(2026, 1, 31)
	stats, err := uc.Execute(ctx, GetStatisticsInput{UserID: userID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Summary.TotalCount)
	assert.True(t, stats.Summary.Income.Total.IsZero())
	assert.True(t, decimal.RequireFromString("-912.10").Equal(stats.Summary.NetIncome))
	require.Len(t, stats.MonthlyTrend, 1)

	income := entity.TransactionTypeIncome
	stats, err = uc.Execute(ctx, GetStatisticsInput{UserID: userID, BreakdownType: &income})
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionTypeIncome, stats.BreakdownType)
	require.Len(t, stats.CategoryBreakdown, 1)
	assert.Equal(t, "Salary", stats.CategoryBreakdown[0].Name)
	assert.Equal(t, int64(5), stats.Summary.TotalCount)

	_, err = uc.Execute(ctx, GetStatisticsInput{UserID: userID, StartDate: &end, EndDate: &start})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))

	empty, err := uc.Execute(ctx, GetStatisticsInput{UserID: uuid.New()})
	require.NoError(t, err)
	assert.True(t, empty.Summary.NetIncome.IsZero())
}
