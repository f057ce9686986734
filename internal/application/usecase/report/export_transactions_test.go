package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finly/backend/internal/application/adapter/adaptertest"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

type fixture struct {
	users        *adaptertest.UserRepository
	transactions *adaptertest.TransactionRepository
	renderer     *adaptertest.ReportRenderer
	user         *entity.User
	uc           *ExportTransactionsUseCase
}

func newFixture(t *testing.T, maxRows int) *fixture {
	t.Helper()
	ctx := context.Background()

	food := entity.NewDefaultCategory("Food & Dining", "#F97316", "utensils", entity.CategoryTypeExpense)
	salary := entity.NewDefaultCategory("Salary", "#10B981", "briefcase", entity.CategoryTypeIncome)
	categories := adaptertest.NewCategoryRepository(food, salary)

	f := &fixture{
		users:        adaptertest.NewUserRepository(),
		transactions: adaptertest.NewTransactionRepository(categories),
		renderer:     &adaptertest.ReportRenderer{},
		user:         entity.NewUser("ana@example.com", "Ana", "hashed:secret"),
	}
	require.NoError(t, f.users.Create(ctx, f.user))

	add := func(txType entity.TransactionType, amount string, category *entity.Category, day int) {
		tx := entity.NewTransaction(f.user.ID, "t", decimal.RequireFromString(amount), "USD", txType, category.ID,
			time.Date(2026, 1, day, 9, 0, 0, 0, time.UTC))
		require.NoError(t, f.transactions.Create(ctx, tx))
	}
	add(entity.TransactionTypeIncome, "2000", salary, 1)
	add(entity.TransactionTypeExpense, "15.50", food, 2)
	add(entity.TransactionTypeExpense, "4.50", food, 3)

	f.uc = NewExportTransactionsUseCase(f.transactions, f.users, f.renderer, maxRows)
	f.uc.now = func() time.Time { return time.Date(2026, 2, 3, 14, 5, 9, 0, time.UTC) }
	return f
}

func TestExportTransactions(t *testing.T) {
	f := newFixture(t, 0)

	out, err := f.uc.Execute(context.Background(), ExportTransactionsInput{UserID: f.user.ID})
	require.NoError(t, err)

	assert.Equal(t, "transactions-20260203-140509.pdf", out.Filename)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, []byte("%PDF-fake"), out.Content)

	report := f.renderer.Last
	require.NotNil(t, report)
	assert.Equal(t, ReportTitle, report.Title)
	assert.Equal(t, "Ana", report.AccountName)
	assert.Equal(t, "ana@example.com", report.AccountEmail)
	assert.Len(t, report.Rows, 3)
	assert.Equal(t, int64(3), report.Summary.TotalCount)
	assert.True(t, decimal.RequireFromString("1980").Equal(report.Summary.NetIncome))
	// Date descending is the default order.
	assert.Equal(t, 3, report.Rows[0].Transaction.Date.Day())
}

func TestExportTransactions_SummaryFollowsFilter(t *testing.T) {
	f := newFixture(t, 0)
	expense := entity.TransactionTypeExpense

	_, err := f.uc.Execute(context.Background(), ExportTransactionsInput{
		UserID:   f.user.ID,
		Criteria: transaction.Criteria{Type: &expense, Page: 3, Limit: 1},
	})
	require.NoError(t, err)

	report := f.renderer.Last
	assert.Len(t, report.Rows, 2)
	assert.Zero(t, report.Summary.Income.Count)
	assert.True(t, decimal.RequireFromString("20").Equal(report.Summary.Expense.Total))
}

func TestExportTransactions_RowCeiling(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.uc.Execute(context.Background(), ExportTransactionsInput{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Len(t, f.renderer.Last.Rows, 2)
}

func TestExportTransactions_NothingToExport(t *testing.T) {
	f := newFixture(t, 0)
	from := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), ExportTransactionsInput{
		UserID:   f.user.ID,
		Criteria: transaction.Criteria{StartDate: &from},
	})

	assert.Equal(t, domainerror.KindEmptyResult, domainerror.KindOf(err))
	assert.Equal(t, string(domainerror.ErrCodeNothingToExport), domainerror.CodeOf(err))
	assert.True(t, errors.Is(err, domainerror.ErrNothingToExport))
	assert.Nil(t, f.renderer.Last)
}

func TestExportTransactions_Errors(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.uc.Execute(context.Background(), ExportTransactionsInput{UserID: uuid.New()})
	assert.Equal(t, domainerror.KindNotFound, domainerror.KindOf(err))

	_, err = f.uc.Execute(context.Background(), ExportTransactionsInput{
		UserID:   f.user.ID,
		Criteria: transaction.Criteria{SortBy: "merchant"},
	})
	assert.Equal(t, domainerror.KindValidation, domainerror.KindOf(err))

	f.renderer.Err = errors.New("boom")
	_, err = f.uc.Execute(context.Background(), ExportTransactionsInput{UserID: f.user.ID})
	assert.Equal(t, domainerror.KindInternal, domainerror.KindOf(err))
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 12, 31, 23, 59, 58, 0, time.UTC)
	assert.Equal(t, "transactions-20261231-235958.pdf", Filename(at, "pdf"))
}
