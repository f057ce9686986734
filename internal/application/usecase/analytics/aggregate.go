// Package analytics computes derived statistics over transaction sets.
package analytics

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
)

// averagePlaces is the rounding applied to averages.
const averagePlaces = 2

// Aggregate derives summary, per-category breakdown and monthly trend from rows.
// It is a pure function: identical input yields identical output.
func Aggregate(rows []*entity.TransactionWithCategory, breakdownType entity.TransactionType) entity.TransactionStatistics {
	if breakdownType == "" {
		breakdownType = entity.TransactionTypeExpense
	}
	return entity.TransactionStatistics{
		Summary:           Summarize(rows),
		BreakdownType:     breakdownType,
		CategoryBreakdown: BreakdownByCategory(rows, breakdownType),
		MonthlyTrend:      MonthlyTrend(rows),
	}
}

// Summarize computes per-type totals, counts and averages, and net income.
func Summarize(rows []*entity.TransactionWithCategory) entity.TransactionSummary {
	var income, expense accumulator
	for _, row := range rows {
		tx := row.Transaction
		switch tx.Type {
		case entity.TransactionTypeIncome:
			income.add(tx.Amount)
		case entity.TransactionTypeExpense:
			expense.add(tx.Amount)
		}
	}

	var all accumulator
	all.total = income.total.Add(expense.total)
	all.count = income.count + expense.count

	return entity.TransactionSummary{
		Income:        income.totals(),
		Expense:       expense.totals(),
		NetIncome:     income.total.Sub(expense.total),
		TotalCount:    all.count,
		AverageAmount: all.average(),
	}
}

// BreakdownByCategory groups rows of one type by category, sorted by total descending.
func BreakdownByCategory(rows []*entity.TransactionWithCategory, transactionType entity.TransactionType) []entity.CategoryBreakdownItem {
	groups := make(map[uuid.UUID]*accumulator)
	meta := make(map[uuid.UUID]*entity.Category)
	var order []uuid.UUID

	for _, row := range rows {
		tx := row.Transaction
		if tx.Type != transactionType {
			continue
		}
		acc, ok := groups[tx.CategoryID]
		if !ok {
			acc = &accumulator{}
			groups[tx.CategoryID] = acc
			order = append(order, tx.CategoryID)
		}
		acc.add(tx.Amount)
		if row.Category != nil {
			meta[tx.CategoryID] = row.Category
		}
	}

	items := make([]entity.CategoryBreakdownItem, 0, len(order))
	for _, id := range order {
		acc := groups[id]
		item := entity.CategoryBreakdownItem{
			CategoryID: id,
			Total:      acc.total,
			Count:      acc.count,
			Average:    acc.average(),
		}
		if c, ok := meta[id]; ok {
			item.Name = c.Name
			item.Color = c.Color
			item.Icon = c.Icon
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if c := items[i].Total.Cmp(items[j].Total); c != 0 {
			return c > 0
		}
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].CategoryID.String() < items[j].CategoryID.String()
	})
	return items
}

// MonthlyTrend groups rows by calendar month in UTC, sorted chronologically.
func MonthlyTrend(rows []*entity.TransactionWithCategory) []entity.MonthlyTrendItem {
	type monthKey struct{ year, month int }
	groups := make(map[monthKey]*entity.MonthlyTrendItem)

	for _, row := range rows {
		tx := row.Transaction
		date := tx.Date.UTC()
		key := monthKey{year: date.Year(), month: int(date.Month())}
		item, ok := groups[key]
		if !ok {
			item = &entity.MonthlyTrendItem{
				Year:         key.year,
				Month:        key.month,
				IncomeTotal:  decimal.Zero,
				ExpenseTotal: decimal.Zero,
			}
			groups[key] = item
		}
		switch tx.Type {
		case entity.TransactionTypeIncome:
			item.IncomeTotal = item.IncomeTotal.Add(tx.Amount)
		case entity.TransactionTypeExpense:
			item.ExpenseTotal = item.ExpenseTotal.Add(tx.Amount)
		}
		item.Count++
	}

	items := make([]entity.MonthlyTrendItem, 0, len(groups))
	for _, item := range groups {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Year != items[j].Year {
			return items[i].Year < items[j].Year
		}
		return items[i].Month < items[j].Month
	})
	return items
}

type accumulator struct {
	total decimal.Decimal
	count int64
}

func (a *accumulator) add(amount decimal.Decimal) {
	a.total = a.total.Add(amount)
	a.count++
}

func (a *accumulator) average() decimal.Decimal {
	if a.count == 0 {
		return decimal.Zero
	}
	return a.total.DivRound(decimal.NewFromInt(a.count), averagePlaces)
}

func (a *accumulator) totals() entity.TypeTotals {
	return entity.TypeTotals{
		Total:   a.total,
		Count:   a.count,
		Average: a.average(),
	}
}
