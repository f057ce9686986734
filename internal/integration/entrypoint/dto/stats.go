package dto

import (
	"github.com/finly/backend/internal/domain/entity"
)

// TypeTotalsResponse holds totals for one transaction type.
type TypeTotalsResponse struct {
	Total   string `json:"total"`
	Count   int64  `json:"count"`
	Average string `json:"average"`
}

// SummaryResponse is the per-type summary of a transaction set.
type SummaryResponse struct {
	Income        TypeTotalsResponse `json:"income"`
	Expense       TypeTotalsResponse `json:"expense"`
	NetIncome     string             `json:"netIncome"`
	TotalCount    int64              `json:"totalCount"`
	AverageAmount string             `json:"averageAmount"`
}

// CategoryBreakdownResponse is one row of the per-category breakdown.
type CategoryBreakdownResponse struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Icon       string `json:"icon"`
	Total      string `json:"total"`
	Count      int64  `json:"count"`
	Average    string `json:"average"`
}

// MonthlyTrendResponse is one month of the trend series.
type MonthlyTrendResponse struct {
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Count   int64  `json:"count"`
}

// StatsResponse represents the response for transaction statistics.
type StatsResponse struct {
	Summary           SummaryResponse             `json:"summary"`
	BreakdownType     string                      `json:"breakdownType"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"categoryBreakdown"`
	MonthlyTrend      []MonthlyTrendResponse      `json:"monthlyTrend"`
}

func toTypeTotalsResponse(t entity.TypeTotals) TypeTotalsResponse {
	return TypeTotalsResponse{
		Total:   t.Total.StringFixed(2),
		Count:   t.Count,
		Average: t.Average.StringFixed(2),
	}
}

// ToSummaryResponse converts a summary to its response form.
func ToSummaryResponse(s entity.TransactionSummary) SummaryResponse {
	return SummaryResponse{
		Income:        toTypeTotalsResponse(s.Income),
		Expense:       toTypeTotalsResponse(s.Expense),
		NetIncome:     s.NetIncome.StringFixed(2),
		TotalCount:    s.TotalCount,
		AverageAmount: s.AverageAmount.StringFixed(2),
	}
}

// ToStatsResponse converts derived statistics to a response DTO.
func ToStatsResponse(stats *entity.TransactionStatistics) StatsResponse {
	resp := StatsResponse{
		Summary:           ToSummaryResponse(stats.Summary),
		BreakdownType:     string(stats.BreakdownType),
		CategoryBreakdown: make([]CategoryBreakdownResponse, 0, len(stats.CategoryBreakdown)),
		MonthlyTrend:      make([]MonthlyTrendResponse, 0, len(stats.MonthlyTrend)),
	}
	for _, item := range stats.CategoryBreakdown {
		resp.CategoryBreakdown = append(resp.CategoryBreakdown, CategoryBreakdownResponse{
			CategoryID: item.CategoryID.String(),
			Name:       item.Name,
			Color:      item.Color,
			Icon:       item.Icon,
			Total:      item.Total.StringFixed(2),
			Count:      item.Count,
			Average:    item.Average.StringFixed(2),
		})
	}
	for _, item := range stats.MonthlyTrend {
		resp.MonthlyTrend = append(resp.MonthlyTrend, MonthlyTrendResponse{
			Year:    item.Year,
			Month:   item.Month,
			Income:  item.IncomeTotal.StringFixed(2),
			Expense: item.ExpenseTotal.StringFixed(2),
			Count:   item.Count,
		})
	}
	return resp
}
