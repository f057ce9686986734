package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/application/usecase/transaction"
	"github.com/finly/backend/internal/domain/entity"
)

// DateLayout is the calendar date format used by the API.
const DateLayout = "2006-01-02"

// TransactionQuery represents the filter, sort and paging query parameters
// shared by listing and export.
type TransactionQuery struct {
	Page          int    `form:"page"`
	Limit         int    `form:"limit"`
	Type          string `form:"type" binding:"omitempty,oneof=income expense"`
	Category      string `form:"category" binding:"omitempty,uuid"`
	StartDate     string `form:"startDate"`
	EndDate       string `form:"endDate"`
	MinAmount     string `form:"minAmount" binding:"omitempty,numeric"`
	MaxAmount     string `form:"maxAmount" binding:"omitempty,numeric"`
	PaymentMethod string `form:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	Tags          string `form:"tags"`
	Search        string `form:"search" binding:"omitempty,max=100"`
	SortBy        string `form:"sortBy" binding:"omitempty,oneof=date amount title category"`
	SortOrder     string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// ToCriteria converts the query to listing criteria.
func (q TransactionQuery) ToCriteria() (transaction.Criteria, error) {
	c := transaction.Criteria{
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    q.Search,
		SortBy:    adapter.TransactionSortField(q.SortBy),
		SortOrder: adapter.SortOrder(q.SortOrder),
	}

	if q.Type != "" {
		t := entity.TransactionType(q.Type)
		c.Type = &t
	}
	if q.Category != "" {
		id, err := uuid.Parse(q.Category)
		if err != nil {
			return c, fmt.Errorf("category must be a valid UUID")
		}
		c.CategoryID = &id
	}
	if q.PaymentMethod != "" {
		pm := entity.PaymentMethod(q.PaymentMethod)
		c.PaymentMethod = &pm
	}

	var err error
	if c.StartDate, err = ParseDateParam("startDate", q.StartDate, false); err != nil {
		return c, err
	}
	if c.EndDate, err = ParseDateParam("endDate", q.EndDate, true); err != nil {
		return c, err
	}
	if c.MinAmount, err = parseAmountParam("minAmount", q.MinAmount); err != nil {
		return c, err
	}
	if c.MaxAmount, err = parseAmountParam("maxAmount", q.MaxAmount); err != nil {
		return c, err
	}

	if q.Tags != "" {
		c.Tags = strings.Split(q.Tags, ",")
	}
	return c, nil
}

// ParseDateParam parses a YYYY-MM-DD or RFC 3339 value. A bare date used as
// the end of a range covers the whole day.
func ParseDateParam(name, value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in YYYY-MM-DD format", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseAmountParam(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &d, nil
}

// StatsQuery represents the query parameters for transaction statistics.
type StatsQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	Type      string `form:"type" binding:"omitempty,oneof=income expense"`
}

// LocationRequest is a transaction location in requests.
type LocationRequest struct {
	Name      string   `json:"name" binding:"max=100"`
	Address   string   `json:"address" binding:"max=200"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// ToEntity converts the request to a domain location.
func (l *LocationRequest) ToEntity() *entity.Location {
	if l == nil {
		return nil
	}
	return &entity.Location{Name: l.Name, Address: l.Address, Latitude: l.Latitude, Longitude: l.Longitude}
}

// RecurringRequest is a recurring rule in requests.
type RecurringRequest struct {
	Frequency string `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	Interval  int    `json:"interval" binding:"omitempty,min=1"`
	EndDate   string `json:"endDate"`
}

// ToEntity converts the request to a domain rule. A missing interval means every period.
func (r *RecurringRequest) ToEntity() (*entity.RecurringRule, error) {
	if r == nil {
		return nil, nil
	}
	rule := &entity.RecurringRule{Frequency: entity.RecurringFrequency(r.Frequency), Interval: r.Interval}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	end, err := ParseDateParam("recurring.endDate", r.EndDate, true)
	if err != nil {
		return nil, err
	}
	rule.EndDate = end
	return rule, nil
}

// CreateTransactionRequest represents the request body for transaction creation.
type CreateTransactionRequest struct {
	Title         string              `json:"title" binding:"required,min=1,max=100"`
	Description   string              `json:"description" binding:"omitempty,max=500"`
	Amount        decimal.Decimal     `json:"amount"`
	Currency      string              `json:"currency" binding:"omitempty,len=3"`
	Type          string              `json:"type" binding:"required,oneof=income expense"`
	CategoryID    string              `json:"categoryId" binding:"required,uuid"`
	Date          string              `json:"date" binding:"required"`
	PaymentMethod string              `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	Location      *LocationRequest    `json:"location"`
	Attachments   []entity.Attachment `json:"attachments"`
	OCRData       *entity.OCRData     `json:"ocrData"`
	Tags          []string            `json:"tags"`
	Recurring     *RecurringRequest   `json:"recurring"`
	Status        string              `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	IsVerified    bool                `json:"isVerified"`
}

// UpdateTransactionRequest represents the request body for transaction update.
// Omitted fields are left untouched; null location or recurring clears them.
type UpdateTransactionRequest struct {
	Title         *string                    `json:"title" binding:"omitempty,min=1,max=100"`
	Description   *string                    `json:"description" binding:"omitempty,max=500"`
	Amount        *decimal.Decimal           `json:"amount"`
	Currency      *string                    `json:"currency" binding:"omitempty,len=3"`
	Type          *string                    `json:"type" binding:"omitempty,oneof=income expense"`
	CategoryID    *string                    `json:"categoryId" binding:"omitempty,uuid"`
	Date          *string                    `json:"date"`
	PaymentMethod *string                    `json:"paymentMethod" binding:"omitempty,oneof=cash credit_card debit_card bank_transfer upi wallet other"`
	Location      Nullable[LocationRequest]  `json:"location"`
	Tags          *[]string                  `json:"tags"`
	Recurring     Nullable[RecurringRequest] `json:"recurring"`
	Status        *string                    `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
	IsVerified    *bool                      `json:"isVerified"`
}

// BulkDeleteTransactionsRequest represents the request body for bulk transaction deletion.
type BulkDeleteTransactionsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

// BulkDeleteTransactionsResponse represents the response of a bulk deletion.
type BulkDeleteTransactionsResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

// LocationResponse is a transaction location in responses.
type LocationResponse struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// TransactionResponse represents a single transaction in API responses.
type TransactionResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Amount        string                `json:"amount"`
	Currency      string                `json:"currency"`
	Type          string                `json:"type"`
	Category      *CategorySummary      `json:"category"`
	Date          time.Time             `json:"date"`
	PaymentMethod string                `json:"paymentMethod"`
	Location      *LocationResponse     `json:"location,omitempty"`
	Attachments   []entity.Attachment   `json:"attachments"`
	OCRData       *entity.OCRData       `json:"ocrData,omitempty"`
	Tags          []string              `json:"tags"`
	Recurring     *entity.RecurringRule `json:"recurring,omitempty"`
	Status        string                `json:"status"`
	IsVerified    bool                  `json:"isVerified"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// PaginationResponse represents pagination metadata.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// TransactionListResponse represents the response for listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   PaginationResponse    `json:"pagination"`
}

// ToTransactionResponse converts a transaction with its category to a response DTO.
func ToTransactionResponse(row *entity.TransactionWithCategory) TransactionResponse {
	tx := row.Transaction
	resp := TransactionResponse{
		ID:            tx.ID.String(),
		UserID:        tx.UserID.String(),
		Title:         tx.Title,
		Description:   tx.Description,
		Amount:        tx.Amount.StringFixed(2),
		Currency:      tx.Currency,
		Type:          string(tx.Type),
		Category:      ToCategorySummary(row.Category),
		Date:          tx.Date,
		PaymentMethod: string(tx.PaymentMethod),
		Attachments:   tx.Attachments,
		OCRData:       tx.OCRData,
		Tags:          tx.Tags,
		Recurring:     tx.Recurring,
		Status:        string(tx.Status),
		IsVerified:    tx.IsVerified,
		CreatedAt:     tx.CreatedAt,
		UpdatedAt:     tx.UpdatedAt,
	}
	if tx.Location != nil {
		resp.Location = &LocationResponse{
			Name:      tx.Location.Name,
			Address:   tx.Location.Address,
			Latitude:  tx.Location.Latitude,
			Longitude: tx.Location.Longitude,
		}
	}
	if resp.Attachments == nil {
		resp.Attachments = []entity.Attachment{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	return resp
}

// ToTransactionListResponse converts a listing page to a response DTO.
func ToTransactionListResponse(output *transaction.ListTransactionsOutput) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(output.Transactions))
	for _, row := range output.Transactions {
		items = append(items, ToTransactionResponse(row))
	}
	p := output.Pagination
	return TransactionListResponse{
		Transactions: items,
		Pagination: PaginationResponse{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
	}
}
