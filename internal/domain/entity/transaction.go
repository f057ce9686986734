package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// IsValid reports whether the transaction type is supported.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeExpense || t == TransactionTypeIncome
}

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodWallet       PaymentMethod = "wallet"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid reports whether the payment method is supported.
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodBankTransfer, PaymentMethodUPI, PaymentMethodWallet, PaymentMethodOther:
		return true
	}
	return false
}

// TransactionStatus represents the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// IsValid reports whether the status is supported.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// RecurringFrequency represents the repeat unit of a recurring rule.
type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
)

// IsValid reports whether the frequency is supported.
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// RecurringRule describes how a transaction repeats. It is informational only.
type RecurringRule struct {
	Frequency RecurringFrequency `json:"frequency"`
	Interval  int                `json:"interval"`
	EndDate   *time.Time         `json:"endDate,omitempty"`
}

// Location is where a transaction happened.
type Location struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// Attachment is a file stored alongside a transaction, typically a receipt.
type Attachment struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Path         string    `json:"path"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// OCRData is what the OCR collaborator extracted from a receipt.
// Confidence is reported by the collaborator and kept as-is.
type OCRData struct {
	ExtractedText     string           `json:"extractedText"`
	ExtractedAmount   *decimal.Decimal `json:"extractedAmount,omitempty"`
	ExtractedDate     *string          `json:"extractedDate,omitempty"`
	ExtractedMerchant *string          `json:"extractedMerchant,omitempty"`
	Confidence        float64          `json:"confidence"`
}

// Transaction represents an income or expense entry. Amount is always strictly positive;
// the direction is carried by Type.
type Transaction struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Description   string
	Amount        decimal.Decimal
	Currency      string
	Type          TransactionType
	CategoryID    uuid.UUID
	Date          time.Time
	PaymentMethod PaymentMethod
	Location      *Location
	Attachments   []Attachment
	OCRData       *OCRData
	Tags          []string
	Recurring     *RecurringRule
	Status        TransactionStatus
	IsVerified    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction creates a new completed Transaction paid in cash.
func NewTransaction(
	userID uuid.UUID,
	title string,
	amount decimal.Decimal,
	currency string,
	transactionType TransactionType,
	categoryID uuid.UUID,
	date time.Time,
) *Transaction {
	now := time.Now().UTC()
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Amount:        amount,
		Currency:      currency,
		Type:          transactionType,
		CategoryID:    categoryID,
		Date:          date,
		PaymentMethod: PaymentMethodCash,
		Tags:          []string{},
		Status:        TransactionStatusCompleted,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TransactionWithCategory represents a transaction with its associated category.
type TransactionWithCategory struct {
	Transaction *Transaction
	Category    *Category
}
