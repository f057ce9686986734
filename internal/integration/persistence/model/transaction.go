package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
// Location is flattened into columns so the name can be searched;
// attachments, OCR data and the recurring rule are stored as JSON.
type TransactionModel struct {
	ID                uuid.UUID             `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID             `gorm:"type:uuid;not null;index"`
	Title             string                `gorm:"type:varchar(100);not null"`
	Description       string                `gorm:"type:varchar(500)"`
	Amount            decimal.Decimal       `gorm:"type:decimal(15,2);not null"`
	Currency          string                `gorm:"type:varchar(3);not null"`
	Type              string                `gorm:"type:varchar(10);not null;index"`
	CategoryID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Date              time.Time             `gorm:"not null;index"`
	PaymentMethod     string                `gorm:"type:varchar(20);not null"`
	LocationName      string                `gorm:"type:varchar(255)"`
	LocationAddress   string                `gorm:"type:varchar(255)"`
	LocationLatitude  *float64              `gorm:"type:double precision"`
	LocationLongitude *float64              `gorm:"type:double precision"`
	Attachments       []entity.Attachment   `gorm:"type:text;serializer:json"`
	OCRData           *entity.OCRData       `gorm:"column:ocr_data;type:text;serializer:json"`
	Recurring         *entity.RecurringRule `gorm:"type:text;serializer:json"`
	Status            string                `gorm:"type:varchar(20);not null"`
	IsVerified        bool                  `gorm:"not null"`
	CreatedAt         time.Time             `gorm:"not null;index"`
	UpdatedAt         time.Time             `gorm:"not null"`

	// Relationships
	Category *CategoryModel        `gorm:"foreignKey:CategoryID;references:ID"`
	Tags     []TransactionTagModel `gorm:"foreignKey:TransactionID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionTagModel represents one tag of a transaction.
type TransactionTagModel struct {
	TransactionID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag           string    `gorm:"type:varchar(30);primaryKey;index"`
}

// TableName returns the table name for the TransactionTagModel.
func (TransactionTagModel) TableName() string {
	return "transaction_tags"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	tags := make([]string, len(m.Tags))
	for i, t := range m.Tags {
		tags[i] = t.Tag
	}

	var location *entity.Location
	if m.LocationName != "" || m.LocationAddress != "" || m.LocationLatitude != nil || m.LocationLongitude != nil {
		location = &entity.Location{
			Name:      m.LocationName,
			Address:   m.LocationAddress,
			Latitude:  m.LocationLatitude,
			Longitude: m.LocationLongitude,
		}
	}

	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		Description:   m.Description,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Type:          entity.TransactionType(m.Type),
		CategoryID:    m.CategoryID,
		Date:          m.Date.UTC(),
		PaymentMethod: entity.PaymentMethod(m.PaymentMethod),
		Location:      location,
		Attachments:   m.Attachments,
		OCRData:       m.OCRData,
		Tags:          tags,
		Recurring:     m.Recurring,
		Status:        entity.TransactionStatus(m.Status),
		IsVerified:    m.IsVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToEntityWithCategory converts a TransactionModel with its Category to a TransactionWithCategory entity.
func (m *TransactionModel) ToEntityWithCategory() *entity.TransactionWithCategory {
	result := &entity.TransactionWithCategory{
		Transaction: m.ToEntity(),
	}

	if m.Category != nil {
		result.Category = m.Category.ToEntity()
	}

	return result
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
// The category relationship is never set.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	m := &TransactionModel{
		ID:            transaction.ID,
		UserID:        transaction.UserID,
		Title:         transaction.Title,
		Description:   transaction.Description,
		Amount:        transaction.Amount,
		Currency:      transaction.Currency,
		Type:          string(transaction.Type),
		CategoryID:    transaction.CategoryID,
		Date:          transaction.Date.UTC(),
		PaymentMethod: string(transaction.PaymentMethod),
		Attachments:   transaction.Attachments,
		OCRData:       transaction.OCRData,
		Recurring:     transaction.Recurring,
		Status:        string(transaction.Status),
		IsVerified:    transaction.IsVerified,
		CreatedAt:     transaction.CreatedAt,
		UpdatedAt:     transaction.UpdatedAt,
		Tags:          make([]TransactionTagModel, 0, len(transaction.Tags)),
	}

	if loc := transaction.Location; loc != nil {
		m.LocationName = loc.Name
		m.LocationAddress = loc.Address
		m.LocationLatitude = loc.Latitude
		m.LocationLongitude = loc.Longitude
	}

	for _, tag := range transaction.Tags {
		m.Tags = append(m.Tags, TransactionTagModel{TransactionID: transaction.ID, Tag: tag})
	}

	return m
}
