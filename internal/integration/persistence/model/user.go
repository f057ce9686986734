// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
)

// UserModel represents the user table in the database.
type UserModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Email         string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name          string          `gorm:"type:varchar(100);not null"`
	PasswordHash  string          `gorm:"type:varchar(255);not null"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	MonthlyBudget decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IsActive      bool            `gorm:"not null"`
	LastLoginAt   *time.Time
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:            m.ID,
		Email:         m.Email,
		Name:          m.Name,
		PasswordHash:  m.PasswordHash,
		Currency:      m.Currency,
		MonthlyBudget: m.MonthlyBudget,
		IsActive:      m.IsActive,
		LastLoginAt:   m.LastLoginAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromEntity creates a UserModel from a domain User entity.
func FromEntity(user *entity.User) *UserModel {
	return &UserModel{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		PasswordHash:  user.PasswordHash,
		Currency:      user.Currency,
		MonthlyBudget: user.MonthlyBudget,
		IsActive:      user.IsActive,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

// All returns every model managed by auto-migration, in dependency order.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&CategoryModel{},
		&TransactionModel{},
		&TransactionTagModel{},
	}
}
