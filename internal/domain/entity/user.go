// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is applied to users and transactions that do not specify one.
const DefaultCurrency = "USD"

// User represents an account holder in the Finly system.
// Users are deactivated rather than deleted.
type User struct {
	ID            uuid.UUID
	Email         string
	Name          string
	PasswordHash  string
	Currency      string
	MonthlyBudget decimal.Decimal
	IsActive      bool
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a new active User with default preferences.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		ID:            uuid.New(),
		Email:         email,
		Name:          name,
		PasswordHash:  passwordHash,
		Currency:      DefaultCurrency,
		MonthlyBudget: decimal.Zero,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Deactivate marks the user as inactive.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}
