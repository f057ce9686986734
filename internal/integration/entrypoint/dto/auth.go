// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finly/backend/internal/domain/entity"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Email         string           `json:"email" binding:"required,email"`
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Password      string           `json:"password" binding:"required,min=8"`
	Currency      string           `json:"currency" binding:"omitempty,len=3"`
	MonthlyBudget *decimal.Decimal `json:"monthlyBudget"`
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents the request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest represents the request body for user logout.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents the response for authentication endpoints.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// TokenResponse represents the response for token refresh.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse represents the user data in API responses.
type UserResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Currency      string     `json:"currency"`
	MonthlyBudget string     `json:"monthlyBudget"`
	IsActive      bool       `json:"isActive"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// UpdateProfileRequest represents the request body for profile updates.
// Omitted fields are left untouched.
type UpdateProfileRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Currency      *string          `json:"currency" binding:"omitempty,len=3"`
	MonthlyBudget *decimal.Decimal `json:"monthlyBudget"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ToUserResponse converts a domain User entity to a UserResponse DTO.
func ToUserResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		Currency:      user.Currency,
		MonthlyBudget: user.MonthlyBudget.StringFixed(2),
		IsActive:      user.IsActive,
		LastLoginAt:   user.LastLoginAt,
		CreatedAt:     user.CreatedAt,
	}
}
