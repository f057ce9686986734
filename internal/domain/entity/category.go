package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType represents which transaction types a category can hold.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeBoth    CategoryType = "both"
)

// IsValid reports whether the category type is supported.
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeIncome, CategoryTypeBoth:
		return true
	}
	return false
}

// Accepts reports whether a transaction of the given type may reference a category of this type.
func (t CategoryType) Accepts(txType TransactionType) bool {
	if t == CategoryTypeBoth {
		return true
	}
	return string(t) == string(txType)
}

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// Category represents a transaction category.
// A nil OwnerID marks a system-wide default available to every user.
type Category struct {
	ID               uuid.UUID
	Name             string
	Type             CategoryType
	Color            string
	Icon             string
	OwnerID          *uuid.UUID
	IsDefault        bool
	IsActive         bool
	UsageCount       int64
	ParentCategoryID *uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewCategory creates a new user-owned Category entity.
// Defaulting of color and icon happens in the application layer.
func NewCategory(name, color, icon string, ownerID uuid.UUID, categoryType CategoryType, parentID *uuid.UUID) *Category {
	now := time.Now().UTC()
	owner := ownerID

	return &Category{
		ID:               uuid.New(),
		Name:             strings.TrimSpace(name),
		Type:             categoryType,
		Color:            color,
		Icon:             icon,
		OwnerID:          &owner,
		IsActive:         true,
		ParentCategoryID: parentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// NewDefaultCategory creates a system-wide default Category.
func NewDefaultCategory(name, color, icon string, categoryType CategoryType) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Type:      categoryType,
		Color:     color,
		Icon:      icon,
		IsDefault: true,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwnedBy reports whether the category belongs to the given user.
func (c *Category) IsOwnedBy(userID uuid.UUID) bool {
	return c.OwnerID != nil && *c.OwnerID == userID
}

// IsVisibleTo reports whether the user can read or reference the category.
func (c *Category) IsVisibleTo(userID uuid.UUID) bool {
	return c.IsDefault || c.OwnerID == nil || c.IsOwnedBy(userID)
}

// SameOwner reports whether both categories share an owner.
func (c *Category) SameOwner(other *Category) bool {
	if c.OwnerID == nil || other.OwnerID == nil {
		return c.OwnerID == nil && other.OwnerID == nil
	}
	return *c.OwnerID == *other.OwnerID
}
