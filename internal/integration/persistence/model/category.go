package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
// A NULL owner_id marks a default category.
type CategoryModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name             string     `gorm:"type:varchar(50);not null;index"`
	Type             string     `gorm:"type:varchar(10);not null"`
	Color            string     `gorm:"type:varchar(7);not null"`
	Icon             string     `gorm:"type:varchar(50);not null"`
	OwnerID          *uuid.UUID `gorm:"type:uuid;index"`
	IsDefault        bool       `gorm:"not null;index"`
	IsActive         bool       `gorm:"not null"`
	UsageCount       int64      `gorm:"not null"`
	ParentCategoryID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:               m.ID,
		Name:             m.Name,
		Type:             entity.CategoryType(m.Type),
		Color:            m.Color,
		Icon:             m.Icon,
		OwnerID:          m.OwnerID,
		IsDefault:        m.IsDefault,
		IsActive:         m.IsActive,
		UsageCount:       m.UsageCount,
		ParentCategoryID: m.ParentCategoryID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:               category.ID,
		Name:             category.Name,
		Type:             string(category.Type),
		Color:            category.Color,
		Icon:             category.Icon,
		OwnerID:          category.OwnerID,
		IsDefault:        category.IsDefault,
		IsActive:         category.IsActive,
		UsageCount:       category.UsageCount,
		ParentCategoryID: category.ParentCategoryID,
		CreatedAt:        category.CreatedAt,
		UpdatedAt:        category.UpdatedAt,
	}
}
