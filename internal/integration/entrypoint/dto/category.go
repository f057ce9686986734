package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/domain/entity"
)

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=50"`
	Type             string  `json:"type" binding:"required,oneof=expense income both"`
	Color            string  `json:"color" binding:"omitempty,hexcolor"`
	Icon             string  `json:"icon" binding:"omitempty,max=50"`
	ParentCategoryID *string `json:"parentCategoryId" binding:"omitempty,uuid"`
}

// UpdateCategoryRequest represents the request body for updating a category.
// A null parentCategoryId detaches the category from its parent; an omitted
// one leaves it unchanged.
type UpdateCategoryRequest struct {
	Name             *string             `json:"name" binding:"omitempty,min=1,max=50"`
	Type             *string             `json:"type" binding:"omitempty,oneof=expense income both"`
	Color            *string             `json:"color" binding:"omitempty,hexcolor"`
	Icon             *string             `json:"icon" binding:"omitempty,max=50"`
	IsActive         *bool               `json:"isActive"`
	ParentCategoryID Nullable[uuid.UUID] `json:"parentCategoryId"`
}

// ListCategoriesQuery represents the query parameters for listing categories.
type ListCategoriesQuery struct {
	Type string `form:"type" binding:"omitempty,oneof=expense income both"`
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Type             string    `json:"type"`
	Color            string    `json:"color"`
	Icon             string    `json:"icon"`
	OwnerID          *string   `json:"ownerId"`
	IsDefault        bool      `json:"isDefault"`
	IsActive         bool      `json:"isActive"`
	UsageCount       int64     `json:"usageCount"`
	ParentCategoryID *string   `json:"parentCategoryId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CategoryListResponse represents the response for listing categories.
type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// CategorySummary is the trimmed category embedded in other responses.
type CategorySummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// ToCategoryResponse converts a domain Category entity to a CategoryResponse DTO.
func ToCategoryResponse(category *entity.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:         category.ID.String(),
		Name:       category.Name,
		Type:       string(category.Type),
		Color:      category.Color,
		Icon:       category.Icon,
		IsDefault:  category.IsDefault,
		IsActive:   category.IsActive,
		UsageCount: category.UsageCount,
		CreatedAt:  category.CreatedAt,
		UpdatedAt:  category.UpdatedAt,
	}
	if category.OwnerID != nil {
		id := category.OwnerID.String()
		resp.OwnerID = &id
	}
	if category.ParentCategoryID != nil {
		id := category.ParentCategoryID.String()
		resp.ParentCategoryID = &id
	}
	return resp
}

// ToCategoryListResponse converts a slice of categories.
func ToCategoryListResponse(categories []*entity.Category) CategoryListResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		items = append(items, ToCategoryResponse(c))
	}
	return CategoryListResponse{Categories: items}
}

// ToCategorySummary converts a category to its embedded form. A nil category yields nil.
func ToCategorySummary(category *entity.Category) *CategorySummary {
	if category == nil {
		return nil
	}
	return &CategorySummary{
		ID:    category.ID.String(),
		Name:  category.Name,
		Type:  string(category.Type),
		Color: category.Color,
		Icon:  category.Icon,
	}
}
