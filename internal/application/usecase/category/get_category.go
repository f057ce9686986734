package category

import (
	"context"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// GetCategoryUseCase returns one category visible to the user.
type GetCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetCategoryUseCase creates a new GetCategoryUseCase instance.
func NewGetCategoryUseCase(categoryRepo adapter.CategoryRepository) *GetCategoryUseCase {
	return &GetCategoryUseCase{categoryRepo: categoryRepo}
}

// Execute loads the category.
func (uc *GetCategoryUseCase) Execute(ctx context.Context, categoryID, userID uuid.UUID) (*entity.Category, error) {
	return findVisible(ctx, uc.categoryRepo, categoryID, userID)
}
