package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	Name             string
	Color            string // Optional, defaults to DefaultCategoryColor
	Icon             string // Optional, defaults to DefaultCategoryIcon
	OwnerID          uuid.UUID
	Type             entity.CategoryType
	ParentCategoryID *uuid.UUID
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category creation.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateColor(input.Color); err != nil {
		return nil, err
	}
	if err := validateIcon(input.Icon); err != nil {
		return nil, err
	}
	if err := validateType(input.Type); err != nil {
		return nil, err
	}

	color := input.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	icon := input.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}

	if err := ensureNameAvailable(ctx, uc.categoryRepo, input.Name, input.OwnerID, nil); err != nil {
		return nil, err
	}

	category := entity.NewCategory(input.Name, color, icon, input.OwnerID, input.Type, input.ParentCategoryID)

	if input.ParentCategoryID != nil {
		if err := ValidateParent(ctx, uc.categoryRepo, category, *input.ParentCategoryID); err != nil {
			return nil, err
		}
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Debug("Category created", "userID", input.OwnerID, "categoryID", category.ID)

	return &CreateCategoryOutput{
		Category: category,
	}, nil
}
