package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// UpdateCategoryInput represents the input for category update. Nil fields are left untouched.
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	OwnerID     uuid.UUID
	Name        *string
	Color       *string
	Icon        *string
	Type        *entity.CategoryType
	IsActive    *bool
	ParentID    *uuid.UUID
	ClearParent bool
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category update logic.
type UpdateCategoryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(categoryRepo adapter.CategoryRepository, transactionRepo adapter.TransactionRepository) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category update. All checks run before anything is written.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	category, err := findOwned(ctx, uc.categoryRepo, input.CategoryID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validateName(*input.Name); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*input.Name)
		if !strings.EqualFold(name, category.Name) {
			if err := ensureNameAvailable(ctx, uc.categoryRepo, name, input.OwnerID, &category.ID); err != nil {
				return nil, err
			}
		}
		category.Name = name
	}

	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		category.Color = *input.Color
	}

	if input.Icon != nil {
		if err := validateIcon(*input.Icon); err != nil {
			return nil, err
		}
		category.Icon = *input.Icon
	}

	if input.Type != nil {
		if err := validateType(*input.Type); err != nil {
			return nil, err
		}
		if err := ValidateTypeChange(ctx, uc.transactionRepo, category, *input.Type); err != nil {
			return nil, err
		}
		category.Type = *input.Type
	}

	switch {
	case input.ClearParent:
		category.ParentCategoryID = nil
	case input.ParentID != nil:
		if err := ValidateParent(ctx, uc.categoryRepo, category, *input.ParentID); err != nil {
			return nil, err
		}
		parentID := *input.ParentID
		category.ParentCategoryID = &parentID
	}

	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	category.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &UpdateCategoryOutput{
		Category: category,
	}, nil
}
