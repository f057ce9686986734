package category

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	OwnerID    uuid.UUID
}

// DeleteCategoryUseCase handles category deletion logic.
// A category still referenced by transactions is not deleted.
type DeleteCategoryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository, transactionRepo adapter.TransactionRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category deletion.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) error {
	category, err := findOwned(ctx, uc.categoryRepo, input.CategoryID, input.OwnerID)
	if err != nil {
		return err
	}

	count, err := uc.transactionRepo.CountByCategory(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("failed to count referencing transactions: %w", err)
	}
	if count > 0 {
		return domainerror.NewCategoryInUseError(count)
	}

	children, err := uc.categoryRepo.CountChildren(ctx, category.ID)
	if err != nil {
		return fmt.Errorf("failed to count child categories: %w", err)
	}
	if children > 0 {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryHasChildren,
			"category has subcategories",
			domainerror.ErrInvalidParentCategory,
		)
	}

	if err := uc.categoryRepo.Delete(ctx, category.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Debug("Category deleted", "userID", input.OwnerID, "categoryID", category.ID)
	return nil
}
