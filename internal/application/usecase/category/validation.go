// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 50
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 50
)

var hexColorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryName,
			fmt.Sprintf("category name must be between 1 and %d characters", MaxCategoryNameLength),
			domainerror.ErrInvalidCategoryName,
		)
	}
	return nil
}

func validateColor(color string) error {
	if color != "" && !hexColorRegex.MatchString(color) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidColorFormat,
			"color must be a valid hex format (#XXXXXX)",
			domainerror.ErrInvalidColorFormat,
		)
	}
	return nil
}

func validateIcon(icon string) error {
	if len(icon) > MaxIconLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeMissingCategoryFields,
			fmt.Sprintf("icon must not exceed %d characters", MaxIconLength),
			domainerror.ErrInvalidCategoryName,
		)
	}
	return nil
}

func validateType(categoryType entity.CategoryType) error {
	if !categoryType.IsValid() {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'income', 'expense' or 'both'",
			domainerror.ErrInvalidCategoryType,
		)
	}
	return nil
}

// ensureNameAvailable rejects a name already used by the owner or by a default category.
// excludeID skips the category being renamed.
func ensureNameAvailable(ctx context.Context, repo adapter.CategoryRepository, name string, ownerID uuid.UUID, excludeID *uuid.UUID) error {
	for _, owner := range []*uuid.UUID{&ownerID, nil} {
		existing, err := repo.FindByNameAndOwner(ctx, strings.TrimSpace(name), owner)
		if err != nil {
			return fmt.Errorf("failed to check category name existence: %w", err)
		}
		if existing != nil && (excludeID == nil || existing.ID != *excludeID) {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNameExists,
				"a category with this name already exists",
				domainerror.ErrCategoryNameExists,
			)
		}
	}
	return nil
}

// ValidateParent checks that child may be nested under parentID.
// The parent must exist, differ from the child, have no parent itself and
// belong to the same owner or be a default. A child with children of its own
// cannot become nested.
func ValidateParent(ctx context.Context, repo adapter.CategoryRepository, child *entity.Category, parentID uuid.UUID) error {
	if parentID == child.ID {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCircularParent,
			"a category cannot be its own parent",
			domainerror.ErrInvalidParentCategory,
		)
	}

	parent, err := repo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeParentCategoryNotFound,
				"parent category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return fmt.Errorf("failed to find parent category: %w", err)
	}

	if parent.ParentCategoryID != nil {
		if *parent.ParentCategoryID == child.ID {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCircularParent,
				"parent category is a child of this category",
				domainerror.ErrInvalidParentCategory,
			)
		}
		return domainerror.NewCategoryError(
			domainerror.ErrCodeParentNestingTooDeep,
			"parent category cannot itself have a parent",
			domainerror.ErrInvalidParentCategory,
		)
	}

	if !parent.IsDefault && !parent.SameOwner(child) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeParentOwnerMismatch,
			"parent category must belong to the same owner or be a default",
			domainerror.ErrInvalidParentCategory,
		)
	}

	children, err := repo.CountChildren(ctx, child.ID)
	if err != nil {
		return fmt.Errorf("failed to count child categories: %w", err)
	}
	if children > 0 {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryHasChildren,
			"a category with subcategories cannot be nested",
			domainerror.ErrInvalidParentCategory,
		)
	}

	return nil
}

// ValidateTypeChange rejects a type change that would leave referencing
// transactions with an incompatible category.
func ValidateTypeChange(ctx context.Context, txRepo adapter.TransactionRepository, category *entity.Category, newType entity.CategoryType) error {
	if newType == category.Type || newType == entity.CategoryTypeBoth {
		return nil
	}

	for _, txType := range []entity.TransactionType{entity.TransactionTypeIncome, entity.TransactionTypeExpense} {
		if newType.Accepts(txType) {
			continue
		}
		count, err := txRepo.CountByCategoryAndType(ctx, category.ID, txType)
		if err != nil {
			return fmt.Errorf("failed to count referencing transactions: %w", err)
		}
		if count > 0 {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryTypeConflict,
				fmt.Sprintf("%d %s transaction(s) reference this category", count, txType),
				domainerror.ErrCategoryTypeConflict,
			)
		}
	}
	return nil
}

func categoryNotFound() error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFound,
	)
}

// findVisible loads a category the user may read. Invisible categories are reported as missing.
func findVisible(ctx context.Context, repo adapter.CategoryRepository, id, userID uuid.UUID) (*entity.Category, error) {
	category, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, categoryNotFound()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if !category.IsVisibleTo(userID) {
		return nil, categoryNotFound()
	}
	return category, nil
}

// findOwned loads a category the user may modify. Defaults are read-only.
func findOwned(ctx context.Context, repo adapter.CategoryRepository, id, userID uuid.UUID) (*entity.Category, error) {
	category, err := findVisible(ctx, repo, id, userID)
	if err != nil {
		return nil, err
	}
	if !category.IsOwnedBy(userID) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeNotAuthorizedCategory,
			"not authorized to modify this category",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}
	return category, nil
}
