package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindByNameAndOwner retrieves a category by case-insensitive name.
	// A nil ownerID looks among the defaults.
	FindByNameAndOwner(ctx context.Context, name string, ownerID *uuid.UUID) (*entity.Category, error)

	// ListActive returns active defaults plus the owner's active categories, ordered by name.
	// A type filter also matches categories of type both.
	ListActive(ctx context.Context, ownerID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error)

	// ListDefaults returns every default category, active or not.
	ListDefaults(ctx context.Context) ([]*entity.Category, error)

	// CountChildren counts categories whose parent is the given category.
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)

	// Update updates an existing category in the database.
	Update(ctx context.Context, category *entity.Category) error

	// IncrementUsageCount adds one to the category usage counter.
	IncrementUsageCount(ctx context.Context, id uuid.UUID) error

	// Delete removes a category from the database.
	Delete(ctx context.Context, id uuid.UUID) error
}
