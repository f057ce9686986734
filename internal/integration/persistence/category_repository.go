package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create creates a new category in the database.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Create(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindByNameAndOwner retrieves a category by case-insensitive name and owner.
// A nil ownerID looks among the defaults. Returns nil when nothing matches.
func (r *categoryRepository) FindByNameAndOwner(ctx context.Context, name string, ownerID *uuid.UUID) (*entity.Category, error) {
	query := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name)
	if ownerID == nil {
		query = query.Where("owner_id IS NULL")
	} else {
		query = query.Where("owner_id = ?", *ownerID)
	}

	var categoryModel model.CategoryModel
	result := query.Order("name ASC").First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// ListActive returns active defaults plus the owner's active categories, ordered by name.
func (r *categoryRepository) ListActive(ctx context.Context, ownerID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("(owner_id IS NULL OR is_default = ? OR owner_id = ?)", true, ownerID)
	if categoryType != nil {
		query = query.Where("type IN ?", []string{string(*categoryType), string(entity.CategoryTypeBoth)})
	}

	var categoryModels []model.CategoryModel
	result := query.Order("name ASC").Order("id ASC").Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toCategories(categoryModels), nil
}

// ListDefaults returns every default category, active or not.
func (r *categoryRepository) ListDefaults(ctx context.Context) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("owner_id IS NULL").
		Order("name ASC").
		Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toCategories(categoryModels), nil
}

// CountChildren counts categories whose parent is the given category.
func (r *categoryRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("parent_category_id = ?", id).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Update updates an existing category in the database.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Save(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// IncrementUsageCount adds one to the usage counter in a single statement.
func (r *categoryRepository) IncrementUsageCount(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category from the database.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func toCategories(models []model.CategoryModel) []*entity.Category {
	categories := make([]*entity.Category, len(models))
	for i := range models {
		categories[i] = models[i].ToEntity()
	}
	return categories
}
