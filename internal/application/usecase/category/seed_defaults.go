package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// DefaultCategory describes a system-wide category installed by the seed.
type DefaultCategory struct {
	Name  string
	Type  entity.CategoryType
	Color string
	Icon  string
}

// DefaultCategories is the catalogue installed by SeedDefaultCategoriesUseCase.
// Names match the built-in merchant keyword table plus its fallback.
var DefaultCategories = []DefaultCategory{
	{Name: "Food & Dining", Type: entity.CategoryTypeExpense, Color: "#F97316", Icon: "utensils"},
	{Name: "Groceries", Type: entity.CategoryTypeExpense, Color: "#22C55E", Icon: "shopping-basket"},
	{Name: "Transportation", Type: entity.CategoryTypeExpense, Color: "#3B82F6", Icon: "car"},
	{Name: "Healthcare", Type: entity.CategoryTypeExpense, Color: "#EF4444", Icon: "heart-pulse"},
	{Name: "Shopping", Type: entity.CategoryTypeExpense, Color: "#A855F7", Icon: "shopping-bag"},
	{Name: "Entertainment", Type: entity.CategoryTypeExpense, Color: "#EC4899", Icon: "film"},
	{Name: "Utilities", Type: entity.CategoryTypeExpense, Color: "#EAB308", Icon: "bolt"},
	{Name: "Other Expense", Type: entity.CategoryTypeExpense, Color: "#64748B", Icon: "receipt"},
	{Name: "Salary", Type: entity.CategoryTypeIncome, Color: "#10B981", Icon: "briefcase"},
	{Name: "Freelance", Type: entity.CategoryTypeIncome, Color: "#14B8A6", Icon: "laptop"},
	{Name: "Investment", Type: entity.CategoryTypeIncome, Color: "#0EA5E9", Icon: "chart-line"},
	{Name: "Other Income", Type: entity.CategoryTypeIncome, Color: "#84CC16", Icon: "coins"},
}

// SeedDefaultCategoriesOutput reports what the seed did.
type SeedDefaultCategoriesOutput struct {
	Created []string
	Skipped []string
}

// SeedDefaultCategoriesUseCase installs the default categories.
// It is idempotent: names already present as defaults are left alone.
// It is run once per deployment, never on registration.
type SeedDefaultCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
	defaults     []DefaultCategory
}

// NewSeedDefaultCategoriesUseCase creates a seed over the built-in catalogue.
func NewSeedDefaultCategoriesUseCase(categoryRepo adapter.CategoryRepository) *SeedDefaultCategoriesUseCase {
	return &SeedDefaultCategoriesUseCase{
		categoryRepo: categoryRepo,
		defaults:     DefaultCategories,
	}
}

// Execute inserts every missing default.
func (uc *SeedDefaultCategoriesUseCase) Execute(ctx context.Context) (*SeedDefaultCategoriesOutput, error) {
	existing, err := uc.categoryRepo.ListDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list default categories: %w", err)
	}

	present := make(map[string]bool, len(existing))
	for _, c := range existing {
		present[strings.ToLower(c.Name)] = true
	}

	out := &SeedDefaultCategoriesOutput{}
	for _, d := range uc.defaults {
		if present[strings.ToLower(d.Name)] {
			out.Skipped = append(out.Skipped, d.Name)
			continue
		}
		category := entity.NewDefaultCategory(d.Name, d.Color, d.Icon, d.Type)
		if err := uc.categoryRepo.Create(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to create default category %q: %w", d.Name, err)
		}
		present[strings.ToLower(d.Name)] = true
		out.Created = append(out.Created, d.Name)
	}

	slog.Info("Default categories seeded", "created", len(out.Created), "skipped", len(out.Skipped))
	return out, nil
}
