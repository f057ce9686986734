package receipt

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
)

// DefaultFallbackCategory is suggested when no keyword matches.
const DefaultFallbackCategory = "Other Expense"

// KeywordPattern maps a category name to the merchant keywords that select it.
type KeywordPattern struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// PatternTable is an ordered keyword table. The first pattern with a matching
// keyword wins, so order is the only tie-break.
type PatternTable struct {
	Fallback string           `yaml:"fallback"`
	Patterns []KeywordPattern `yaml:"patterns"`
}

// DefaultPatternTable returns the built-in keyword table.
func DefaultPatternTable() *PatternTable {
	return &PatternTable{
		Fallback: DefaultFallbackCategory,
		Patterns: []KeywordPattern{
			{Category: "Food & Dining", Keywords: []string{"restaurant", "cafe", "starbucks", "mcdonald", "subway", "domino", "pizza", "burger", "kfc"}},
			{Category: "Groceries", Keywords: []string{"walmart", "kroger", "safeway", "grocery", "whole foods", "market"}},
			{Category: "Transportation", Keywords: []string{"shell", "chevron", "exxon", "uber", "lyft", "gas station"}},
			{Category: "Healthcare", Keywords: []string{"pharmacy", "cvs", "walgreens", "hospital", "clinic", "medical", "dental"}},
			{Category: "Shopping", Keywords: []string{"amazon", "ebay", "mall", "target"}},
			{Category: "Entertainment", Keywords: []string{"cinema", "movie", "netflix", "spotify"}},
			{Category: "Utilities", Keywords: []string{"electric", "water", "internet"}},
		},
	}
}

// ParsePatternTable decodes a YAML keyword table.
func ParsePatternTable(data []byte) (*PatternTable, error) {
	var table PatternTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse pattern table: %w", err)
	}
	if len(table.Patterns) == 0 {
		return nil, fmt.Errorf("pattern table has no patterns")
	}
	if strings.TrimSpace(table.Fallback) == "" {
		table.Fallback = DefaultFallbackCategory
	}
	for i := range table.Patterns {
		p := &table.Patterns[i]
		if strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("pattern %d has no category", i)
		}
		keywords := make([]string, 0, len(p.Keywords))
		for _, k := range p.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		p.Keywords = keywords
	}
	return &table, nil
}

// LoadPatternTable reads a keyword table from a YAML file.
// An empty path yields the built-in table.
func LoadPatternTable(path string) (*PatternTable, error) {
	if path == "" {
		return DefaultPatternTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern table: %w", err)
	}
	return ParsePatternTable(data)
}

// Match returns the category name for a merchant, or the fallback.
func (t *PatternTable) Match(merchant string) string {
	name := strings.ToLower(strings.TrimSpace(merchant))
	if name == "" {
		return t.Fallback
	}
	for _, p := range t.Patterns {
		for _, keyword := range p.Keywords {
			if strings.Contains(name, keyword) {
				return p.Category
			}
		}
	}
	return t.Fallback
}

// CategorySuggester resolves a merchant to a category visible to the user.
type CategorySuggester struct {
	categoryRepo adapter.CategoryRepository
	table        *PatternTable
}

// NewCategorySuggester creates a suggester over the given table.
// A nil table uses the built-in one.
func NewCategorySuggester(categoryRepo adapter.CategoryRepository, table *PatternTable) *CategorySuggester {
	if table == nil {
		table = DefaultPatternTable()
	}
	return &CategorySuggester{
		categoryRepo: categoryRepo,
		table:        table,
	}
}

// Suggest returns the suggested category, or nil when the matched name has no
// active category owned by the user or among the defaults.
func (s *CategorySuggester) Suggest(ctx context.Context, userID uuid.UUID, merchant *string) (*entity.Category, error) {
	var name string
	if merchant != nil {
		name = s.table.Match(*merchant)
	} else {
		name = s.table.Fallback
	}

	own, err := s.categoryRepo.FindByNameAndOwner(ctx, name, &userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if own != nil && own.IsActive {
		return own, nil
	}

	def, err := s.categoryRepo.FindByNameAndOwner(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}
	if def != nil && def.IsActive {
		return def, nil
	}
	return nil, nil
}
