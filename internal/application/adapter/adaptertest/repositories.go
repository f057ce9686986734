// Package adaptertest provides in-memory implementations of the application ports for tests.
package adaptertest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

// UserRepository is an in-memory adapter.UserRepository.
type UserRepository struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[uuid.UUID]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domainerror.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domainerror.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

// CategoryRepository is an in-memory adapter.CategoryRepository.
type CategoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category

	// IncrementErr, when set, is returned by IncrementUsageCount.
	IncrementErr error
	// FindByNameErr, when set, is returned by FindByNameAndOwner.
	FindByNameErr error
}

// NewCategoryRepository creates a CategoryRepository holding the given categories.
func NewCategoryRepository(categories ...*entity.Category) *CategoryRepository {
	r := &CategoryRepository{categories: make(map[uuid.UUID]*entity.Category)}
	for _, c := range categories {
		copied := *c
		r.categories[c.ID] = &copied
	}
	return r
}

func (r *CategoryRepository) Create(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	copied := *category
	return &copied, nil
}

func (r *CategoryRepository) FindByNameAndOwner(_ context.Context, name string, ownerID *uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindByNameErr != nil {
		return nil, r.FindByNameErr
	}
	for _, c := range r.sortedLocked() {
		if !strings.EqualFold(c.Name, name) {
			continue
		}
		if ownerID == nil && c.OwnerID == nil {
			copied := *c
			return &copied, nil
		}
		if ownerID != nil && c.IsOwnedBy(*ownerID) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepository) ListActive(_ context.Context, ownerID uuid.UUID, categoryType *entity.CategoryType) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Category
	for _, c := range r.sortedLocked() {
		if !c.IsActive || !c.IsVisibleTo(ownerID) {
			continue
		}
		if categoryType != nil && c.Type != *categoryType && c.Type != entity.CategoryTypeBoth {
			continue
		}
		copied := *c
		result = append(result, &copied)
	}
	return result, nil
}

func (r *CategoryRepository) ListDefaults(_ context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.Category
	for _, c := range r.sortedLocked() {
		if c.OwnerID == nil {
			copied := *c
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *CategoryRepository) CountChildren(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.categories {
		if c.ParentCategoryID != nil && *c.ParentCategoryID == id {
			count++
		}
	}
	return count, nil
}

func (r *CategoryRepository) Update(_ context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	copied := *category
	r.categories[category.ID] = &copied
	return nil
}

func (r *CategoryRepository) IncrementUsageCount(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.IncrementErr != nil {
		return r.IncrementErr
	}
	category, ok := r.categories[id]
	if !ok {
		return domainerror.ErrCategoryNotFound
	}
	category.UsageCount++
	return nil
}

func (r *CategoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

// All returns every stored category ordered by name.
func (r *CategoryRepository) All() []*entity.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sortedLocked()
}

func (r *CategoryRepository) sortedLocked() []*entity.Category {
	result := make([]*entity.Category, 0, len(r.categories))
	for _, c := range r.categories {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result
}

// TransactionRepository is an in-memory adapter.TransactionRepository.
// It resolves categories through the given CategoryRepository.
type TransactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
	categories   *CategoryRepository

	// FindCalls counts calls to Find.
	FindCalls int
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository(categories *CategoryRepository) *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[uuid.UUID]*entity.Transaction),
		categories:   categories,
	}
}

func (r *TransactionRepository) Create(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.transactions[id]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (r *TransactionRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	tx, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.withCategory(ctx, tx), nil
}

func (r *TransactionRepository) Find(ctx context.Context, query adapter.TransactionQuery) ([]*entity.TransactionWithCategory, error) {
	r.mu.Lock()
	r.FindCalls++
	matched := r.matchLocked(query.Filter)
	r.mu.Unlock()

	rows := make([]*entity.TransactionWithCategory, len(matched))
	for i, tx := range matched {
		rows[i] = r.withCategory(ctx, tx)
	}

	sortRows(rows, query.Sort)

	if query.Offset >= len(rows) {
		return []*entity.TransactionWithCategory{}, nil
	}
	rows = rows[query.Offset:]
	if query.Limit > 0 && query.Limit < len(rows) {
		rows = rows[:query.Limit]
	}
	return rows, nil
}

func (r *TransactionRepository) Count(_ context.Context, filter adapter.TransactionFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.matchLocked(filter))), nil
}

func (r *TransactionRepository) Update(_ context.Context, transaction *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[transaction.ID]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	copied := *transaction
	r.transactions[transaction.ID] = &copied
	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.transactions[id]; !ok {
		return domainerror.ErrTransactionNotFound
	}
	delete(r.transactions, id)
	return nil
}

func (r *TransactionRepository) BulkDelete(_ context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for _, id := range ids {
		if tx, ok := r.transactions[id]; ok && tx.UserID == userID {
			delete(r.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *TransactionRepository) ExistsAllByIDsAndUser(_ context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		tx, ok := r.transactions[id]
		if !ok || tx.UserID != userID {
			return false, nil
		}
	}
	return true, nil
}

func (r *TransactionRepository) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.transactions {
		if tx.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *TransactionRepository) CountByCategoryAndType(_ context.Context, categoryID uuid.UUID, transactionType entity.TransactionType) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, tx := range r.transactions {
		if tx.CategoryID == categoryID && tx.Type == transactionType {
			count++
		}
	}
	return count, nil
}

func (r *TransactionRepository) withCategory(ctx context.Context, tx *entity.Transaction) *entity.TransactionWithCategory {
	row := &entity.TransactionWithCategory{Transaction: tx}
	if r.categories != nil {
		if category, err := r.categories.FindByID(ctx, tx.CategoryID); err == nil {
			row.Category = category
		}
	}
	return row
}

func (r *TransactionRepository) matchLocked(filter adapter.TransactionFilter) []*entity.Transaction {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if matches(tx, filter) {
			copied := *tx
			result = append(result, &copied)
		}
	}
	return result
}

func matches(tx *entity.Transaction, f adapter.TransactionFilter) bool {
	if tx.UserID != f.UserID {
		return false
	}
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}
	if f.CategoryID != nil && tx.CategoryID != *f.CategoryID {
		return false
	}
	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.PaymentMethod != nil && tx.PaymentMethod != *f.PaymentMethod {
		return false
	}
	if len(f.Tags) > 0 && !intersects(tx.Tags, f.Tags) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		location := ""
		if tx.Location != nil {
			location = tx.Location.Name
		}
		if !strings.Contains(strings.ToLower(tx.Title), needle) &&
			!strings.Contains(strings.ToLower(tx.Description), needle) &&
			!strings.Contains(strings.ToLower(location), needle) {
			return false
		}
	}
	return true
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func sortRows(rows []*entity.TransactionWithCategory, s adapter.TransactionSort) {
	desc := s.Order == adapter.SortDesc
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Transaction, rows[j].Transaction
		var cmp int
		switch s.Field {
		case adapter.SortByAmount:
			cmp = a.Amount.Cmp(b.Amount)
		case adapter.SortByTitle:
			cmp = strings.Compare(a.Title, b.Title)
		case adapter.SortByCategory:
			cmp = strings.Compare(categoryName(rows[i]), categoryName(rows[j]))
		default:
			cmp = compareTime(a.Date, b.Date)
		}
		if desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
		if c := compareTime(a.CreatedAt, b.CreatedAt); c != 0 {
			return c > 0
		}
		return a.ID.String() < b.ID.String()
	})
}

func categoryName(row *entity.TransactionWithCategory) string {
	if row.Category == nil {
		return ""
	}
	return row.Category.Name
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
