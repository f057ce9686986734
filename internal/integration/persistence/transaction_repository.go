package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
	"github.com/finly/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction and its tags.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Omit("Category").Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Tags").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves a transaction with its category by ID.
func (r *transactionRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.TransactionWithCategory, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Where("id = ?", id).
		First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntityWithCategory(), nil
}

// Find retrieves the transactions matching the query. Rows that compare
// equal on the sort field are ordered by creation time, newest first, then by ID.
func (r *transactionRepository) Find(ctx context.Context, query adapter.TransactionQuery) ([]*entity.TransactionWithCategory, error) {
	q := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Scopes(filterScope(query.Filter), sortScope(query.Sort)).
		Preload("Category").
		Preload("Tags")

	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var transactionModels []model.TransactionModel
	if err := q.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.TransactionWithCategory, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = transactionModels[i].ToEntityWithCategory()
	}
	return transactions, nil
}

// Count returns how many transactions match the filter.
func (r *transactionRepository) Count(ctx context.Context, filter adapter.TransactionFilter) (int64, error) {
	var total int64
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Scopes(filterScope(filter)).
		Count(&total)
	if result.Error != nil {
		return 0, result.Error
	}
	return total, nil
}

// Update replaces a transaction and its tag set.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(transactionModel).Error; err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", transaction.ID).Delete(&model.TransactionTagModel{}).Error; err != nil {
			return err
		}
		if len(transactionModel.Tags) > 0 {
			if err := tx.Create(&transactionModel.Tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a transaction and its tags.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", id).Delete(&model.TransactionTagModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.TransactionModel{}, "id = ?", id).Error
	})
}

// BulkDelete removes multiple transactions owned by the user.
func (r *transactionRepository) BulkDelete(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (int64, error) {
	var deletedCount int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.TransactionModel{}).Select("id").Where("id IN ? AND user_id = ?", ids, userID)
		if err := tx.Where("transaction_id IN (?)", owned).Delete(&model.TransactionTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ? AND user_id = ?", ids, userID).Delete(&model.TransactionModel{})
		if result.Error != nil {
			return result.Error
		}
		deletedCount = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deletedCount, nil
}

// ExistsAllByIDsAndUser checks if all transactions exist for the given IDs and user.
func (r *transactionRepository) ExistsAllByIDsAndUser(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id IN ? AND user_id = ?", ids, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count == int64(len(ids)), nil
}

// CountByCategory counts transactions referencing the category.
func (r *transactionRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("category_id = ?", categoryID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// CountByCategoryAndType counts transactions of one type referencing the category.
func (r *transactionRepository) CountByCategoryAndType(ctx context.Context, categoryID uuid.UUID, transactionType entity.TransactionType) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("category_id = ? AND type = ?", categoryID, string(transactionType)).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// filterScope restricts a query to the filter. Columns are qualified so the
// scope composes with the category join used for sorting.
func filterScope(f adapter.TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("transactions.user_id = ?", f.UserID)

		if f.Type != nil {
			db = db.Where("transactions.type = ?", string(*f.Type))
		}
		if f.CategoryID != nil {
			db = db.Where("transactions.category_id = ?", *f.CategoryID)
		}
		if f.StartDate != nil {
			db = db.Where("transactions.date >= ?", f.StartDate.UTC())
		}
		if f.EndDate != nil {
			db = db.Where("transactions.date <= ?", f.EndDate.UTC())
		}
		if f.MinAmount != nil {
			db = db.Where("transactions.amount >= ?", *f.MinAmount)
		}
		if f.MaxAmount != nil {
			db = db.Where("transactions.amount <= ?", *f.MaxAmount)
		}
		if f.PaymentMethod != nil {
			db = db.Where("transactions.payment_method = ?", string(*f.PaymentMethod))
		}
		if len(f.Tags) > 0 {
			db = db.Where("transactions.id IN (SELECT transaction_id FROM transaction_tags WHERE tag IN ?)", f.Tags)
		}
		if f.Search != "" {
			pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
			db = db.Where(
				`(LOWER(transactions.title) LIKE ? ESCAPE '\' OR LOWER(transactions.description) LIKE ? ESCAPE '\' OR LOWER(transactions.location_name) LIKE ? ESCAPE '\')`,
				pattern, pattern, pattern,
			)
		}
		return db
	}
}

var sortColumns = map[adapter.TransactionSortField]clause.Column{
	adapter.SortByDate:     {Table: "transactions", Name: "date"},
	adapter.SortByAmount:   {Table: "transactions", Name: "amount"},
	adapter.SortByTitle:    {Table: "transactions", Name: "title"},
	adapter.SortByCategory: {Table: "categories", Name: "name"},
}

func sortScope(s adapter.TransactionSort) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := sortColumns[s.Field]
		if !ok {
			column = sortColumns[adapter.SortByDate]
		}
		if s.Field == adapter.SortByCategory {
			db = db.Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
		}
		return db.
			Order(clause.OrderByColumn{Column: column, Desc: s.Order == adapter.SortDesc}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "transactions", Name: "created_at"}, Desc: true}).
			Order(clause.OrderByColumn{Column: clause.Column{Table: "transactions", Name: "id"}})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
