package mock

import (
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *Db
)

// Db is a shared in-memory sqlite database migrated with the application models.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	order  []string
}

// NewDb opens the shared database once. Tables are migrated in the given
// order and cleared in reverse order.
func NewDb(order []string, models map[string]any) *Db {
	dbOnce.Do(func() {
		db = open(order, models)
	})
	return db
}

func open(order []string, models map[string]any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	// A single connection keeps every session on the same in-memory database.
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	d := &Db{DbConn: dbConn, models: models, order: order}

	list := make([]any, 0, len(order))
	for _, table := range order {
		model, ok := models[table]
		if !ok {
			panic(fmt.Sprintf("no model registered for table %q", table))
		}
		list = append(list, model)
	}
	if err := dbConn.AutoMigrate(list...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return d
}

// ClearDB deletes every row, children first.
func (d *Db) ClearDB() error {
	tables := slices.Clone(d.order)
	slices.Reverse(tables)
	for _, table := range tables {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(d.models[table]).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// GetModel returns the model registered for table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
