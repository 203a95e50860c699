package repositories

import (
	"context"

	"gorm.io/gorm"
)

// GORMTxRunner runs a unit of work inside a database transaction.
type GORMTxRunner struct {
	db *gorm.DB
}

// NewGORMTxRunner creates a new instance of GORMTxRunner.
func NewGORMTxRunner(db *gorm.DB) *GORMTxRunner {
	return &GORMTxRunner{db: db}
}

// Run commits when fn returns nil and rolls back otherwise.
func (r *GORMTxRunner) Run(ctx context.Context, fn func(products ProductRepository, sales SaleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGORMProductRepository(tx), NewGORMSaleRepository(tx))
	})
}
