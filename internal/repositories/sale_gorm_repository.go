package repositories

import (
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"

	"gorm.io/gorm"
)

// GORMSaleRepository is a GORM implementation of SaleRepository.
type GORMSaleRepository struct {
	db *gorm.DB
}

// NewGORMSaleRepository creates a new instance of GORMSaleRepository.
func NewGORMSaleRepository(db *gorm.DB) *GORMSaleRepository {
	return &GORMSaleRepository{db: db}
}

// Create inserts the sale header and its line items.
func (r *GORMSaleRepository) Create(sale *models.Sale) error {
	if sale.ID == "" {
		sale.ID = models.NewID()
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now().UTC()
	}
	if err := r.db.Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// GetByID loads a sale with its seller and line items.
func (r *GORMSaleRepository) GetByID(id string) (*models.Sale, error) {
	var sale models.Sale
	err := r.withAssociations(r.db).First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sale by ID %s: %w", id, err)
	}
	return &sale, nil
}

// Find lists sales matching filter, newest first.
func (r *GORMSaleRepository) Find(filter SaleFilter) ([]models.Sale, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	q := r.withAssociations(r.filtered(filter)).Order("date DESC, id DESC")
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var sales []models.Sale
	if err := q.Find(&sales).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, total, nil
}

func (r *GORMSaleRepository) filtered(filter SaleFilter) *gorm.DB {
	q := r.db.Model(&models.Sale{})
	if filter.From != nil {
		q = q.Where("date >= ?", *filter.From)
	}
	if filter.Before != nil {
		q = q.Where("date < ?", *filter.Before)
	}
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	return q
}

func (r *GORMSaleRepository) withAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("User").
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Details.Product")
}
