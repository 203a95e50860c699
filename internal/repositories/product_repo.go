package repositories

import (
	"backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	FindByName(name string) ([]models.Product, error)
	FindByCategory(categoryID string) ([]models.Product, error)
	FindByPriceRange(min, max decimal.Decimal) ([]models.Product, error)
	// DecrementStock subtracts amount from the product stock only if the
	// current stock covers it, as one conditional update. It reports whether
	// the update was applied.
	DecrementStock(id string, amount int) (bool, error)
}
