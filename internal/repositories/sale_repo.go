package repositories

import (
	"time"

	"backoffice/internal/models"
)

// SaleFilter narrows a sale listing. Zero values mean "no restriction".
type SaleFilter struct {
	From   *time.Time // inclusive
	Before *time.Time // exclusive
	UserID string
	Offset int
	Limit  int
}

// SaleRepository defines the interface for sale data access. Sales are
// append-only: there is no update or delete.
type SaleRepository interface {
	Create(sale *models.Sale) error
	GetByID(id string) (*models.Sale, error)
	// Find returns the matching sales, newest first, and the number of
	// matches ignoring Offset and Limit.
	Find(filter SaleFilter) ([]models.Sale, int64, error)
}
