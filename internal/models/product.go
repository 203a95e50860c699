package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(24)"`
	CategoryID string          `json:"categoryId" gorm:"type:varchar(24);index;not null"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Stock      int             `json:"stock" gorm:"not null;default:0"` // never negative
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
