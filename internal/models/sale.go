package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleDetail is one line of a sale. Name and Subtotal are captured when the
// sale is made and do not follow later product edits.
type SaleDetail struct {
	ID         uint            `json:"-" gorm:"primaryKey;autoIncrement"`
	SaleID     string          `json:"-" gorm:"type:varchar(24);index;not null"`
	ProductID  string          `json:"productId" gorm:"type:varchar(24);index;not null"`
	Product    *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	AmountSold int             `json:"amountSold" gorm:"not null"`
	Subtotal   decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

// Sale is a recorded sale. It is written once and never updated.
type Sale struct {
	ID      string          `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Date    time.Time       `json:"date" gorm:"index;not null"`
	UserID  string          `json:"userId" gorm:"type:varchar(24);index;not null"`
	User    *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Details []SaleDetail    `json:"details" gorm:"foreignKey:SaleID"`
	Total   decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
}
