package models

import "time"

// Category groups products. Products reference it by id only; deleting a
// category leaves its products in place.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
