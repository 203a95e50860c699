package models

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	// Prices and totals travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewID returns a fresh 24-character hex identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id is a 24-character hex identifier.
func IsValidID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}
