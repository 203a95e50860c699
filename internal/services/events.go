package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleCreatedRoutingKey is the routing key of the event published after a
// sale commits.
const SaleCreatedRoutingKey = "sale.created"

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// SaleCreatedEvent is the payload published for every committed sale.
type SaleCreatedEvent struct {
	SaleID string          `json:"saleId"`
	UserID string          `json:"userId"`
	Date   time.Time       `json:"date"`
	Total  decimal.Decimal `json:"total"`
	Lines  []SaleEventLine `json:"lines"`
}

type SaleEventLine struct {
	ProductID  string          `json:"productId"`
	AmountSold int             `json:"amountSold"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}
