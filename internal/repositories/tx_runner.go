package repositories

import "context"

// TxRunner runs fn with repositories bound to a single unit of work. If fn
// returns an error every change made through those repositories is undone.
type TxRunner interface {
	Run(ctx context.Context, fn func(products ProductRepository, sales SaleRepository) error) error
}
