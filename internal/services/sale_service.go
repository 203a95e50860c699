package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"backoffice/internal/models"
	"backoffice/internal/report"
	"backoffice/internal/repositories"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultSalesPageSize is used when a paginated listing gives no limit.
const DefaultSalesPageSize = 10

// SaleItemInput is one requested sale line.
type SaleItemInput struct {
	ProductID  string
	AmountSold int
}

// SaleFilter narrows ListSales. EndDate is inclusive of the whole day.
type SaleFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	UserID    string
	Page      int // 0 means unpaginated
	Limit     int
}

// SaleList is the result of ListSales. Page and TotalPages are zero when
// the listing was not paginated.
type SaleList struct {
	Sales      []models.Sale
	Total      int64
	Page       int
	TotalPages int
}

// SaleService handles the sale workflow and sale queries.
type SaleService struct {
	tx        repositories.TxRunner
	sales     repositories.SaleRepository
	publisher EventPublisher
	now       func() time.Time
}

// NewSaleService creates a new SaleService. publisher may be nil.
func NewSaleService(tx repositories.TxRunner, sales repositories.SaleRepository, publisher EventPublisher) *SaleService {
	return &SaleService{
		tx:        tx,
		sales:     sales,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateSale checks and reserves stock for every line, snapshots name and
// subtotal, and records the sale. It runs as one unit of work: if any line
// fails no stock is taken and no sale is stored.
func (s *SaleService) CreateSale(ctx context.Context, userID string, items []SaleItemInput) (*models.Sale, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing seller", ErrInvalidSale)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", ErrInvalidSale)
	}
	for i, item := range items {
		if item.AmountSold <= 0 {
			return nil, fmt.Errorf("%w: line %d amountSold must be positive", ErrInvalidSale, i)
		}
	}

	var sale *models.Sale
	err := s.tx.Run(ctx, func(products repositories.ProductRepository, sales repositories.SaleRepository) error {
		details := make([]models.SaleDetail, 0, len(items))
		total := decimal.Zero

		for _, item := range items {
			product, err := products.GetByID(item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return &ProductNotFoundError{ProductID: item.ProductID}
				}
				return fmt.Errorf("failed to load product %s: %w", item.ProductID, err)
			}
			if product.Stock < item.AmountSold {
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.AmountSold,
					Available:   product.Stock,
				}
			}

			ok, err := products.DecrementStock(product.ID, item.AmountSold)
			if err != nil {
				return err
			}
			if !ok {
				// Another sale took the units between the read and the update.
				available := 0
				if current, err := products.GetByID(product.ID); err == nil {
					available = current.Stock
				}
				return &InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.AmountSold,
					Available:   available,
				}
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.AmountSold)))
			total = total.Add(subtotal)
			details = append(details, models.SaleDetail{
				ProductID:  product.ID,
				Name:       product.Name,
				AmountSold: item.AmountSold,
				Subtotal:   subtotal,
			})
		}

		sale = &models.Sale{
			Date:    s.now(),
			UserID:  userID,
			Details: details,
			Total:   total,
		}
		if err := sales.Create(sale); err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Int("lines", len(items)).Msg("sale rejected")
		return nil, err
	}

	log.Info().
		Str("sale_id", sale.ID).
		Str("user_id", userID).
		Str("total", sale.Total.StringFixed(2)).
		Int("lines", len(sale.Details)).
		Msg("sale created")

	s.publishCreated(ctx, sale)
	return sale, nil
}

// publishCreated never fails the sale; the sale is already committed.
func (s *SaleService) publishCreated(ctx context.Context, sale *models.Sale) {
	if s.publisher == nil {
		return
	}
	event := SaleCreatedEvent{
		SaleID: sale.ID,
		UserID: sale.UserID,
		Date:   sale.Date,
		Total:  sale.Total,
		Lines:  make([]SaleEventLine, 0, len(sale.Details)),
	}
	for _, d := range sale.Details {
		event.Lines = append(event.Lines, SaleEventLine{
			ProductID:  d.ProductID,
			AmountSold: d.AmountSold,
			Subtotal:   d.Subtotal,
		})
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("sale_id", sale.ID).Msg("failed to marshal sale event")
		return
	}
	if err := s.publisher.Publish(ctx, SaleCreatedRoutingKey, body); err != nil {
		log.Warn().Err(err).Str("sale_id", sale.ID).Msg("failed to publish sale event")
	}
}

// ListSales returns sales newest first.
func (s *SaleService) ListSales(filter SaleFilter) (*SaleList, error) {
	repoFilter := repositories.SaleFilter{
		From:   filter.StartDate,
		UserID: filter.UserID,
	}
	if filter.EndDate != nil {
		before := filter.EndDate.Add(24 * time.Hour)
		repoFilter.Before = &before
	}

	limit := filter.Limit
	if filter.Page > 0 {
		if limit <= 0 {
			limit = DefaultSalesPageSize
		}
		repoFilter.Offset = (filter.Page - 1) * limit
		repoFilter.Limit = limit
	}

	sales, total, err := s.sales.Find(repoFilter)
	if err != nil {
		return nil, err
	}

	list := &SaleList{Sales: sales, Total: total}
	if filter.Page > 0 {
		list.Page = filter.Page
		list.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return list, nil
}

// GetSale returns one sale with its seller and products.
func (s *SaleService) GetSale(id string) (*models.Sale, error) {
	sale, err := s.sales.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

// SalesReport renders every sale as a PDF document.
func (s *SaleService) SalesReport() ([]byte, error) {
	sales, _, err := s.sales.Find(repositories.SaleFilter{})
	if err != nil {
		return nil, err
	}
	return report.SalesPDF(sales, s.now())
}
