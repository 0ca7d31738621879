package storage

import (
	"context"
	"time"

	"seller-intel-engine/internal/domain"
)

// ProductStore provides access to product storage.
type ProductStore interface {
	// Upsert inserts or replaces a product by ID.
	Upsert(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// List retrieves all products ordered by ID.
	List(ctx context.Context) ([]*domain.Product, error)
}

// SalesHistoryStore provides access to per-product sales records.
type SalesHistoryStore interface {
	// Append adds sales records for a product.
	Append(ctx context.Context, productID string, records []domain.SalesRecord) error

	// GetByProductID retrieves all sales records for a product, ordered by date ASC.
	GetByProductID(ctx context.Context, productID string) ([]domain.SalesRecord, error)
}

// SalesAnalytics answers aggregate sales questions over a date range.
// Backed by the ClickHouse daily sales table when the analytics mirror is
// enabled.
type SalesAnalytics interface {
	// VelocityBetween computes average units sold per day for a product over
	// [from, to], span floored to one day.
	VelocityBetween(ctx context.Context, productID string, from, to time.Time) (float64, error)

	// TotalQtyByProduct sums units sold per product over [from, to].
	TotalQtyByProduct(ctx context.Context, from, to time.Time) (map[string]int, error)
}

// OrderSummaryStore provides access to processed order summaries.
// The in-memory implementation is cleared on restart; the Postgres
// implementation is the opt-in durable variant.
type OrderSummaryStore interface {
	// Put inserts or replaces the summary for its order ID.
	Put(ctx context.Context, s *domain.OrderSummary) error

	// GetByOrderID retrieves a summary. Returns ErrNotFound if not exists.
	GetByOrderID(ctx context.Context, orderID string) (*domain.OrderSummary, error)

	// List retrieves all summaries ordered by processing time DESC.
	List(ctx context.Context) ([]*domain.OrderSummary, error)
}
