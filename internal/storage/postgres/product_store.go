package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/storage"
)

// ProductStore is a PostgreSQL implementation of storage.ProductStore.
type ProductStore struct {
	pool *Pool
}

// NewProductStore creates a new PostgreSQL product store.
func NewProductStore(pool *Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, sku, title, price, cost, packaging_cost, shipping_cost, ads_cost,
	marketplace_fee_pct, stock_qty, lead_time_days, safety_days`

// Upsert inserts or replaces a product by ID.
func (s *ProductStore) Upsert(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku,
			title = EXCLUDED.title,
			price = EXCLUDED.price,
			cost = EXCLUDED.cost,
			packaging_cost = EXCLUDED.packaging_cost,
			shipping_cost = EXCLUDED.shipping_cost,
			ads_cost = EXCLUDED.ads_cost,
			marketplace_fee_pct = EXCLUDED.marketplace_fee_pct,
			stock_qty = EXCLUDED.stock_qty,
			lead_time_days = EXCLUDED.lead_time_days,
			safety_days = EXCLUDED.safety_days`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.SKU, p.Title, p.Price, p.Cost, p.PackagingCost, p.ShippingCost,
		p.AdsCost, p.MarketplaceFeePct, p.StockQty, p.LeadTimeDays, p.SafetyDays)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product. Returns ErrNotFound if not exists.
func (s *ProductStore) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, productID)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// List retrieves all products ordered by ID.
func (s *ProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

// scanProduct scans one product row.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Title, &p.Price, &p.Cost, &p.PackagingCost,
		&p.ShippingCost, &p.AdsCost, &p.MarketplaceFeePct, &p.StockQty,
		&p.LeadTimeDays, &p.SafetyDays)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
