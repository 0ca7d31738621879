package postgres

import (
	"context"
	"fmt"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/storage"
)

// SalesHistoryStore is a PostgreSQL implementation of storage.SalesHistoryStore.
//
// Dates are stored as the raw text they arrived with: upstream feeds produce
// occasionally malformed values, and the engine's anomaly handling needs them
// back verbatim rather than rejected at the insert.
type SalesHistoryStore struct {
	pool *Pool
}

// NewSalesHistoryStore creates a new PostgreSQL sales history store.
func NewSalesHistoryStore(pool *Pool) *SalesHistoryStore {
	return &SalesHistoryStore{pool: pool}
}

// Append adds sales records for a product.
func (s *SalesHistoryStore) Append(ctx context.Context, productID string, records []domain.SalesRecord) error {
	if productID == "" {
		return storage.ErrInvalidInput
	}
	if len(records) == 0 {
		return nil
	}

	batch := `INSERT INTO sales_records (product_id, sale_date, qty) VALUES ($1, $2, $3)`
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin append sales: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, batch, productID, r.Date, r.Qty); err != nil {
			return fmt.Errorf("insert sales record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit append sales: %w", err)
	}
	return nil
}

// GetByProductID retrieves all sales records for a product, ordered by date ASC.
func (s *SalesHistoryStore) GetByProductID(ctx context.Context, productID string) ([]domain.SalesRecord, error) {
	query := `SELECT sale_date, qty FROM sales_records WHERE product_id = $1 ORDER BY sale_date ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("get sales by product: %w", err)
	}
	defer rows.Close()

	var records []domain.SalesRecord
	for rows.Next() {
		var r domain.SalesRecord
		if err := rows.Scan(&r.Date, &r.Qty); err != nil {
			return nil, fmt.Errorf("scan sales record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales records: %w", err)
	}
	return records, nil
}
