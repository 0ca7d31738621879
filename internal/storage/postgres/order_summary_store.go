package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/storage"
)

// OrderSummaryStore is a PostgreSQL implementation of storage.OrderSummaryStore.
type OrderSummaryStore struct {
	pool *Pool
}

// NewOrderSummaryStore creates a new PostgreSQL order summary store.
func NewOrderSummaryStore(pool *Pool) *OrderSummaryStore {
	return &OrderSummaryStore{pool: pool}
}

const summaryColumns = `order_id, ref, product_id, total_price, margin_amount, margin_pct, risk, processed_at`

// Put inserts or replaces the summary for its order ID.
func (s *OrderSummaryStore) Put(ctx context.Context, summary *domain.OrderSummary) error {
	if summary == nil || summary.OrderID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO order_summaries (` + summaryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (order_id) DO UPDATE SET
			ref = EXCLUDED.ref,
			product_id = EXCLUDED.product_id,
			total_price = EXCLUDED.total_price,
			margin_amount = EXCLUDED.margin_amount,
			margin_pct = EXCLUDED.margin_pct,
			risk = EXCLUDED.risk,
			processed_at = EXCLUDED.processed_at`

	_, err := s.pool.Exec(ctx, query,
		summary.OrderID, summary.Ref, summary.ProductID, summary.TotalPrice,
		summary.Margin.MarginAmount, summary.Margin.MarginPct,
		string(summary.Risk), summary.ProcessedAt)
	if err != nil {
		return fmt.Errorf("put order summary: %w", err)
	}
	return nil
}

// GetByOrderID retrieves a summary. Returns ErrNotFound if not exists.
func (s *OrderSummaryStore) GetByOrderID(ctx context.Context, orderID string) (*domain.OrderSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM order_summaries WHERE order_id = $1`

	var summary domain.OrderSummary
	var risk string
	err := s.pool.QueryRow(ctx, query, orderID).Scan(
		&summary.OrderID, &summary.Ref, &summary.ProductID, &summary.TotalPrice,
		&summary.Margin.MarginAmount, &summary.Margin.MarginPct,
		&risk, &summary.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get order summary: %w", err)
	}
	summary.Risk = domain.Risk(risk)
	return &summary, nil
}

// List retrieves all summaries ordered by processing time DESC.
func (s *OrderSummaryStore) List(ctx context.Context) ([]*domain.OrderSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM order_summaries ORDER BY processed_at DESC, order_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list order summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.OrderSummary
	for rows.Next() {
		var summary domain.OrderSummary
		var risk string
		if err := rows.Scan(
			&summary.OrderID, &summary.Ref, &summary.ProductID, &summary.TotalPrice,
			&summary.Margin.MarginAmount, &summary.Margin.MarginPct,
			&risk, &summary.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan order summary: %w", err)
		}
		summary.Risk = domain.Risk(risk)
		summaries = append(summaries, &summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order summaries: %w", err)
	}
	return summaries, nil
}
