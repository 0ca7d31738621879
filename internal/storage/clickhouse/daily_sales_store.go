package clickhouse

import (
	"context"
	"fmt"
	"time"

	"seller-intel-engine/internal/domain"
)

// DailySalesStore keeps per-day sales facts in ClickHouse for analytics over
// long horizons. It backs velocity queries when histories outgrow what is
// practical to ship around as request payloads; unlike the Postgres sales
// store it only accepts records whose dates already parse.
type DailySalesStore struct {
	conn *Conn
}

// NewDailySalesStore creates a new DailySalesStore.
func NewDailySalesStore(conn *Conn) *DailySalesStore {
	return &DailySalesStore{conn: conn}
}

// InsertBulk appends sales facts for a product. Records with unparseable
// dates or negative quantities are rejected before anything is written; qty
// is stored as UInt32 and a negative value would wrap.
func (s *DailySalesStore) InsertBulk(ctx context.Context, productID string, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	dates := make([]time.Time, len(records))
	for i, r := range records {
		d, err := r.ParsedDate()
		if err != nil {
			return fmt.Errorf("daily sales insert: %w", err)
		}
		if r.Qty < 0 {
			return fmt.Errorf("daily sales insert: negative qty %d for %s", r.Qty, productID)
		}
		dates[i] = d
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO daily_sales (product_id, sale_date, qty)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, r := range records {
		if err := batch.Append(productID, dates[i], uint32(r.Qty)); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// VelocityBetween computes average units sold per day for a product over
// [from, to], span floored to one day.
func (s *DailySalesStore) VelocityBetween(ctx context.Context, productID string, from, to time.Time) (float64, error) {
	query := `
		SELECT toFloat64(sum(qty))
		FROM daily_sales
		WHERE product_id = ? AND sale_date >= ? AND sale_date <= ?`

	var total float64
	if err := s.conn.QueryRow(ctx, query, productID, from, to).Scan(&total); err != nil {
		return 0, fmt.Errorf("velocity query: %w", err)
	}

	days := int(to.Sub(from).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return total / float64(days), nil
}

// TotalQtyByProduct sums units sold per product over [from, to].
func (s *DailySalesStore) TotalQtyByProduct(ctx context.Context, from, to time.Time) (map[string]int, error) {
	query := `
		SELECT product_id, sum(qty)
		FROM daily_sales
		WHERE sale_date >= ? AND sale_date <= ?
		GROUP BY product_id`

	rows, err := s.conn.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("total qty query: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var productID string
		var qty uint64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan total qty: %w", err)
		}
		result[productID] = int(qty)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate total qty: %w", err)
	}
	return result, nil
}
