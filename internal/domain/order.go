package domain

import "time"

// Order is an incoming marketplace order to be processed.
type Order struct {
	OrderID    string  `json:"order_id"`
	ProductID  string  `json:"product_id"`
	Qty        int     `json:"qty"`
	TotalPrice float64 `json:"total_price"`
}

// OrderSummary is the dashboard-facing digest of a processed order.
// Corresponds to the order_summaries table in PostgreSQL; the in-memory store
// holds it for the current process lifetime only.
type OrderSummary struct {
	OrderID     string       `json:"order_id"`
	Ref         string       `json:"ref"` // short human-facing reference code
	ProductID   string       `json:"product_id"`
	TotalPrice  float64      `json:"total_price"`
	Margin      MarginResult `json:"margin"`
	Risk        Risk         `json:"risk"`
	ProcessedAt time.Time    `json:"processed_at"`
}
