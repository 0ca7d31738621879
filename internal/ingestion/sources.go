// Package ingestion consumes live sales and order events from external
// feeds and lands them in storage.
package ingestion

import (
	"context"

	"seller-intel-engine/internal/domain"
)

// EventKind distinguishes payload types on a feed.
type EventKind string

const (
	KindSale  EventKind = "sale"
	KindOrder EventKind = "order"
)

// SaleEvent is a single recorded sale for a product.
type SaleEvent struct {
	ProductID string `json:"product_id"`
	Date      string `json:"date"`
	Qty       int    `json:"qty"`
}

// Event is one message from a feed. Exactly one of Sale/Order is set,
// matching Kind.
type Event struct {
	Kind  EventKind     `json:"kind"`
	Sale  *SaleEvent    `json:"sale,omitempty"`
	Order *domain.Order `json:"order,omitempty"`
}

// Source provides a stream of events from an external feed.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Subscribe returns a channel of events. The channel is closed when
	// the context is cancelled or the source shuts down.
	Subscribe(ctx context.Context) (<-chan Event, error)
}
