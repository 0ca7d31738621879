// Package orders processes incoming orders into dashboard summaries.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/finance"
	"seller-intel-engine/internal/idhash"
	"seller-intel-engine/internal/storage"
)

// Risk thresholds on per-unit margin percentage.
const (
	riskHighBelowPct   = 0.0
	riskMediumBelowPct = 0.10
)

// Manager turns orders into stored summaries. The summary store is injected
// and owns the lifecycle of the data: the in-memory variant clears on
// restart, the Postgres variant persists.
type Manager struct {
	summaries storage.OrderSummaryStore
	products  storage.ProductStore
	clock     func() time.Time
	logger    zerolog.Logger
}

// NewManager creates an order manager.
func NewManager(summaries storage.OrderSummaryStore, products storage.ProductStore, logger zerolog.Logger) *Manager {
	return &Manager{
		summaries: summaries,
		products:  products,
		clock:     func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// WithClock sets a custom clock for deterministic summaries.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	m.clock = clock
	return m
}

// ProcessOrder computes the margin intelligence for an order and stores its
// summary. Orders without an ID get one assigned. An unknown product degrades
// to a summary without margin data rather than dropping the order.
func (m *Manager) ProcessOrder(ctx context.Context, order *domain.Order) (*domain.OrderSummary, error) {
	if order == nil {
		return nil, storage.ErrInvalidInput
	}
	if order.OrderID == "" {
		order.OrderID = uuid.NewString()
	}

	m.logger.Info().Str("order_id", order.OrderID).Str("product_id", order.ProductID).Msg("processing order")

	summary := &domain.OrderSummary{
		OrderID:     order.OrderID,
		Ref:         idhash.SummaryRef(order.OrderID, order.ProductID),
		ProductID:   order.ProductID,
		TotalPrice:  order.TotalPrice,
		ProcessedAt: m.clock(),
	}

	product, err := m.products.GetByID(ctx, order.ProductID)
	if err != nil {
		m.logger.Warn().Err(err).Str("order_id", order.OrderID).
			Msg("product unknown, storing summary without margin intelligence")
	} else {
		unitPrice := order.TotalPrice
		if order.Qty > 1 {
			unitPrice = order.TotalPrice / float64(order.Qty)
		}
		summary.Margin = finance.CalculateForProduct(unitPrice, product)
		summary.Risk = riskFromMargin(summary.Margin)
	}

	if err := m.summaries.Put(ctx, summary); err != nil {
		return nil, fmt.Errorf("store order summary: %w", err)
	}
	return summary, nil
}

// Dashboard lists all stored summaries, newest first.
func (m *Manager) Dashboard(ctx context.Context) ([]*domain.OrderSummary, error) {
	return m.summaries.List(ctx)
}

// riskFromMargin grades an order by its per-unit margin.
func riskFromMargin(margin domain.MarginResult) domain.Risk {
	switch {
	case margin.MarginPct < riskHighBelowPct:
		return domain.RiskHigh
	case margin.MarginPct < riskMediumBelowPct:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
