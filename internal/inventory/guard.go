// Package inventory turns stock forecasts into concrete pricing and
// restocking actions.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/forecast"
	"seller-intel-engine/internal/repricing"
)

// GuardConfig holds the decision thresholds of the guard. Zero values are
// replaced by the defaults below.
type GuardConfig struct {
	DeadStockDays        int     // no-sales window that marks stock as dead
	RaiseFactor          float64 // price bump proposed on predicted depletion
	RaiseMarginFloor     float64 // margin floor applied to the bumped price
	ClearanceFactor      float64 // markdown proposed on dead stock
	ClearanceMarginFloor float64 // margin floor applied to the markdown
	SafetyDays           int     // buffer added to lead time for restock sizing
	MaxConcurrency       int     // restock batch fan-out, 1 = sequential
}

// DefaultGuardConfig returns the standard thresholds.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		DeadStockDays:        30,
		RaiseFactor:          1.10,
		RaiseMarginFloor:     0.10,
		ClearanceFactor:      0.70,
		ClearanceMarginFloor: 0.05,
		SafetyDays:           7,
		MaxConcurrency:       4,
	}
}

// withDefaults fills unset fields from DefaultGuardConfig.
func (c GuardConfig) withDefaults() GuardConfig {
	def := DefaultGuardConfig()
	if c.DeadStockDays <= 0 {
		c.DeadStockDays = def.DeadStockDays
	}
	if c.RaiseFactor <= 0 {
		c.RaiseFactor = def.RaiseFactor
	}
	if c.RaiseMarginFloor <= 0 {
		c.RaiseMarginFloor = def.RaiseMarginFloor
	}
	if c.ClearanceFactor <= 0 {
		c.ClearanceFactor = def.ClearanceFactor
	}
	if c.ClearanceMarginFloor <= 0 {
		c.ClearanceMarginFloor = def.ClearanceMarginFloor
	}
	if c.SafetyDays <= 0 {
		c.SafetyDays = def.SafetyDays
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = def.MaxConcurrency
	}
	return c
}

// Guard evaluates stock health and assembles inventory actions. The forecast
// adapter is injected; the guard has no notion of how predictions are made.
type Guard struct {
	adapter forecast.Adapter
	cfg     GuardConfig
	clock   func() time.Time
	logger  zerolog.Logger
}

// NewGuard creates a guard around a forecast adapter.
func NewGuard(adapter forecast.Adapter, cfg GuardConfig, logger zerolog.Logger) *Guard {
	return &Guard{
		adapter: adapter,
		cfg:     cfg.withDefaults(),
		clock:   func() time.Time { return time.Now().UTC() },
		logger:  logger,
	}
}

// WithClock sets a custom clock for deterministic dead-stock evaluation.
func (g *Guard) WithClock(clock func() time.Time) *Guard {
	g.clock = clock
	return g
}

// PredictStockHealth forecasts depletion for one product and derives actions.
//
// A forecaster failure yields OK=false with the error surfaced; there is no
// silent fallback at this layer (degraded mode, when wanted, is configured on
// the adapter itself). The depletion rule and the dead-stock rule are
// evaluated independently and are cumulative: both can fire in one call.
// Malformed sales dates abort only the dead-stock evaluation, never the
// whole response.
func (g *Guard) PredictStockHealth(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, product *domain.Product) *domain.StockHealthResult {
	pred, err := g.adapter.Predict(ctx, productID, history, leadTimeDays, map[string]any{"product": product})
	if err != nil {
		g.logger.Error().Err(err).Str("product_id", productID).Msg("stock forecast failed")
		return &domain.StockHealthResult{OK: false, Error: err.Error()}
	}

	result := &domain.StockHealthResult{OK: true, Prediction: pred}

	if action := g.depletionAction(pred, leadTimeDays, product); action != nil {
		result.Action = action
	}

	result.Actions = g.deadStockActions(productID, history, product)

	return result
}

// depletionAction fires when predicted depletion lands inside the supplier
// lead time: the raise proposal goes through the repricer so the bump never
// lands below the margin floor.
func (g *Guard) depletionAction(pred *domain.StockPrediction, leadTimeDays int, product *domain.Product) *domain.InventoryAction {
	if pred == nil || pred.DaysToDepletion == nil || *pred.DaysToDepletion > leadTimeDays {
		return nil
	}

	g.logger.Info().
		Int("days_to_depletion", *pred.DaysToDepletion).
		Int("lead_time_days", leadTimeDays).
		Msg("predicted depletion within lead time, requesting price raise")

	currentPrice := 0.0
	if product != nil {
		currentPrice = product.Price
	}
	proposed := repricing.ComputeNewPrice(currentPrice, g.cfg.RaiseFactor)
	enforcement := repricing.EnforceMarginOrAdjust(proposed, productOrEmpty(product), repricing.Config{
		MinAllowedMarginPct: g.cfg.RaiseMarginFloor,
	})

	return &domain.InventoryAction{
		Type:          domain.ActionRaisePrice,
		ProposedPrice: &enforcement.SafePrice,
		MarginOK:      &enforcement.OK,
		Reason:        "predicted depletion",
	}
}

// deadStockActions fires when the product has not sold inside the dead-stock
// window: an enforced clearance markdown plus an seo_refresh companion.
// Date anomalies degrade to no action.
func (g *Guard) deadStockActions(productID string, history []domain.SalesRecord, product *domain.Product) []domain.InventoryAction {
	latest, err := domain.LatestSaleDate(history)
	if err != nil {
		if !errors.Is(err, domain.ErrEmptyHistory) {
			g.logger.Warn().Err(err).Str("product_id", productID).Msg("dead-stock evaluation skipped")
		}
		return nil
	}

	window := time.Duration(g.cfg.DeadStockDays) * 24 * time.Hour
	if g.clock().Sub(latest) < window {
		return nil
	}

	g.logger.Info().Str("product_id", productID).Msg("dead stock detected")

	currentPrice := 0.0
	if product != nil {
		currentPrice = product.Price
	}
	markdown := repricing.ComputeNewPrice(currentPrice, g.cfg.ClearanceFactor)
	enforcement := repricing.EnforceMarginOrAdjust(markdown, productOrEmpty(product), repricing.Config{
		MinAllowedMarginPct: g.cfg.ClearanceMarginFloor,
	})

	return []domain.InventoryAction{
		{
			Type:          domain.ActionAggressiveClearance,
			ProposedPrice: &enforcement.SafePrice,
			Reason:        "dead_stock",
		},
		{
			Type:   domain.ActionSEORefresh,
			Reason: "dead_stock",
		},
	}
}

// productOrEmpty guards the repricer against nil product metadata.
func productOrEmpty(p *domain.Product) *domain.Product {
	if p == nil {
		return &domain.Product{}
	}
	return p
}
