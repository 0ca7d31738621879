package forecast

import (
	"context"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
)

// Mode selects how the engine reacts to forecaster failures.
type Mode string

const (
	// ModeStrict propagates every forecaster failure to the caller.
	ModeStrict Mode = "strict"
	// ModeDegraded substitutes a local velocity-based estimate on failure.
	// Degraded predictions are flagged so consumers can tell them apart.
	ModeDegraded Mode = "degraded"
)

// FallbackAdapter wraps an Adapter and, in degraded mode, answers forecaster
// failures with a naive local estimate instead of an error.
type FallbackAdapter struct {
	inner  Adapter
	mode   Mode
	logger zerolog.Logger
}

// NewFallbackAdapter wraps inner with the given mode.
func NewFallbackAdapter(inner Adapter, mode Mode, logger zerolog.Logger) *FallbackAdapter {
	return &FallbackAdapter{inner: inner, mode: mode, logger: logger}
}

// Predict delegates to the inner adapter. In strict mode failures propagate
// unchanged; in degraded mode a local estimate is returned instead.
func (f *FallbackAdapter) Predict(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, extra map[string]any) (*domain.StockPrediction, error) {
	pred, err := f.inner.Predict(ctx, productID, history, leadTimeDays, extra)
	if err == nil {
		return pred, nil
	}
	if f.mode != ModeDegraded {
		return nil, err
	}

	f.logger.Warn().Err(err).Str("product_id", productID).
		Msg("forecaster unavailable, using degraded local estimate")
	return naivePrediction(history, leadTimeDays, extra), nil
}

// naivePrediction estimates depletion from sales velocity and the stock level
// carried in extra["product"], when present.
func naivePrediction(history []domain.SalesRecord, leadTimeDays int, extra map[string]any) *domain.StockPrediction {
	pred := &domain.StockPrediction{
		Risk:      domain.RiskLow,
		Rationale: "degraded: local velocity estimate, forecaster unavailable",
		Degraded:  true,
	}

	velocity, err := domain.VelocityPerDay(history)
	if err != nil || velocity <= 0 {
		return pred
	}

	product, ok := extra["product"].(*domain.Product)
	if !ok || product == nil || product.StockQty <= 0 {
		return pred
	}

	days := int(float64(product.StockQty) / velocity)
	pred.DaysToDepletion = &days

	switch {
	case days <= leadTimeDays:
		pred.Risk = domain.RiskHigh
	case days <= 2*leadTimeDays:
		pred.Risk = domain.RiskMedium
	}
	return pred
}
