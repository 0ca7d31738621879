package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
)

// failingAdapter always fails, standing in for an unreachable forecaster.
type failingAdapter struct{}

func (failingAdapter) Predict(context.Context, string, []domain.SalesRecord, int, map[string]any) (*domain.StockPrediction, error) {
	return nil, ErrPredictFailed
}

func TestFallbackAdapter_StrictPropagates(t *testing.T) {
	f := NewFallbackAdapter(failingAdapter{}, ModeStrict, zerolog.Nop())

	_, err := f.Predict(context.Background(), "sku-1", nil, 14, nil)
	if !errors.Is(err, ErrPredictFailed) {
		t.Fatalf("strict mode must propagate, got %v", err)
	}
}

func TestFallbackAdapter_DegradedEstimates(t *testing.T) {
	f := NewFallbackAdapter(failingAdapter{}, ModeDegraded, zerolog.Nop())

	product := &domain.Product{ID: "sku-1", StockQty: 20}
	history := []domain.SalesRecord{
		{Date: "2026-08-01", Qty: 5},
		{Date: "2026-08-11", Qty: 5},
	}
	// velocity = 10 / 10 days = 1/day, 20 in stock → 20 days to depletion

	pred, err := f.Predict(context.Background(), "sku-1", history, 14, map[string]any{"product": product})
	if err != nil {
		t.Fatalf("degraded mode must not fail: %v", err)
	}
	if !pred.Degraded {
		t.Error("fallback prediction must be flagged degraded")
	}
	if pred.DaysToDepletion == nil || *pred.DaysToDepletion != 20 {
		t.Errorf("DaysToDepletion = %v, want 20", pred.DaysToDepletion)
	}
	if pred.Risk != domain.RiskMedium {
		t.Errorf("Risk = %q, want medium (20 days vs lead time 14)", pred.Risk)
	}
}

func TestFallbackAdapter_DegradedNoSignalWithoutData(t *testing.T) {
	f := NewFallbackAdapter(failingAdapter{}, ModeDegraded, zerolog.Nop())

	pred, err := f.Predict(context.Background(), "sku-1", nil, 14, nil)
	if err != nil {
		t.Fatalf("degraded mode must not fail: %v", err)
	}
	if pred.DaysToDepletion != nil {
		t.Errorf("DaysToDepletion = %v, want nil without history or stock", pred.DaysToDepletion)
	}
	if !pred.Degraded {
		t.Error("fallback prediction must be flagged degraded")
	}
}
