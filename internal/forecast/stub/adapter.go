// Package stub provides a forecast.Adapter for testing.
package stub

import (
	"context"
	"errors"
	"sync"

	"seller-intel-engine/internal/domain"
)

// ErrUnavailable is the default failure returned for unknown products when
// FailUnknown is set.
var ErrUnavailable = errors.New("forecaster unavailable")

// Adapter implements forecast.Adapter from fixed responses.
type Adapter struct {
	Predictions map[string]*domain.StockPrediction
	Errors      map[string]error
	FailUnknown bool

	// Calls records the product IDs of every Predict invocation. Batch
	// evaluation is concurrent, so access is guarded.
	mu    sync.Mutex
	Calls []string
}

// NewAdapter creates an empty stub adapter.
func NewAdapter() *Adapter {
	return &Adapter{
		Predictions: make(map[string]*domain.StockPrediction),
		Errors:      make(map[string]error),
	}
}

// Predict returns the configured prediction or error for productID.
func (a *Adapter) Predict(_ context.Context, productID string, _ []domain.SalesRecord, _ int, _ map[string]any) (*domain.StockPrediction, error) {
	a.mu.Lock()
	a.Calls = append(a.Calls, productID)
	a.mu.Unlock()

	if err, ok := a.Errors[productID]; ok {
		return nil, err
	}
	if pred, ok := a.Predictions[productID]; ok {
		return pred, nil
	}
	if a.FailUnknown {
		return nil, ErrUnavailable
	}
	return &domain.StockPrediction{Risk: domain.RiskLow}, nil
}
