package forecast

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"seller-intel-engine/internal/domain"
)

// InstrumentedAdapter wraps an Adapter with call and latency metrics. It is
// meant to sit directly around the remote client, inside any cache layer, so
// cache hits do not count as external calls.
type InstrumentedAdapter struct {
	inner   Adapter
	calls   *prometheus.CounterVec // outcome: ok|error
	latency prometheus.Observer
}

// NewInstrumentedAdapter creates an instrumented wrapper around inner.
func NewInstrumentedAdapter(inner Adapter, calls *prometheus.CounterVec, latency prometheus.Observer) *InstrumentedAdapter {
	return &InstrumentedAdapter{inner: inner, calls: calls, latency: latency}
}

// Predict implements Adapter.
func (a *InstrumentedAdapter) Predict(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, extra map[string]any) (*domain.StockPrediction, error) {
	start := time.Now()
	pred, err := a.inner.Predict(ctx, productID, history, leadTimeDays, extra)
	a.latency.Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	a.calls.WithLabelValues(outcome).Inc()
	return pred, err
}
