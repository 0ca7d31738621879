// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Forecast boundary
	ForecastCalls       *prometheus.CounterVec // outcome: ok|error
	ForecastCallLatency prometheus.Histogram

	// Guard decisions
	ActionsEmitted       *prometheus.CounterVec // type: raise_price|aggressive_clearance|seo_refresh
	HealthEvaluations    *prometheus.CounterVec // outcome: ok|error
	RestockBatchSize     prometheus.Histogram
	RestockBatchDuration prometheus.Histogram

	// Orders
	OrdersProcessed  prometheus.Counter
	OrderProcessErrs prometheus.Counter

	// Ingestion
	SalesEventsConsumed *prometheus.CounterVec // source: kafka|websocket
	SalesEventErrors    *prometheus.CounterVec

	// HTTP
	HTTPRequestDuration *prometheus.HistogramVec // method, path, status
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ForecastCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_calls_total",
			Help: "Forecast adapter calls by outcome.",
		}, []string{"outcome"}),
		ForecastCallLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecast_call_duration_seconds",
			Help:    "Forecast adapter call latency.",
			Buckets: prometheus.DefBuckets,
		}),

		ActionsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_actions_emitted_total",
			Help: "Inventory actions emitted by type.",
		}, []string{"type"}),
		HealthEvaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stock_health_evaluations_total",
			Help: "Stock health evaluations by outcome.",
		}, []string{"outcome"}),
		RestockBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "restock_batch_size",
			Help:    "Products per restock batch.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		RestockBatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "restock_batch_duration_seconds",
			Help:    "Restock batch evaluation duration.",
			Buckets: prometheus.DefBuckets,
		}),

		OrdersProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "orders_processed_total",
			Help: "Orders processed into summaries.",
		}),
		OrderProcessErrs: factory.NewCounter(prometheus.CounterOpts{
			Name: "order_process_errors_total",
			Help: "Order processing failures.",
		}),

		SalesEventsConsumed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_events_consumed_total",
			Help: "Sales events consumed by source.",
		}, []string{"source"}),
		SalesEventErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sales_event_errors_total",
			Help: "Sales event handling failures by source.",
		}, []string{"source"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Handler returns an HTTP handler exposing the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
