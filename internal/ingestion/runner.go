package ingestion

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/observability"
	"seller-intel-engine/internal/orders"
	"seller-intel-engine/internal/storage"
)

// Runner consumes events from one or more sources and routes them:
// sale events land in the sales history store, order events go through
// the order manager.
type Runner struct {
	sources []Source
	sales   storage.SalesHistoryStore
	orders  *orders.Manager
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(sources []Source, sales storage.SalesHistoryStore, manager *orders.Manager, metrics *observability.Metrics, logger zerolog.Logger) *Runner {
	return &Runner{
		sources: sources,
		sales:   sales,
		orders:  manager,
		metrics: metrics,
		logger:  logger.With().Str("component", "ingestion").Logger(),
	}
}

// Run subscribes to all sources and processes events until the context
// is cancelled or every source channel closes.
func (r *Runner) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, src := range r.sources {
		eventsCh, err := src.Subscribe(ctx)
		if err != nil {
			return err
		}
		r.logger.Info().Str("source", src.Name()).Msg("subscribed")

		wg.Add(1)
		go func(name string, ch <-chan Event) {
			defer wg.Done()
			for event := range ch {
				r.handleEvent(ctx, name, event)
			}
			r.logger.Info().Str("source", name).Msg("source closed")
		}(src.Name(), eventsCh)
	}
	wg.Wait()
	return ctx.Err()
}

func (r *Runner) handleEvent(ctx context.Context, source string, event Event) {
	switch event.Kind {
	case KindSale:
		r.handleSale(ctx, source, event.Sale)
	case KindOrder:
		r.handleOrder(ctx, source, event.Order)
	default:
		r.logger.Warn().Str("source", source).Str("kind", string(event.Kind)).Msg("unknown event kind")
	}
}

func (r *Runner) handleSale(ctx context.Context, source string, sale *SaleEvent) {
	if sale == nil || sale.ProductID == "" {
		r.countError(source)
		r.logger.Warn().Str("source", source).Msg("sale event missing product_id")
		return
	}
	if sale.Qty < 0 {
		r.countError(source)
		r.logger.Warn().Str("source", source).Str("product_id", sale.ProductID).Int("qty", sale.Qty).Msg("sale event with negative qty")
		return
	}

	record := domain.SalesRecord{Date: sale.Date, Qty: sale.Qty}
	if err := r.sales.Append(ctx, sale.ProductID, []domain.SalesRecord{record}); err != nil {
		r.countError(source)
		r.logger.Error().Err(err).Str("source", source).Str("product_id", sale.ProductID).Msg("append sale failed")
		return
	}
	r.countConsumed(source)
}

func (r *Runner) handleOrder(ctx context.Context, source string, order *domain.Order) {
	if order == nil || order.ProductID == "" {
		r.countError(source)
		r.logger.Warn().Str("source", source).Msg("order event missing product_id")
		return
	}

	summary, err := r.orders.ProcessOrder(ctx, order)
	if err != nil {
		r.countError(source)
		r.logger.Error().Err(err).Str("source", source).Str("order_id", order.OrderID).Msg("process order failed")
		return
	}
	r.countConsumed(source)
	r.logger.Debug().Str("source", source).Str("order_id", summary.OrderID).Str("ref", summary.Ref).Msg("order processed")
}

func (r *Runner) countConsumed(source string) {
	if r.metrics != nil {
		r.metrics.SalesEventsConsumed.WithLabelValues(source).Inc()
	}
}

func (r *Runner) countError(source string) {
	if r.metrics != nil {
		r.metrics.SalesEventErrors.WithLabelValues(source).Inc()
	}
}
