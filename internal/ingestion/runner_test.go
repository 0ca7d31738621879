package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/orders"
	"seller-intel-engine/internal/storage/memory"
)

// stubSource replays a fixed slice of events, then closes.
type stubSource struct {
	name   string
	events []Event
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Subscribe(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, len(s.events))
	go func() {
		defer close(ch)
		for _, e := range s.events {
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func newTestRunner(t *testing.T, sources ...Source) (*Runner, *memory.SalesHistoryStore, *memory.OrderSummaryStore, *memory.ProductStore) {
	t.Helper()
	sales := memory.NewSalesHistoryStore()
	summaries := memory.NewOrderSummaryStore()
	products := memory.NewProductStore()
	manager := orders.NewManager(summaries, products, zerolog.Nop())
	runner := NewRunner(sources, sales, manager, nil, zerolog.Nop())
	return runner, sales, summaries, products
}

func TestRunner_SaleEventsAppended(t *testing.T) {
	src := &stubSource{name: "stub", events: []Event{
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-29", Qty: 3}},
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-30", Qty: 2}},
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-2", Date: "2026-08-30", Qty: 1}},
	}}
	runner, sales, _, _ := newTestRunner(t, src)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := sales.GetByProductID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("GetByProductID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records for p-1, got %d", len(got))
	}
	if got[0].Date != "2026-08-29" || got[0].Qty != 3 {
		t.Errorf("unexpected first record: %+v", got[0])
	}
}

func TestRunner_OrderEventsProcessed(t *testing.T) {
	src := &stubSource{name: "stub", events: []Event{
		{Kind: KindOrder, Order: &domain.Order{OrderID: "o-1", ProductID: "p-1", Qty: 1, TotalPrice: 100}},
	}}
	runner, _, summaries, products := newTestRunner(t, src)

	product := &domain.Product{
		ID: "p-1", Price: 100, Cost: 40,
		PackagingCost: 5, ShippingCost: 5, MarketplaceFeePct: 0.15,
	}
	if err := products.Upsert(context.Background(), product); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	summary, err := summaries.GetByOrderID(context.Background(), "o-1")
	if err != nil {
		t.Fatalf("GetByOrderID: %v", err)
	}
	if summary.ProductID != "p-1" {
		t.Errorf("expected product p-1, got %s", summary.ProductID)
	}
	if summary.Margin.MarginPct != 0.35 {
		t.Errorf("expected margin 0.35, got %v", summary.Margin.MarginPct)
	}
}

func TestRunner_MalformedEventsSkipped(t *testing.T) {
	src := &stubSource{name: "stub", events: []Event{
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "", Date: "2026-08-30", Qty: 1}},
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-30", Qty: -3}},
		{Kind: "mystery"},
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-30", Qty: 1}},
	}}
	runner, sales, _, _ := newTestRunner(t, src)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := sales.GetByProductID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("GetByProductID: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
}

func TestRunner_MergesMultipleSources(t *testing.T) {
	a := &stubSource{name: "a", events: []Event{
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-29", Qty: 1}},
	}}
	b := &stubSource{name: "b", events: []Event{
		{Kind: KindSale, Sale: &SaleEvent{ProductID: "p-1", Date: "2026-08-30", Qty: 2}},
	}}
	runner, sales, _, _ := newTestRunner(t, a, b)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, err := sales.GetByProductID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("GetByProductID: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}
