package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/forecast/stub"
	"seller-intel-engine/internal/inventory"
	"seller-intel-engine/internal/storage/memory"
)

var reportTime = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func newTestGenerator(t *testing.T) (*Generator, *memory.ProductStore, *memory.SalesHistoryStore, *stub.Adapter) {
	t.Helper()
	products := memory.NewProductStore()
	sales := memory.NewSalesHistoryStore()
	adapter := stub.NewAdapter()
	guard := inventory.NewGuard(adapter, inventory.DefaultGuardConfig(), zerolog.Nop())
	gen := NewGenerator(products, sales, guard).WithClock(func() time.Time { return reportTime })
	return gen, products, sales, adapter
}

func TestGenerator_GenerateHydratesHistory(t *testing.T) {
	gen, products, sales, adapter := newTestGenerator(t)
	ctx := context.Background()

	if err := products.Upsert(ctx, &domain.Product{ID: "p-1", Price: 100, Cost: 40, LeadTimeDays: 10, SafetyDays: 4}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	history := []domain.SalesRecord{
		{Date: "2026-08-01", Qty: 10},
		{Date: "2026-08-11", Qty: 12},
	}
	if err := sales.Append(ctx, "p-1", history); err != nil {
		t.Fatalf("Append: %v", err)
	}
	adapter.Predictions["p-1"] = &domain.StockPrediction{DaysToDepletion: intPtr(5), Risk: domain.RiskHigh}

	report, err := gen.Generate(ctx)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if report.ProductCount != 1 {
		t.Fatalf("expected 1 product, got %d", report.ProductCount)
	}
	rec := report.Recommendations[0]
	// 22 units over 10 days, restock horizon 14 days.
	if rec.VelocityPerDay != 2.2 {
		t.Errorf("expected velocity 2.2, got %v", rec.VelocityPerDay)
	}
	if rec.RecommendedQty != 31 {
		t.Errorf("expected qty 31, got %d", rec.RecommendedQty)
	}
	if report.HighRiskCount != 1 {
		t.Errorf("expected 1 high risk, got %d", report.HighRiskCount)
	}
	if !report.GeneratedAt.Equal(reportTime) {
		t.Errorf("expected injected clock time, got %v", report.GeneratedAt)
	}
}

func TestGenerator_CountsFailuresAndDegraded(t *testing.T) {
	gen, _, _, adapter := newTestGenerator(t)
	adapter.Errors["p-fail"] = stub.ErrUnavailable
	adapter.Predictions["p-deg"] = &domain.StockPrediction{Risk: domain.RiskMedium, Degraded: true}

	report := gen.GenerateFor(context.Background(), []*domain.Product{
		{ID: "p-fail"},
		{ID: "p-deg"},
	})

	if report.ForecastFailures != 1 {
		t.Errorf("expected 1 failure, got %d", report.ForecastFailures)
	}
	if report.DegradedCount != 1 {
		t.Errorf("expected 1 degraded, got %d", report.DegradedCount)
	}
}

func TestRenderCSV(t *testing.T) {
	report := BuildReport([]domain.RestockRecommendation{
		{
			ProductID:      "p-1",
			Predicted:      &domain.StockPrediction{DaysToDepletion: intPtr(5), Risk: domain.RiskHigh},
			VelocityPerDay: 2.2,
			RecommendedQty: 31,
			CurrentMargin:  domain.MarginResult{MarginAmount: 35, MarginPct: 0.35},
		},
		{ProductID: "p-2"}, // failed forecast
	}, reportTime)

	out := RenderCSV(report)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[1] != "p-1,5,high,false,2.2000,31,35.00,0.3500" {
		t.Errorf("unexpected row: %s", lines[1])
	}
	if !strings.HasPrefix(lines[2], "p-2,,,false,") {
		t.Errorf("failed forecast row should have empty prediction columns: %s", lines[2])
	}
}

func TestRenderMarkdown(t *testing.T) {
	report := BuildReport([]domain.RestockRecommendation{
		{
			ProductID:      "p-1",
			Predicted:      &domain.StockPrediction{Risk: domain.RiskMedium, Degraded: true},
			VelocityPerDay: 1.5,
			RecommendedQty: 30,
		},
	}, reportTime)

	out := RenderMarkdown(report)
	if !strings.Contains(out, "# Restock Report") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "medium (degraded)") {
		t.Error("degraded forecast not flagged")
	}
	if !strings.Contains(out, "2026-08-31T12:00:00Z") {
		t.Error("missing generation timestamp")
	}
}

func TestWriteFiles(t *testing.T) {
	report := BuildReport(nil, reportTime)
	dir := filepath.Join(t.TempDir(), "reports")

	if err := WriteFiles(report, dir); err != nil {
		t.Fatalf("WriteFiles: %v", err)
	}
	for _, name := range []string{"restock.csv", "restock.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
