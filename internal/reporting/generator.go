package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/inventory"
	"seller-intel-engine/internal/storage"
)

// Generator produces restock reports from stored products.
type Generator struct {
	products storage.ProductStore
	sales    storage.SalesHistoryStore
	guard    *inventory.Guard
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new restock report generator.
func NewGenerator(products storage.ProductStore, sales storage.SalesHistoryStore, guard *inventory.Guard) *Generator {
	return &Generator{
		products: products,
		sales:    sales,
		guard:    guard,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads every stored product, hydrates its sales history and runs
// the restock batch over the full catalog.
func (g *Generator) Generate(ctx context.Context) (*RestockReport, error) {
	products, err := g.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	for _, p := range products {
		if len(p.SalesHistory) > 0 {
			continue
		}
		history, err := g.sales.GetByProductID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("load sales history for %s: %w", p.ID, err)
		}
		p.SalesHistory = history
	}

	recs := g.guard.GenerateRestockList(ctx, products)
	return BuildReport(recs, g.now()), nil
}

// GenerateFor runs the restock batch over an explicit product set.
func (g *Generator) GenerateFor(ctx context.Context, products []*domain.Product) *RestockReport {
	recs := g.guard.GenerateRestockList(ctx, products)
	return BuildReport(recs, g.now())
}

// WriteFiles writes restock.csv and restock.md into outputDir, creating the
// directory if needed.
func WriteFiles(r *RestockReport, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "restock.csv"), []byte(RenderCSV(r)), 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "restock.md"), []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}
