package inventory

import (
	"context"
	"math"
	"sync"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/finance"
)

// defaultLeadTimeDays is assumed for products without a supplier lead time.
const defaultLeadTimeDays = 14

// GenerateRestockList produces one restock recommendation per input product.
//
// The batch is best-effort: a forecaster failure leaves that item's Predicted
// field nil, a date anomaly degrades that item's velocity to 0, and in both
// cases the item is still emitted; sibling items are never affected. Products
// share no state, so the batch fans out over a bounded worker pool with each
// result placed at its input index.
func (g *Guard) GenerateRestockList(ctx context.Context, products []*domain.Product) []domain.RestockRecommendation {
	results := make([]domain.RestockRecommendation, len(products))

	sem := make(chan struct{}, g.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i, p := range products {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p *domain.Product) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = g.restockRecommendation(ctx, p)
		}(i, p)
	}
	wg.Wait()

	return results
}

// restockRecommendation evaluates a single product.
func (g *Guard) restockRecommendation(ctx context.Context, p *domain.Product) domain.RestockRecommendation {
	leadTime := p.LeadTimeDays
	if leadTime <= 0 {
		leadTime = defaultLeadTimeDays
	}
	safetyDays := p.SafetyDays
	if safetyDays <= 0 {
		safetyDays = g.cfg.SafetyDays
	}

	pred, err := g.adapter.Predict(ctx, p.ID, p.SalesHistory, leadTime, map[string]any{"product": p})
	if err != nil {
		g.logger.Warn().Err(err).Str("product_id", p.ID).Msg("restock forecast failed, emitting item without prediction")
		pred = nil
	}

	velocity, err := domain.VelocityPerDay(p.SalesHistory)
	if err != nil {
		g.logger.Warn().Err(err).Str("product_id", p.ID).Msg("velocity unavailable, assuming 0")
		velocity = 0
	}

	recommendedQty := int(math.Round(velocity * float64(leadTime+safetyDays)))
	if recommendedQty < 0 {
		recommendedQty = 0
	}

	return domain.RestockRecommendation{
		ProductID:      p.ID,
		Predicted:      pred,
		VelocityPerDay: velocity,
		RecommendedQty: recommendedQty,
		CurrentMargin:  finance.CalculateForProduct(p.Price, p),
	}
}
