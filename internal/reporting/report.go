// Package reporting renders restock batches as CSV and Markdown reports.
package reporting

import (
	"time"

	"seller-intel-engine/internal/domain"
)

// RestockReport is the rendered view of one restock batch run.
type RestockReport struct {
	GeneratedAt  time.Time
	ProductCount int

	// Recommendations in input order.
	Recommendations []domain.RestockRecommendation

	// Summary counters.
	ForecastFailures int // entries with no prediction
	DegradedCount    int // entries served by the local fallback
	HighRiskCount    int
	TotalRecommended int // sum of recommended quantities
}

// BuildReport assembles a RestockReport from a batch of recommendations.
func BuildReport(recs []domain.RestockRecommendation, generatedAt time.Time) *RestockReport {
	r := &RestockReport{
		GeneratedAt:     generatedAt,
		ProductCount:    len(recs),
		Recommendations: recs,
	}
	for _, rec := range recs {
		r.TotalRecommended += rec.RecommendedQty
		if rec.Predicted == nil {
			r.ForecastFailures++
			continue
		}
		if rec.Predicted.Degraded {
			r.DegradedCount++
		}
		if rec.Predicted.Risk == domain.RiskHigh {
			r.HighRiskCount++
		}
	}
	return r
}
