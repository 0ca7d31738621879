package finance

import (
	"math"
	"testing"

	"seller-intel-engine/internal/domain"
)

const epsilon = 1e-9

func TestCalculate_ReferenceExample(t *testing.T) {
	// price=100, cost=40, packaging=5, shipping=5, ads=0, fee_pct=0.15
	// margin_amount = 100 - 40 - 5 - 5 - 0 - 15 = 35, margin_pct = 0.35
	costs := domain.CostBreakdown{Cost: 40, Packaging: 5, Shipping: 5}
	fees := domain.FeeSchedule{FeePct: 0.15}

	result := Calculate(100, costs, fees)

	if math.Abs(result.MarginAmount-35) > epsilon {
		t.Errorf("MarginAmount = %v, want 35", result.MarginAmount)
	}
	if math.Abs(result.MarginPct-0.35) > epsilon {
		t.Errorf("MarginPct = %v, want 0.35", result.MarginPct)
	}
}

func TestCalculate_ZeroPrice(t *testing.T) {
	costs := domain.CostBreakdown{Cost: 10}
	result := Calculate(0, costs, domain.FeeSchedule{FeePct: 0.15})

	if result.MarginAmount != -10 {
		t.Errorf("MarginAmount = %v, want -10", result.MarginAmount)
	}
	if result.MarginPct != 0 {
		t.Errorf("MarginPct = %v, want 0 for zero price", result.MarginPct)
	}
}

func TestCalculate_NegativeMarginNotClamped(t *testing.T) {
	costs := domain.CostBreakdown{Cost: 90, Packaging: 10, Shipping: 10}
	result := Calculate(100, costs, domain.FeeSchedule{FeePct: 0.15})

	// 100 - 110 - 15 = -25
	if math.Abs(result.MarginAmount-(-25)) > epsilon {
		t.Errorf("MarginAmount = %v, want -25", result.MarginAmount)
	}
	if math.Abs(result.MarginPct-(-0.25)) > epsilon {
		t.Errorf("MarginPct = %v, want -0.25", result.MarginPct)
	}
}

func TestCalculate_Table(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		costs      domain.CostBreakdown
		feePct     float64
		wantAmount float64
	}{
		{"no costs no fees", 50, domain.CostBreakdown{}, 0, 50},
		{"fees only", 200, domain.CostBreakdown{}, 0.10, 180},
		{"all cost fields", 80, domain.CostBreakdown{Cost: 20, Packaging: 2, Shipping: 3, Ads: 5}, 0.05, 46},
		{"full fee consumes price", 100, domain.CostBreakdown{}, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.price, tt.costs, domain.FeeSchedule{FeePct: tt.feePct})
			if math.Abs(got.MarginAmount-tt.wantAmount) > epsilon {
				t.Errorf("MarginAmount = %v, want %v", got.MarginAmount, tt.wantAmount)
			}
			wantPct := 0.0
			if tt.price > 0 {
				wantPct = tt.wantAmount / tt.price
			}
			if math.Abs(got.MarginPct-wantPct) > epsilon {
				t.Errorf("MarginPct = %v, want %v", got.MarginPct, wantPct)
			}
		})
	}
}

func TestCalculateForProduct(t *testing.T) {
	p := &domain.Product{
		Price:             100,
		Cost:              40,
		PackagingCost:     5,
		ShippingCost:      5,
		MarketplaceFeePct: 0.15,
	}

	got := CalculateForProduct(p.Price, p)
	if math.Abs(got.MarginAmount-35) > epsilon {
		t.Errorf("MarginAmount = %v, want 35", got.MarginAmount)
	}
}
