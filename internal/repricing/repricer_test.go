package repricing

import (
	"math"
	"testing"

	"seller-intel-engine/internal/domain"
)

const epsilon = 1e-9

func testProduct() *domain.Product {
	return &domain.Product{
		Price:             100,
		Cost:              40,
		PackagingCost:     5,
		ShippingCost:      5,
		MarketplaceFeePct: 0.15,
	}
}

func TestEnforceMarginOrAdjust_FloorMet(t *testing.T) {
	// margin at 100 is 35% (reference example), comfortably above a 10% floor
	result := EnforceMarginOrAdjust(100, testProduct(), Config{MinAllowedMarginPct: 0.10})

	if !result.OK {
		t.Fatalf("expected OK, got reason %q", result.Reason)
	}
	if result.SafePrice != 100 {
		t.Errorf("SafePrice = %v, want proposed price 100", result.SafePrice)
	}
	if math.Abs(result.Margin.MarginPct-0.35) > epsilon {
		t.Errorf("MarginPct = %v, want 0.35", result.Margin.MarginPct)
	}
}

func TestEnforceMarginOrAdjust_AdjustsToFloor(t *testing.T) {
	// At 60: margin = 60 - 50 - 9 = 1, pct ≈ 0.0167 < 0.10.
	// Floor solve: 50 / (1 - 0.15 - 0.10) = 66.666... → 66.67 after rounding.
	result := EnforceMarginOrAdjust(60, testProduct(), Config{MinAllowedMarginPct: 0.10})

	if result.OK {
		t.Fatal("expected floor violation")
	}
	if math.Abs(result.SafePrice-66.67) > epsilon {
		t.Errorf("SafePrice = %v, want 66.67", result.SafePrice)
	}
	if result.Reason == "" {
		t.Error("expected a reason when the price is adjusted")
	}
}

func TestEnforceMarginOrAdjust_Idempotent(t *testing.T) {
	// Feeding an accepted price back in returns the same price, still OK.
	first := EnforceMarginOrAdjust(100, testProduct(), Config{MinAllowedMarginPct: 0.10})
	if !first.OK {
		t.Fatal("first enforcement should pass")
	}

	second := EnforceMarginOrAdjust(first.SafePrice, testProduct(), Config{MinAllowedMarginPct: 0.10})
	if !second.OK {
		t.Error("second enforcement should pass")
	}
	if second.SafePrice != first.SafePrice {
		t.Errorf("SafePrice changed on re-enforcement: %v → %v", first.SafePrice, second.SafePrice)
	}
}

func TestEnforceMarginOrAdjust_ImpossibleConfiguration(t *testing.T) {
	// fee 0.95 + floor 0.10 > 1: no finite price can satisfy the floor.
	p := testProduct()
	p.MarketplaceFeePct = 0.95

	result := EnforceMarginOrAdjust(100, p, Config{MinAllowedMarginPct: 0.10})

	if result.OK {
		t.Fatal("expected configuration failure")
	}
	if result.SafePrice != 100 {
		t.Errorf("SafePrice = %v, want proposed price echoed back", result.SafePrice)
	}
	if math.IsInf(result.SafePrice, 0) || math.IsNaN(result.SafePrice) || result.SafePrice < 0 {
		t.Errorf("SafePrice must stay finite and non-negative, got %v", result.SafePrice)
	}
	if result.Reason == "" {
		t.Error("configuration failure must carry a reason")
	}
}

func TestEnforceMarginOrAdjust_ExactBoundary(t *testing.T) {
	// fee 0.90 + floor 0.10 == 1 exactly: denominator is zero, still a failure.
	p := testProduct()
	p.MarketplaceFeePct = 0.90

	result := EnforceMarginOrAdjust(100, p, Config{MinAllowedMarginPct: 0.10})
	if result.OK {
		t.Fatal("expected configuration failure at exact boundary")
	}
	if result.SafePrice != 100 {
		t.Errorf("SafePrice = %v, want 100", result.SafePrice)
	}
}

func TestComputeNewPrice(t *testing.T) {
	tests := []struct {
		base   float64
		factor float64
		want   float64
	}{
		{100, 1.10, 110},
		{100, 0.70, 70},
		{33.33, 1.10, 36.66}, // 36.663 rounds down
		{19.99, 0.70, 13.99}, // 13.993 rounds down
		{0, 1.10, 0},
	}

	for _, tt := range tests {
		got := ComputeNewPrice(tt.base, tt.factor)
		if math.Abs(got-tt.want) > epsilon {
			t.Errorf("ComputeNewPrice(%v, %v) = %v, want %v", tt.base, tt.factor, got, tt.want)
		}
	}
}

func TestRoundPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.67},
		{66.664, 66.66},
		{2.005, 2.0}, // 2.005 is stored just below the true half, rounds down
		{13.991, 13.99},
	}

	for _, tt := range tests {
		if got := RoundPrice(tt.in); math.Abs(got-tt.want) > epsilon {
			t.Errorf("RoundPrice(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
