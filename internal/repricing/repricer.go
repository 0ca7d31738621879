// Package repricing proposes prices and enforces the minimum-margin floor.
package repricing

import (
	"fmt"
	"math"

	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/finance"
)

// Config holds per-call enforcement parameters.
type Config struct {
	MinAllowedMarginPct float64 // margin floor as a fraction of price, e.g. 0.10
}

// EnforcementResult is the outcome of a margin-floor check.
// When OK is false because of an impossible configuration, SafePrice echoes
// the proposed price and Reason explains why no price can satisfy the floor.
type EnforcementResult struct {
	OK        bool                `json:"ok"`
	SafePrice float64             `json:"safe_price"`
	Reason    string              `json:"reason,omitempty"`
	Margin    domain.MarginResult `json:"margin"`
}

// ComputeNewPrice scales a base price by a factor, e.g. 1.10 for a +10% bump
// or 0.70 for a clearance markdown. The result is rounded to 2 decimals and
// carries no margin guarantee of its own; it must pass through
// EnforceMarginOrAdjust before being treated as authoritative.
func ComputeNewPrice(basePrice, factor float64) float64 {
	return RoundPrice(basePrice * factor)
}

// RoundPrice rounds a price to 2 decimal places, half away from zero.
// Half-up is used everywhere prices are rounded so enforcement is idempotent.
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// EnforceMarginOrAdjust checks a proposed price against the margin floor and,
// when the floor is not met, solves for the minimal price that exactly meets it:
//
//	p = fixedCost / (1 − feePct − minMarginPct)
//
// A denominator ≤ 0 means the fee percentage plus the floor reaches 100% of the
// price; no finite price can satisfy the floor, so the result is OK=false with
// the proposed price unchanged rather than a negative or infinite price.
func EnforceMarginOrAdjust(proposedPrice float64, product *domain.Product, cfg Config) EnforcementResult {
	margin := finance.CalculateForProduct(proposedPrice, product)

	if margin.MarginPct >= cfg.MinAllowedMarginPct {
		return EnforcementResult{
			OK:        true,
			SafePrice: proposedPrice,
			Margin:    margin,
		}
	}

	fixedCost := product.Costs().Total()
	denominator := 1 - product.MarketplaceFeePct - cfg.MinAllowedMarginPct
	if denominator <= 0 {
		return EnforcementResult{
			OK:        false,
			SafePrice: proposedPrice,
			Reason: fmt.Sprintf(
				"margin floor %.2f plus fee %.2f leaves no room for margin",
				cfg.MinAllowedMarginPct, product.MarketplaceFeePct),
			Margin: margin,
		}
	}

	safePrice := RoundPrice(fixedCost / denominator)
	return EnforcementResult{
		OK:        false,
		SafePrice: safePrice,
		Reason: fmt.Sprintf(
			"proposed price %.2f yields margin %.4f below floor %.4f, adjusted to %.2f",
			proposedPrice, margin.MarginPct, cfg.MinAllowedMarginPct, safePrice),
		Margin: finance.CalculateForProduct(safePrice, product),
	}
}
