// Package finance provides pure margin arithmetic shared by the repricer,
// the inventory guard and the order manager.
package finance

import "seller-intel-engine/internal/domain"

// Calculate computes the margin for one unit sold at salePrice.
// fee_amount = salePrice * FeePct
// margin_amount = salePrice − (cost + packaging + shipping + ads + fee_amount)
// margin_pct = margin_amount / salePrice, 0 when salePrice is 0.
// The result is never clamped; a negative margin means selling at a loss.
func Calculate(salePrice float64, costs domain.CostBreakdown, fees domain.FeeSchedule) domain.MarginResult {
	feeAmount := salePrice * fees.FeePct
	totalCost := costs.Total() + feeAmount

	marginAmount := salePrice - totalCost

	marginPct := 0.0
	if salePrice > 0 {
		marginPct = marginAmount / salePrice
	}

	return domain.MarginResult{
		MarginAmount: marginAmount,
		MarginPct:    marginPct,
	}
}

// CalculateForProduct computes the margin of a product at a given sale price
// using the product's own cost and fee fields.
func CalculateForProduct(salePrice float64, p *domain.Product) domain.MarginResult {
	return Calculate(salePrice, p.Costs(), p.Fees())
}
