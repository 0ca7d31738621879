package domain

// Product represents a marketplace listing together with its per-unit economics.
// Corresponds to the products table in PostgreSQL.
type Product struct {
	ID                string  `json:"id"`
	SKU               string  `json:"sku,omitempty"`
	Title             string  `json:"title,omitempty"`
	Price             float64 `json:"price"`
	Cost              float64 `json:"cost"`
	PackagingCost     float64 `json:"packaging_cost"`
	ShippingCost      float64 `json:"shipping_cost"`
	AdsCost           float64 `json:"ads_cost"`
	MarketplaceFeePct float64 `json:"marketplace_fee_pct"` // fraction of sale price, e.g. 0.15
	StockQty          int     `json:"stock_qty"`
	LeadTimeDays      int     `json:"lead_time_days"`
	SafetyDays        int     `json:"safety_days"`

	SalesHistory []SalesRecord `json:"sales_history,omitempty"`
}

// CostBreakdown holds all per-unit costs excluding marketplace fees.
// Missing fields default to zero.
type CostBreakdown struct {
	Cost      float64 `json:"cost"`
	Packaging float64 `json:"packaging"`
	Shipping  float64 `json:"shipping"`
	Ads       float64 `json:"ads"`
}

// Total returns the sum of all fixed per-unit costs.
func (c CostBreakdown) Total() float64 {
	return c.Cost + c.Packaging + c.Shipping + c.Ads
}

// FeeSchedule holds the marketplace fee applied to the sale price.
type FeeSchedule struct {
	FeePct float64 `json:"fee_pct"` // fraction, e.g. 0.15 = 15%
}

// Costs returns the product's cost breakdown.
func (p *Product) Costs() CostBreakdown {
	return CostBreakdown{
		Cost:      p.Cost,
		Packaging: p.PackagingCost,
		Shipping:  p.ShippingCost,
		Ads:       p.AdsCost,
	}
}

// Fees returns the product's marketplace fee schedule.
func (p *Product) Fees() FeeSchedule {
	return FeeSchedule{FeePct: p.MarketplaceFeePct}
}
