package domain

// RestockRecommendation is one entry of a restock batch.
// Predicted is nil when the forecast for this product failed; the entry is
// still emitted with velocity and margin computed locally.
type RestockRecommendation struct {
	ProductID      string           `json:"product_id"`
	Predicted      *StockPrediction `json:"predicted"`
	VelocityPerDay float64          `json:"velocity_per_day"`
	RecommendedQty int              `json:"recommended_qty"`
	CurrentMargin  MarginResult     `json:"current_margin"`
}
