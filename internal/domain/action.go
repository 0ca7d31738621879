package domain

// ActionType identifies an inventory action emitted by the guard.
type ActionType string

// Inventory action types.
const (
	ActionRaisePrice          ActionType = "raise_price"
	ActionAggressiveClearance ActionType = "aggressive_clearance"
	ActionSEORefresh          ActionType = "seo_refresh"
)

// InventoryAction is one concrete recommendation for a product.
// ProposedPrice is nil for actions that carry no price (seo_refresh).
type InventoryAction struct {
	Type          ActionType `json:"type"`
	ProposedPrice *float64   `json:"proposed_price,omitempty"`
	MarginOK      *bool      `json:"margin_ok,omitempty"` // whether the margin floor was met as proposed
	Reason        string     `json:"reason"`
}

// StockHealthResult is the stable result shape of a stock health evaluation.
// Action holds the depletion-rule result, Actions accumulates dead-stock
// results; both can be set in the same evaluation.
type StockHealthResult struct {
	OK         bool              `json:"ok"`
	Error      string            `json:"error,omitempty"`
	Prediction *StockPrediction  `json:"prediction,omitempty"`
	Action     *InventoryAction  `json:"action,omitempty"`
	Actions    []InventoryAction `json:"actions,omitempty"`
}
