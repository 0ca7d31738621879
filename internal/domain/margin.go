package domain

// MarginResult is the outcome of a margin calculation.
// MarginAmount may be negative; callers interpret negative margin as a loss,
// values are never clamped.
type MarginResult struct {
	MarginAmount float64 `json:"margin_amount"` // price − total cost − fee amount
	MarginPct    float64 `json:"margin_pct"`    // MarginAmount / price, 0 when price is 0
}
