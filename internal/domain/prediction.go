package domain

// Risk classifies predicted stock risk.
type Risk string

// Risk levels reported by the forecasting boundary.
const (
	RiskLow    Risk = "low"
	RiskMedium Risk = "medium"
	RiskHigh   Risk = "high"
)

// StockPrediction is a depletion/risk forecast for a single product.
// DaysToDepletion is nil when the forecaster reported no depletion signal or
// the reported value could not be coerced to an integer.
type StockPrediction struct {
	DaysToDepletion *int   `json:"days_to_depletion,omitempty"`
	Risk            Risk   `json:"risk,omitempty"`
	Rationale       string `json:"rationale,omitempty"`
	Degraded        bool   `json:"degraded,omitempty"` // true when produced by the local fallback forecaster
}
