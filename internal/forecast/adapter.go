// Package forecast defines the boundary to the external stock forecasting
// service. The engine consumes predictions only through the Adapter interface;
// transport errors, malformed payloads and explicit failure flags all surface
// as a single error case.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"seller-intel-engine/internal/domain"
)

// ErrPredictFailed wraps every failure of the forecasting boundary.
var ErrPredictFailed = errors.New("forecast predict failed")

// Adapter produces a depletion/risk prediction for a product.
type Adapter interface {
	// Predict returns a prediction for productID given its sales history.
	// extra carries opaque context (typically the product itself) that the
	// forecaster may use; the engine does not interpret it.
	Predict(ctx context.Context, productID string, history []domain.SalesRecord, leadTimeDays int, extra map[string]any) (*domain.StockPrediction, error)
}

// predictionPayload is the wire shape of a prediction. days_to_depletion is
// kept raw because forecasters return it as a number, a numeric string, or
// not at all.
type predictionPayload struct {
	DaysToDepletion json.RawMessage `json:"days_to_depletion"`
	Risk            string          `json:"risk"`
	Rationale       string          `json:"rationale"`
}

// toDomain converts a wire payload into a domain prediction. A value that
// cannot be coerced to an integer is treated as "no depletion signal",
// never as an error.
func (p *predictionPayload) toDomain() *domain.StockPrediction {
	return &domain.StockPrediction{
		DaysToDepletion: coerceDays(p.DaysToDepletion),
		Risk:            domain.Risk(strings.ToLower(p.Risk)),
		Rationale:       p.Rationale,
	}
}

// coerceDays extracts an integer day count from a raw JSON value.
func coerceDays(raw json.RawMessage) *int {
	if len(raw) == 0 {
		return nil
	}

	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)

	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		n := int(f)
		return &n
	}
	return nil
}
