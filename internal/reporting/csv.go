package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders restock recommendations as CSV string.
func RenderCSV(r *RestockReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("product_id,days_to_depletion,risk,degraded,velocity_per_day,recommended_qty,margin_amount,margin_pct\n")

	// Rows
	for _, rec := range r.Recommendations {
		days := ""
		risk := ""
		degraded := false
		if rec.Predicted != nil {
			if rec.Predicted.DaysToDepletion != nil {
				days = fmt.Sprintf("%d", *rec.Predicted.DaysToDepletion)
			}
			risk = string(rec.Predicted.Risk)
			degraded = rec.Predicted.Degraded
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%t,%.4f,%d,%.2f,%.4f\n",
			rec.ProductID,
			days,
			risk,
			degraded,
			rec.VelocityPerDay,
			rec.RecommendedQty,
			rec.CurrentMargin.MarginAmount,
			rec.CurrentMargin.MarginPct,
		))
	}

	return sb.String()
}
