package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders a restock report as Markdown string.
func RenderMarkdown(r *RestockReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Restock Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Products: %d | Recommended units: %d\n\n", r.ProductCount, r.TotalRecommended))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| High Risk | %d |\n", r.HighRiskCount))
	sb.WriteString(fmt.Sprintf("| Degraded Forecasts | %d |\n", r.DegradedCount))
	sb.WriteString(fmt.Sprintf("| Forecast Failures | %d |\n", r.ForecastFailures))
	sb.WriteString("\n")

	// Recommendations
	sb.WriteString("## Recommendations\n\n")
	if len(r.Recommendations) > 0 {
		sb.WriteString("| Product | Depletion (days) | Risk | Velocity/day | Recommended Qty | Margin % |\n")
		sb.WriteString("|---------|------------------|------|--------------|-----------------|----------|\n")
		for _, rec := range r.Recommendations {
			days := "-"
			risk := "unavailable"
			if rec.Predicted != nil {
				if rec.Predicted.DaysToDepletion != nil {
					days = fmt.Sprintf("%d", *rec.Predicted.DaysToDepletion)
				}
				risk = string(rec.Predicted.Risk)
				if rec.Predicted.Degraded {
					risk += " (degraded)"
				}
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.2f | %d | %.2f%% |\n",
				rec.ProductID, days, risk,
				rec.VelocityPerDay, rec.RecommendedQty, rec.CurrentMargin.MarginPct*100))
		}
	} else {
		sb.WriteString("No recommendations generated.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
