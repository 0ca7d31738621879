package domain

import "time"

// TotalQty sums quantities across a sales history.
func TotalQty(history []SalesRecord) int {
	total := 0
	for _, r := range history {
		total += r.Qty
	}
	return total
}

// LatestSaleDate returns the most recent parseable date in the history.
// Returns an error when the history is empty or any date fails to parse,
// matching the all-or-nothing semantics of dead-stock evaluation.
func LatestSaleDate(history []SalesRecord) (time.Time, error) {
	if len(history) == 0 {
		return time.Time{}, ErrEmptyHistory
	}

	var latest time.Time
	for _, r := range history {
		d, err := r.ParsedDate()
		if err != nil {
			return time.Time{}, err
		}
		if d.After(latest) {
			latest = d
		}
	}
	return latest, nil
}

// VelocityPerDay computes average units sold per day over the observed span.
// days_span is the whole-day distance between the earliest and latest sale,
// floored to 1 so single-day and empty histories do not divide by zero.
// Returns an error when any date fails to parse; callers degrade to velocity 0.
func VelocityPerDay(history []SalesRecord) (float64, error) {
	if len(history) == 0 {
		return 0, nil
	}

	var earliest, latest time.Time
	for i, r := range history {
		d, err := r.ParsedDate()
		if err != nil {
			return 0, err
		}
		if i == 0 || d.Before(earliest) {
			earliest = d
		}
		if d.After(latest) {
			latest = d
		}
	}

	daysSpan := int(latest.Sub(earliest).Hours() / 24)
	if daysSpan < 1 {
		daysSpan = 1
	}

	return float64(TotalQty(history)) / float64(daysSpan), nil
}
