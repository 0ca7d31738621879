package domain

import (
	"fmt"
	"time"
)

// SalesRecord is one observed sale: a calendar date and a non-negative quantity.
// Order of records is irrelevant for aggregation; dates arrive as strings from
// marketplace feeds and may be malformed, so parsing is deferred to callers.
type SalesRecord struct {
	Date string `json:"date"` // ISO calendar date ("2026-08-01") or RFC 3339 timestamp
	Qty  int    `json:"qty"`
}

// salesDateLayouts are accepted date formats, tried in order.
var salesDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParsedDate parses the record's date field.
func (r SalesRecord) ParsedDate() (time.Time, error) {
	for _, layout := range salesDateLayouts {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable sales date %q", r.Date)
}
