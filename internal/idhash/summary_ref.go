// Package idhash derives deterministic identifiers from record content.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// refBytes is how much of the digest feeds the reference code. 8 bytes keeps
// codes short enough to read over the phone while collisions stay negligible
// at dashboard scale.
const refBytes = 8

// SummaryRef computes a short, human-facing reference code for an order
// summary. Formula: base58(SHA256(order_id|product_id)[:8]).
// The same order always yields the same code, so re-processing an order does
// not churn dashboard references.
func SummaryRef(orderID, productID string) string {
	data := fmt.Sprintf("%s|%s", orderID, productID)
	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:refBytes])
}
