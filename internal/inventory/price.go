package inventory

import (
	"math"
	"strconv"
	"strings"
)

// maxPrice is the largest value a NUMERIC(12,2) column holds.
const maxPrice = 9999999999.99

// ParsePrice converts raw input to a price. Unparsable, non-finite and
// negative or oversized values become nil, as do hex floats such as "0x10", which clears the price: the update is
// accepted and the record ends up unpriced rather than rejected.
func ParsePrice(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxPrice {
		return nil
	}
	v = math.Round(v*100) / 100
	return &v
}
