package domain

import "math"

// PriceQuote is the canonical unit of market data for one symbol.
// A zero price field means "no data": values that fail the usability
// predicate are never stored as real prices.
type PriceQuote struct {
	Open       float64 `json:"open,omitempty"`
	Close      float64 `json:"close,omitempty"`
	PrevClose  float64 `json:"prevClose,omitempty"`
	ObservedAt int64   `json:"ts,omitempty"`
	Source     string  `json:"src,omitempty"`
}

// Usable reports whether x is a real price: finite and strictly positive.
// NaN, infinities, zero and negatives all count as "no data".
func Usable(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return x > 0
}

// Usable reports whether the quote carries at least one real price field.
func (q *PriceQuote) Usable() bool {
	if q == nil {
		return false
	}
	return Usable(q.Open) || Usable(q.Close) || Usable(q.PrevClose)
}

// ReferencePrice selects the consumer-facing price for the current market
// state. While the market is trading the opening price is preferred;
// outside trading hours the current/last close is. Returns 0 when the
// quote has nothing usable.
func ReferencePrice(q *PriceQuote, marketOpen bool) float64 {
	if q == nil {
		return 0
	}
	if marketOpen && Usable(q.Open) {
		return q.Open
	}
	if Usable(q.Close) {
		return q.Close
	}
	if Usable(q.PrevClose) {
		return q.PrevClose
	}
	return 0
}
