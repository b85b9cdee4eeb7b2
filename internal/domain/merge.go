package domain

// Merge combines a previously cached quote with a newly fetched one,
// field by field. For each price field the incoming value wins when
// usable, otherwise the previous value is kept when usable, otherwise the
// field stays absent. ObservedAt never moves backward; Source follows the
// newest non-empty origin.
//
// A merge never destroys previously known good data: when the combined
// record has no usable price at all, whichever input exists is returned
// as-is (previous preferred) instead of a manufactured empty record.
func Merge(prev, incoming *PriceQuote) *PriceQuote {
	if prev == nil && incoming == nil {
		return nil
	}

	out := &PriceQuote{
		Open:       pickPrice(fieldOpen, prev, incoming),
		Close:      pickPrice(fieldClose, prev, incoming),
		PrevClose:  pickPrice(fieldPrevClose, prev, incoming),
		ObservedAt: maxObserved(prev, incoming),
	}
	switch {
	case incoming != nil && incoming.Source != "":
		out.Source = incoming.Source
	case prev != nil:
		out.Source = prev.Source
	}

	if !out.Usable() {
		if prev != nil {
			return prev
		}
		return incoming
	}
	return out
}

type priceField int

const (
	fieldOpen priceField = iota
	fieldClose
	fieldPrevClose
)

func pickPrice(f priceField, prev, incoming *PriceQuote) float64 {
	if v := fieldOf(f, incoming); Usable(v) {
		return v
	}
	if v := fieldOf(f, prev); Usable(v) {
		return v
	}
	return 0
}

func fieldOf(f priceField, q *PriceQuote) float64 {
	if q == nil {
		return 0
	}
	switch f {
	case fieldOpen:
		return q.Open
	case fieldClose:
		return q.Close
	default:
		return q.PrevClose
	}
}

func maxObserved(prev, incoming *PriceQuote) int64 {
	var ts int64
	if prev != nil && prev.ObservedAt > ts {
		ts = prev.ObservedAt
	}
	if incoming != nil && incoming.ObservedAt > ts {
		ts = incoming.ObservedAt
	}
	return ts
}
