package provider

import (
	"context"
	"time"

	"token-portfolio/internal/domain"
)

// Fake serves a fixed quote; useful for dev runs without network access.
type Fake struct {
	Quote domain.PriceQuote
}

func NewFake(open, close, prevClose float64) *Fake {
	return &Fake{Quote: domain.PriceQuote{Open: open, Close: close, PrevClose: prevClose, Source: "fake"}}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Fetch(context.Context, string) (*domain.PriceQuote, error) {
	q := f.Quote
	q.ObservedAt = time.Now().UnixMilli()
	return &q, nil
}
