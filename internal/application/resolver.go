package application

import (
	"context"

	"go.uber.org/zap"

	"token-portfolio/internal/domain"
)

// Resolver produces a best-effort price snapshot for a (set, symbol)
// pair: cache first, then the ordered provider chain, merging every
// attempt into the cached value and persisting after each one so partial
// progress survives a later failure.
type Resolver struct {
	store     Store
	providers []QuoteProvider
	clock     Clock
	log       *zap.Logger
}

type ResolverOption func(*Resolver)

func WithResolverClock(c Clock) ResolverOption {
	return func(r *Resolver) { r.clock = c }
}

func NewResolver(store Store, providers []QuoteProvider, log *zap.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{store: store, providers: providers, log: log}
	for _, opt := range opts {
		opt(r)
	}
	if r.clock == nil {
		r.clock = realClock{}
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// EnsureQuote returns the cached quote when it is usable, otherwise
// walks the provider chain. Total provider failure is not an error: the
// caller gets whatever the final merge produced, possibly nil, and is
// expected to degrade gracefully.
func (r *Resolver) EnsureQuote(ctx context.Context, symbol, setID string) *domain.PriceQuote {
	key := quoteKey(setID, symbol)

	var cached *domain.PriceQuote
	var entry domain.PriceQuote
	if r.store.Get(ctx, key, &entry) {
		cached = &entry
	}
	if cached.Usable() {
		return cached
	}

	merged := cached
	for _, p := range r.providers {
		fetched, err := p.Fetch(ctx, symbol)
		if err != nil {
			r.log.Warn("provider_fetch_failed",
				zap.String("provider", p.Name()),
				zap.String("symbol", symbol),
				zap.Error(err))
			fetched = nil
		}
		if fetched != nil && fetched.ObservedAt == 0 {
			fetched.ObservedAt = r.clock.Now().UnixMilli()
		}
		merged = domain.Merge(merged, fetched)
		// Persist even an unusable merge so the attempt's timestamp and
		// source are recorded.
		if merged != nil {
			r.store.Set(ctx, key, merged)
		}
		if merged.Usable() {
			return merged
		}
	}
	return merged
}
