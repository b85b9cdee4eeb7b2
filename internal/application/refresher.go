package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"token-portfolio/internal/domain"
)

// Refresher drives the Resolver across a symbol set, one symbol at a
// time with a pacing delay after every symbol. Total latency scales
// linearly with symbol count.
type Refresher struct {
	store    Store
	resolver *Resolver
	delay    time.Duration
	clock    Clock
	log      *zap.Logger
}

type RefresherOption func(*Refresher)

func WithRefresherClock(c Clock) RefresherOption {
	return func(r *Refresher) { r.clock = c }
}

func WithDelay(d time.Duration) RefresherOption {
	return func(r *Refresher) { r.delay = d }
}

func NewRefresher(store Store, resolver *Resolver, log *zap.Logger, opts ...RefresherOption) *Refresher {
	r := &Refresher{store: store, resolver: resolver, delay: 150 * time.Millisecond, log: log}
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

// RefreshMany resolves every symbol in order and counts how many cached
// entries actually changed. The set's last-refreshed timestamp is only
// written when at least one entry changed, so it reflects the last time
// new data arrived, not merely the last attempt.
func (r *Refresher) RefreshMany(ctx context.Context, symbols []string, setID string) int {
	updated := 0
	for _, sym := range symbols {
		var before domain.PriceQuote
		had := r.store.Get(ctx, quoteKey(setID, sym), &before)

		after := r.resolver.EnsureQuote(ctx, sym, setID)

		switch {
		case after == nil:
			// nothing fetched and nothing cached; no change
		case !had, *after != before:
			updated++
		}

		if !r.pause(ctx) {
			break
		}
	}
	if updated > 0 {
		r.store.Set(ctx, lastRefreshedKey(setID), r.clock.Now().UnixMilli())
	}
	r.log.Info("refresh_many_done",
		zap.String("set", setID),
		zap.Int("symbols", len(symbols)),
		zap.Int("updated", updated))
	return updated
}

// pause sleeps for the pacing delay, returning false when the context
// was canceled first.
func (r *Refresher) pause(ctx context.Context) bool {
	if r.delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
