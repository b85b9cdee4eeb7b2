package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"token-portfolio/internal/domain"
)

var testClock = fakeClock{t: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}

func Test_EnsureQuote_CacheShortCircuit(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	st.put("price:set1:AAPL", domain.PriceQuote{Close: 229.1, ObservedAt: 1, Source: "stooq"})
	p := &fakeProvider{name: "stooq", quote: &domain.PriceQuote{Close: 999}}
	r := NewResolver(st, []QuoteProvider{p}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "AAPL", "set1")
	require.NotNil(t, got)
	require.Equal(t, 229.1, got.Close)
	require.Zero(t, p.calls, "a usable cached quote must not trigger any provider call")
}

func Test_EnsureQuote_FirstProviderWins(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	p1 := &fakeProvider{name: "stooq", quote: &domain.PriceQuote{Open: 227.5, Close: 229.1, Source: "stooq"}}
	p2 := &fakeProvider{name: "yahoo", quote: &domain.PriceQuote{Close: 999, Source: "yahoo"}}
	r := NewResolver(st, []QuoteProvider{p1, p2}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "aapl", "set1")
	require.Equal(t, 229.1, got.Close)
	require.Equal(t, "stooq", got.Source)
	require.Equal(t, 1, p1.calls)
	require.Zero(t, p2.calls)

	// Result was persisted under the upper-cased symbol key.
	var stored domain.PriceQuote
	require.True(t, st.Get(context.Background(), "price:set1:AAPL", &stored))
	require.Equal(t, 229.1, stored.Close)
	require.Equal(t, testClock.t.UnixMilli(), stored.ObservedAt)
}

func Test_EnsureQuote_FallsBackToSecondProvider(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	p1 := &fakeProvider{name: "stooq", err: errProviderDown}
	p2 := &fakeProvider{name: "yahoo", quote: &domain.PriceQuote{Close: 229.1, Source: "yahoo"}}
	r := NewResolver(st, []QuoteProvider{p1, p2}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "AAPL", "set1")
	require.Equal(t, 229.1, got.Close)
	require.Equal(t, "yahoo", got.Source)
	require.Equal(t, 1, p1.calls)
	require.Equal(t, 1, p2.calls)
}

func Test_EnsureQuote_PersistsAfterEveryAttempt(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	// First provider returns an unusable record; second fails outright.
	p1 := &fakeProvider{name: "stooq", quote: &domain.PriceQuote{Source: "stooq", ObservedAt: 42}}
	p2 := &fakeProvider{name: "yahoo", err: errProviderDown}
	r := NewResolver(st, []QuoteProvider{p1, p2}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "AAPL", "set1")
	require.False(t, got.Usable())

	// The unusable attempt was still written, recording source and time.
	var stored domain.PriceQuote
	require.True(t, st.Get(context.Background(), "price:set1:AAPL", &stored))
	require.Equal(t, "stooq", stored.Source)
	require.Equal(t, int64(42), stored.ObservedAt)
}

func Test_EnsureQuote_TotalFailureIsNotAnError(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	p1 := &fakeProvider{name: "stooq", err: errProviderDown}
	p2 := &fakeProvider{name: "yahoo", err: errProviderDown}
	r := NewResolver(st, []QuoteProvider{p1, p2}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "AAPL", "set1")
	require.Nil(t, got)
	require.Zero(t, st.sets)
}

func Test_EnsureQuote_MergesPartialResults(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	// Cached entry records a failed earlier attempt; the fetched fields
	// must merge over it without losing its timestamp floor.
	st.put("price:set1:AAPL", domain.PriceQuote{ObservedAt: 10, Source: "stooq"})
	p1 := &fakeProvider{name: "stooq", quote: &domain.PriceQuote{PrevClose: 225.0, Source: "stooq"}}
	r := NewResolver(st, []QuoteProvider{p1}, nil, WithResolverClock(testClock))

	got := r.EnsureQuote(context.Background(), "AAPL", "set1")
	require.Equal(t, 225.0, got.PrevClose)
	require.Equal(t, "stooq", got.Source)
	require.GreaterOrEqual(t, got.ObservedAt, int64(10))
}
