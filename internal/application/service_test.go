package application

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"token-portfolio/internal/domain"
	"token-portfolio/internal/portfolio"
)

func testSets(t *testing.T) *portfolio.Sets {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolios.yaml")
	doc := `
sets:
  - id: set1
    name: One
    positions:
      - { symbol: AAPL, shares: 2, purchasePrice: 200, cards: 10 }
  - id: set2
    name: Two
    positions:
      - { symbol: MSFT, shares: 1, purchasePrice: 400, cards: 5 }
  - id: empty
    name: Empty
    positions: []
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	sets, err := portfolio.Load(path)
	require.NoError(t, err)
	return sets
}

func newTestService(t *testing.T, st *fakeStore, p QuoteProvider, gate fakeGate) *PortfolioService {
	t.Helper()
	clock := fakeClock{t: time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)}
	res := NewResolver(st, []QuoteProvider{p}, nil, WithResolverClock(clock))
	ref := NewRefresher(st, res, nil, WithRefresherClock(clock), WithDelay(0))
	return NewPortfolioService(testSets(t), st, res, ref, gate, nil)
}

// End-to-end reference price selection: during open hours the opening
// trade wins; after hours the merged current value does.
func Test_Daily_ReferencePriceSelection(t *testing.T) {
	t.Parallel()
	quote := &domain.PriceQuote{Open: 227.5, Close: 229.1, PrevClose: 225.0, Source: "yahoo"}

	duringOpen := newTestService(t, newFakeStore(), &fakeProvider{name: "yahoo", quote: quote}, fakeGate{open: true})
	got := duringOpen.Daily(context.Background(), "set1")
	require.Len(t, got.Rows, 1)
	require.True(t, got.MarketOpen)
	require.Equal(t, 227.5, got.Rows[0].RefPrice)

	afterHours := newTestService(t, newFakeStore(), &fakeProvider{name: "yahoo", quote: quote}, fakeGate{open: false})
	got = afterHours.Daily(context.Background(), "set1")
	require.False(t, got.MarketOpen)
	require.Equal(t, 229.1, got.Rows[0].RefPrice)
}

func Test_Daily_Valuation(t *testing.T) {
	t.Parallel()
	quote := &domain.PriceQuote{Close: 210, Source: "stooq"}
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "stooq", quote: quote}, fakeGate{open: false})

	got := svc.Daily(context.Background(), "set1")
	row := got.Rows[0]
	// shares=2, purchase=200, ref=210
	require.Equal(t, 210.0, row.RefPrice)
	require.InDelta(t, 420.0, row.Value, 1e-9)
	require.InDelta(t, 20.0, row.PnL, 1e-9)
	require.InDelta(t, 5.0, row.PnLPct, 1e-9)
	require.InDelta(t, 42.0, row.CardValue, 1e-9)
}

func Test_Daily_DegradesToZeroRows(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "stooq", err: errProviderDown}, fakeGate{open: false})

	got := svc.Daily(context.Background(), "set1")
	require.Len(t, got.Rows, 1)
	require.Zero(t, got.Rows[0].RefPrice)
	require.Zero(t, got.Rows[0].Value)
	require.Nil(t, got.LastRefreshed)
}

func Test_Daily_UnknownSetFallsBack(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "stooq"}, fakeGate{})
	got := svc.Daily(context.Background(), "missing")
	require.Equal(t, "set1", got.SetID)
}

func Test_Refresh_UnknownSet(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "stooq"}, fakeGate{})
	_, err := svc.Refresh(context.Background(), "set99", "")
	require.ErrorIs(t, err, ErrUnknownBucket)
}

func Test_Refresh_BadOccasion(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "stooq"}, fakeGate{allowed: true})
	_, err := svc.Refresh(context.Background(), "set1", "lunch")
	require.ErrorIs(t, err, ErrBadOccasion)
}

func Test_Refresh_GateSkips(t *testing.T) {
	t.Parallel()
	p := &fakeProvider{name: "stooq", quote: &domain.PriceQuote{Close: 229.1, Source: "stooq"}}
	svc := newTestService(t, newFakeStore(), p, fakeGate{allowed: false, reason: "weekend"})

	res, err := svc.Refresh(context.Background(), "set1", "close")
	require.NoError(t, err)
	require.True(t, res.Skipped)
	require.Equal(t, "weekend", res.Reason)
	require.Zero(t, p.calls, "a skipped refresh must not touch providers")
}

func Test_Refresh_AllSets(t *testing.T) {
	t.Parallel()
	st := newFakeStore()
	p := &chainProvider{name: "stooq", quotes: map[string]*domain.PriceQuote{
		"AAPL": {Close: 229.1, Source: "stooq"},
		"MSFT": {Close: 510.0, Source: "stooq"},
	}}
	clock := fakeClock{t: time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)}
	res := NewResolver(st, []QuoteProvider{p}, nil, WithResolverClock(clock))
	ref := NewRefresher(st, res, nil, WithRefresherClock(clock), WithDelay(0))
	svc := NewPortfolioService(testSets(t), st, res, ref, fakeGate{allowed: true}, nil)

	out, err := svc.Refresh(context.Background(), RefreshAll, "")
	require.NoError(t, err)
	require.False(t, out.Skipped)
	require.Equal(t, 2, out.TotalSymbols)
	require.Equal(t, 2, out.TotalUpdated)
	require.Len(t, out.Results, 3)
	require.Equal(t, "no symbols", out.Results[2].Message)
}

func Test_Diag_Probe(t *testing.T) {
	t.Parallel()
	quote := &domain.PriceQuote{Close: 229.1, Source: "yahoo"}
	svc := newTestService(t, newFakeStore(), &fakeProvider{name: "yahoo", quote: quote}, fakeGate{})

	got := svc.Diag(context.Background(), "set1", map[string]any{"store": "memory"}, "2025-06-02T11:00:00-04:00")
	require.Equal(t, "set1", got.SetID)
	require.Equal(t, "AAPL", got.ProbeSymbol)
	require.True(t, got.ProbeUsable)
	require.Len(t, got.Sets, 3)
}
