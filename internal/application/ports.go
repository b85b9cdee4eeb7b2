package application

import (
	"context"
	"time"

	"token-portfolio/internal/domain"
)

// Store is the persistent key-value map holding cached quotes. Both
// operations are total: a missing key, an unreadable backing medium or a
// corrupt value all surface as "absent" on Get, and Set failures are
// swallowed at the backend boundary. The Resolver is the only writer of
// quote entries.
type Store interface {
	// Get decodes the value stored under key into out and reports
	// whether a value was found.
	Get(ctx context.Context, key string, out any) bool
	Set(ctx context.Context, key string, val any)
}

// QuoteProvider fetches a partial quote for one symbol from a single
// external source. A nil quote or an error both mean "no data"; the
// Resolver downgrades errors, they never propagate past it.
type QuoteProvider interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (*domain.PriceQuote, error)
}

// MarketGate decides whether a scheduled refresh occasion is inside its
// real-world time window, and whether the market is currently trading.
type MarketGate interface {
	AllowsNow(occasion string) (bool, string)
	OpenNow() bool
}

// Worker represents a background processor of refresh passes.
// Implementations must run until the context is canceled.
type Worker interface {
	Start(ctx context.Context)
}

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
