package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"token-portfolio/internal/domain"
)

var errProviderDown = errors.New("provider down")

// fakeStore keeps JSON-encoded values in a map, mirroring how the real
// backends round-trip values through JSON.
type fakeStore struct {
	data map[string][]byte
	sets int
}

func newFakeStore() *fakeStore { return &fakeStore{data: map[string][]byte{}} }

func (f *fakeStore) Get(_ context.Context, key string, out any) bool {
	raw, ok := f.data[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (f *fakeStore) Set(_ context.Context, key string, val any) {
	raw, err := json.Marshal(val)
	if err != nil {
		return
	}
	f.sets++
	f.data[key] = raw
}

func (f *fakeStore) put(key string, val any) {
	raw, _ := json.Marshal(val)
	f.data[key] = raw
}

type fakeProvider struct {
	name  string
	quote *domain.PriceQuote
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Fetch(context.Context, string) (*domain.PriceQuote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.quote == nil {
		return nil, nil
	}
	q := *f.quote
	return &q, nil
}

type fakeGate struct {
	open    bool
	allowed bool
	reason  string
}

func (f fakeGate) AllowsNow(string) (bool, string) { return f.allowed, f.reason }
func (f fakeGate) OpenNow() bool                   { return f.open }

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
