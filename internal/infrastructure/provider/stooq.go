package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"token-portfolio/internal/domain"
	"token-portfolio/internal/infrastructure/httpx"
)

const stooqDailyPath = "/q/d/l/"

// Daily CSV columns: Date,Open,High,Low,Close,Volume.
const (
	stooqColOpen  = 1
	stooqColClose = 4
)

// Stooq fetches a daily CSV time series for the `{symbol}.us` suffixed
// symbol, trying the primary host first and one mirror host with the
// same parsing logic before giving up.
type Stooq struct {
	BaseURL   string
	MirrorURL string
	Client    *httpx.Client
}

func NewStooq(baseURL, mirrorURL string, timeout time.Duration) *Stooq {
	return &Stooq{
		BaseURL:   baseURL,
		MirrorURL: mirrorURL,
		Client:    httpx.New(timeout, BrowserHeaders),
	}
}

func (p *Stooq) Name() string { return "stooq" }

func (p *Stooq) Fetch(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	hosts := []struct{ base, src string }{
		{p.BaseURL, "stooq"},
		{p.MirrorURL, "stooq-mirror"},
	}

	var lastErr error
	for _, h := range hosts {
		if h.base == "" {
			continue
		}
		q, err := p.fetchFrom(ctx, h.base, h.src, symbol)
		if err != nil {
			lastErr = err
			continue
		}
		if q != nil {
			return q, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("stooq: %w", lastErr)
	}
	return nil, nil
}

func (p *Stooq) fetchFrom(ctx context.Context, base, src, symbol string) (*domain.PriceQuote, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	u.Path = stooqDailyPath
	q := u.Query()
	q.Set("s", strings.ToLower(symbol)+".us")
	q.Set("i", "d")
	u.RawQuery = q.Encode()

	body, err := p.Client.GetText(ctx, u.String())
	if err != nil {
		return nil, err
	}
	return parseDailyCSV(body, src)
}

// parseDailyCSV extracts open/close from the latest row and prevClose
// from the prior row. An empty, short or HTML body (an error page served
// with a 200) yields absent, not an error.
func parseDailyCSV(body, src string) (*domain.PriceQuote, error) {
	body = strings.TrimSpace(body)
	if body == "" || strings.HasPrefix(body, "<") {
		return nil, nil
	}
	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return nil, nil
	}

	rows := lines[1:]
	last := strings.Split(strings.TrimSpace(rows[len(rows)-1]), ",")
	prev := last
	if len(rows) >= 2 {
		prev = strings.Split(strings.TrimSpace(rows[len(rows)-2]), ",")
	}
	if len(last) <= stooqColClose || len(prev) <= stooqColClose {
		return nil, nil
	}

	out := &domain.PriceQuote{
		Open:       usableField(last[stooqColOpen]),
		Close:      usableField(last[stooqColClose]),
		PrevClose:  usableField(prev[stooqColClose]),
		ObservedAt: time.Now().UnixMilli(),
		Source:     src,
	}
	return out, nil
}

// usableField parses a CSV cell, returning 0 (absent) unless the value
// passes the usability predicate.
func usableField(cell string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || !domain.Usable(x) {
		return 0
	}
	return x
}
