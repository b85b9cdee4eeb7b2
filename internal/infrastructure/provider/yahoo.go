// Package provider implements the source adapters: each one translates
// a provider-specific response into the canonical partial-quote shape or
// reports that no data is available. Errors stop at the resolver; they
// are never fatal.
package provider

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"token-portfolio/internal/domain"
	"token-portfolio/internal/infrastructure/httpx"
)

const yahooQuotePath = "/v7/finance/quote"

// BrowserHeaders are sent with every quote-endpoint request; some quote
// endpoints reject bare clients outright.
var BrowserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Referer":         "https://finance.yahoo.com/",
	"Accept":          "application/json,text/javascript,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Yahoo reads the JSON quote endpoint for a symbol.
type Yahoo struct {
	BaseURL string
	Client  *httpx.Client
}

func NewYahoo(baseURL string, timeout time.Duration) *Yahoo {
	return &Yahoo{
		BaseURL: baseURL,
		Client:  httpx.New(timeout, BrowserHeaders),
	}
}

func (p *Yahoo) Name() string { return "yahoo" }

// yahooQuoteResp is the unvalidated payload; fields are projected into a
// PriceQuote only after passing the usability predicate.
type yahooQuoteResp struct {
	QuoteResponse struct {
		Result []struct {
			RegularMarketOpen          float64 `json:"regularMarketOpen"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteResponse"`
}

func (p *Yahoo) Fetch(ctx context.Context, symbol string) (*domain.PriceQuote, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("yahoo: invalid base url: %w", err)
	}
	u.Path = yahooQuotePath
	q := u.Query()
	q.Set("symbols", symbol)
	u.RawQuery = q.Encode()

	var body yahooQuoteResp
	if err := p.Client.GetJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}
	if len(body.QuoteResponse.Result) == 0 {
		return nil, nil
	}
	r := body.QuoteResponse.Result[0]

	out := &domain.PriceQuote{
		ObservedAt: time.Now().UnixMilli(),
		Source:     "yahoo",
	}
	if domain.Usable(r.RegularMarketOpen) {
		out.Open = r.RegularMarketOpen
	}
	// Live price when trading, last close otherwise.
	switch {
	case domain.Usable(r.RegularMarketPrice):
		out.Close = r.RegularMarketPrice
	case domain.Usable(r.RegularMarketPreviousClose):
		out.Close = r.RegularMarketPreviousClose
	}
	if domain.Usable(r.RegularMarketPreviousClose) {
		out.PrevClose = r.RegularMarketPreviousClose
	}
	return out, nil
}
