package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"token-portfolio/internal/domain"
	"token-portfolio/internal/portfolio"
)

// PortfolioService exposes the consumer-facing operations on top of the
// resolver, refresher and market gate: the daily read path, the refresh
// write path and a diagnostic probe.
type PortfolioService struct {
	sets      *portfolio.Sets
	store     Store
	resolver  *Resolver
	refresher *Refresher
	gate      MarketGate
	log       *zap.Logger
}

func NewPortfolioService(sets *portfolio.Sets, store Store, resolver *Resolver, refresher *Refresher, gate MarketGate, log *zap.Logger) *PortfolioService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PortfolioService{
		sets:      sets,
		store:     store,
		resolver:  resolver,
		refresher: refresher,
		gate:      gate,
		log:       log,
	}
}

// DailyRow is one priced position of a portfolio set.
type DailyRow struct {
	Symbol        string  `json:"symbol"`
	Shares        float64 `json:"shares"`
	PurchasePrice float64 `json:"purchasePrice"`
	Cards         int     `json:"cards"`
	RefPrice      float64 `json:"refPrice"`
	Value         float64 `json:"value"`
	PnL           float64 `json:"pnl"`
	PnLPct        float64 `json:"pnlPct"`
	CardValue     float64 `json:"cardValue"`
}

type DailyResult struct {
	Rows          []DailyRow `json:"rows"`
	MarketOpen    bool       `json:"marketOpen"`
	LastRefreshed *int64     `json:"lastRefreshed"`
	SetID         string     `json:"setId"`
}

// Daily prices every position of the set against resolved quotes. It
// never fails: an unknown set id falls back to the default set, and a
// position whose quote cannot be resolved is reported with a zero
// reference price for the consumer to flag as "missing price".
func (s *PortfolioService) Daily(ctx context.Context, setID string) DailyResult {
	set := s.sets.Get(setID)
	marketOpen := s.gate.OpenNow()

	res := DailyResult{
		Rows:          make([]DailyRow, 0, len(set.Positions)),
		MarketOpen:    marketOpen,
		LastRefreshed: s.lastRefreshed(ctx, set.ID),
		SetID:         set.ID,
	}
	for _, p := range set.Positions {
		q := s.resolver.EnsureQuote(ctx, p.Symbol, set.ID)
		res.Rows = append(res.Rows, priceRow(p, domain.ReferencePrice(q, marketOpen)))
	}
	return res
}

func (s *PortfolioService) lastRefreshed(ctx context.Context, setID string) *int64 {
	var ts int64
	if !s.store.Get(ctx, lastRefreshedKey(setID), &ts) {
		return nil
	}
	return &ts
}

// priceRow computes the position's valuation from the reference price.
func priceRow(p portfolio.Position, ref float64) DailyRow {
	row := DailyRow{
		Symbol:        p.Symbol,
		Shares:        p.Shares,
		PurchasePrice: p.PurchasePrice,
		Cards:         p.Cards,
		RefPrice:      ref,
	}
	if !domain.Usable(ref) {
		return row
	}

	refD := decimal.NewFromFloat(ref)
	shares := decimal.NewFromFloat(p.Shares)
	purchase := decimal.NewFromFloat(p.PurchasePrice)

	value := shares.Mul(refD)
	row.Value = value.InexactFloat64()
	row.PnL = shares.Mul(refD.Sub(purchase)).InexactFloat64()
	if !purchase.IsZero() {
		row.PnLPct = refD.Sub(purchase).Div(purchase).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	if p.Cards > 0 {
		row.CardValue = value.Div(decimal.NewFromInt(int64(p.Cards))).InexactFloat64()
	}
	return row
}

// SetOutcome reports a single set's refresh result.
type SetOutcome struct {
	SetID   string `json:"setId"`
	Count   int    `json:"count"`
	Updated int    `json:"updated"`
	Message string `json:"message,omitempty"`
}

type RefreshResult struct {
	Skipped      bool         `json:"skipped,omitempty"`
	Reason       string       `json:"reason,omitempty"`
	TotalSymbols int          `json:"totalSymbols"`
	TotalUpdated int          `json:"totalUpdated"`
	Results      []SetOutcome `json:"results"`
}

// RefreshAll is the wildcard set id accepted by Refresh.
const RefreshAll = "all"

// Refresh runs the batch refresher over one set or all of them. When an
// occasion tag is given the market-window gate is consulted first; a
// rejection is a skip outcome, not an error. Unknown set ids and unknown
// occasion tags are policy rejections reported as errors.
func (s *PortfolioService) Refresh(ctx context.Context, setID, occasion string) (RefreshResult, error) {
	setID = strings.ToLower(setID)
	if setID == "" {
		setID = s.sets.Default().ID
	}
	if setID != RefreshAll && !s.sets.Known(setID) {
		return RefreshResult{}, fmt.Errorf("%w: %q", ErrUnknownBucket, setID)
	}

	if occasion != "" {
		if occasion != "open" && occasion != "close" {
			return RefreshResult{}, fmt.Errorf("%w: %q", ErrBadOccasion, occasion)
		}
		if ok, reason := s.gate.AllowsNow(occasion); !ok {
			s.log.Info("refresh_skipped", zap.String("set", setID), zap.String("occasion", occasion), zap.String("reason", reason))
			return RefreshResult{Skipped: true, Reason: reason, Results: []SetOutcome{}}, nil
		}
	}

	ids := []string{setID}
	if setID == RefreshAll {
		ids = s.sets.IDs()
	}

	res := RefreshResult{Results: make([]SetOutcome, 0, len(ids))}
	for _, id := range ids {
		symbols := s.sets.Symbols(id)
		if len(symbols) == 0 {
			res.Results = append(res.Results, SetOutcome{SetID: id, Message: "no symbols"})
			continue
		}
		updated := s.refresher.RefreshMany(ctx, symbols, id)
		res.Results = append(res.Results, SetOutcome{SetID: id, Count: len(symbols), Updated: updated})
		res.TotalSymbols += len(symbols)
		res.TotalUpdated += updated
	}
	return res, nil
}

// DiagSetSummary is a compact description of one configured set.
type DiagSetSummary struct {
	ID     string   `json:"id"`
	Rows   int      `json:"rows"`
	First3 []string `json:"first3"`
}

type DiagResult struct {
	SetID         string             `json:"set"`
	Env           map[string]any     `json:"env"`
	ExchangeNow   string             `json:"exchangeNow"`
	Sets          []DiagSetSummary   `json:"setsSummary"`
	ProbeSymbol   string             `json:"probeSymbol"`
	Probe         *domain.PriceQuote `json:"probe"`
	ProbeUsable   bool               `json:"probeUsable"`
	LastRefreshed *int64             `json:"lastRefreshed"`
}

// Diag resolves one probe symbol and summarizes the configured sets; it
// exists to verify network reachability and store health in one call.
func (s *PortfolioService) Diag(ctx context.Context, setID string, env map[string]any, exchangeNow string) DiagResult {
	set := s.sets.Get(setID)

	summaries := make([]DiagSetSummary, 0, len(s.sets.All()))
	for _, st := range s.sets.All() {
		first := make([]string, 0, 3)
		for i, p := range st.Positions {
			if i == 3 {
				break
			}
			first = append(first, p.Symbol)
		}
		summaries = append(summaries, DiagSetSummary{ID: st.ID, Rows: len(st.Positions), First3: first})
	}

	probeSym := "AAPL"
	if syms := s.sets.Symbols(set.ID); len(syms) > 0 {
		probeSym = syms[0]
	}
	probe := s.resolver.EnsureQuote(ctx, probeSym, set.ID)

	return DiagResult{
		SetID:         set.ID,
		Env:           env,
		ExchangeNow:   exchangeNow,
		Sets:          summaries,
		ProbeSymbol:   probeSym,
		Probe:         probe,
		ProbeUsable:   probe.Usable(),
		LastRefreshed: s.lastRefreshed(ctx, set.ID),
	}
}
