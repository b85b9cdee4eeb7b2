// Package bootstrap is the composition root: it selects the store
// backend from environment capability, builds the provider chain in the
// configured order and wires the application service.
package bootstrap

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"token-portfolio/internal/application"
	"token-portfolio/internal/config"
	"token-portfolio/internal/infrastructure/kvstore"
	"token-portfolio/internal/infrastructure/provider"
	"token-portfolio/internal/market"
	"token-portfolio/internal/portfolio"
)

// BuildStore picks the key-value backend once at process start:
// remote endpoint when fully configured, in-process map on managed
// hosting, JSON file otherwise.
func BuildStore(cfg config.Config, log *zap.Logger) (application.Store, string, func(), error) {
	switch {
	case cfg.HasKV():
		opts, err := redis.ParseURL(cfg.KVURL)
		if err != nil {
			return nil, "", func() {}, fmt.Errorf("bootstrap: parse KV_URL: %w", err)
		}
		if opts.Password == "" {
			opts.Password = cfg.KVToken
		}
		client := redis.NewClient(opts)
		log.Info("store_backend", zap.String("backend", "redis"))
		return kvstore.NewRedis(client, log), "redis", func() { _ = client.Close() }, nil
	case cfg.Serverless:
		log.Info("store_backend", zap.String("backend", "memory"))
		return kvstore.NewMemory(), "memory", func() {}, nil
	default:
		log.Info("store_backend", zap.String("backend", "file"), zap.String("path", cfg.StoreFile))
		return kvstore.NewFile(cfg.StoreFile, log), "file", func() {}, nil
	}
}

// BuildProviders assembles the source adapter chain in the configured
// order. The order is policy, not correctness; once chosen it stays
// stable so retries are deterministic.
func BuildProviders(cfg config.Config, log *zap.Logger) []application.QuoteProvider {
	out := make([]application.QuoteProvider, 0, len(cfg.ProviderOrder))
	for _, name := range cfg.ProviderOrder {
		switch name {
		case "stooq":
			out = append(out, provider.NewStooq(cfg.StooqBaseURL, cfg.StooqMirrorURL, cfg.RequestTimeout))
		case "yahoo":
			out = append(out, provider.NewYahoo(cfg.YahooBaseURL, cfg.RequestTimeout))
		case "fake":
			out = append(out, provider.NewFake(227.5, 229.1, 225.0))
		default:
			log.Warn("unknown_provider_ignored", zap.String("provider", name))
		}
	}
	return out
}

// BuildService wires the portfolio sets, resolver, refresher and market
// gate into the consumer-facing service.
func BuildService(cfg config.Config, store application.Store, log *zap.Logger) (*application.PortfolioService, error) {
	sets, err := portfolio.Load(cfg.PortfolioFile)
	if err != nil {
		return nil, err
	}

	gate := market.NewGate(cfg.MarketMIC, cfg.MarketTZ, log)
	providers := BuildProviders(cfg, log)
	resolver := application.NewResolver(store, providers, log)
	refresher := application.NewRefresher(store, resolver, log, application.WithDelay(cfg.RefreshDelay))
	return application.NewPortfolioService(sets, store, resolver, refresher, gate, log), nil
}

// EnvSummary describes the runtime for the diagnostic endpoint.
func EnvSummary(cfg config.Config, backend string) map[string]any {
	return map[string]any{
		"env":        cfg.Env,
		"store":      backend,
		"hasKV":      cfg.HasKV(),
		"serverless": cfg.Serverless,
		"providers":  cfg.ProviderOrder,
	}
}
