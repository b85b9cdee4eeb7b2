package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Store backend selection
	KVURL           string
	KVToken         string
	KVReadOnlyToken string
	Serverless      bool
	StoreFile       string
	// Portfolio definitions
	PortfolioFile string
	// Providers
	ProviderOrder  []string
	YahooBaseURL   string
	StooqBaseURL   string
	StooqMirrorURL string
	RequestTimeout time.Duration
	// Refresh
	RefreshDelay time.Duration
	RefreshEvery time.Duration
	// Market calendar
	MarketMIC string
	MarketTZ  string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolEnv(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
		KVURL:           os.Getenv("KV_URL"),
		KVToken:         os.Getenv("KV_TOKEN"),
		KVReadOnlyToken: os.Getenv("KV_READ_ONLY_TOKEN"),
		Serverless:      boolEnv("SERVERLESS"),
		StoreFile:       getEnv("STORE_FILE", ".devdata/store.json"),
		PortfolioFile:   os.Getenv("PORTFOLIO_FILE"),
		ProviderOrder:   splitList(getEnv("PROVIDER_ORDER", "stooq,yahoo")),
		YahooBaseURL:    getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		StooqBaseURL:    getEnv("STOOQ_BASE_URL", "https://stooq.com"),
		StooqMirrorURL:  getEnv("STOOQ_MIRROR_URL", "https://stooq.pl"),
		RequestTimeout:  durMS("REQUEST_TIMEOUT_MS", 4000),
		RefreshDelay:    durMS("REFRESH_DELAY_MS", 150),
		RefreshEvery:    durMS("REFRESH_EVERY_MS", 300000),
		MarketMIC:       getEnv("MARKET_MIC", "xnys"),
		MarketTZ:        getEnv("MARKET_TZ", "America/New_York"),
	}
}

// HasKV reports whether the remote key-value credentials are fully
// declared. Presence, not content, drives the store backend choice.
func (c Config) HasKV() bool {
	return c.KVURL != "" && c.KVToken != "" && c.KVReadOnlyToken != ""
}
