package application

import (
	"fmt"
	"strings"
)

// Persisted key layout, backend-agnostic.

func quoteKey(setID, symbol string) string {
	return fmt.Sprintf("price:%s:%s", setID, strings.ToUpper(symbol))
}

func lastRefreshedKey(setID string) string {
	return "price:last_refreshed:" + setID
}
