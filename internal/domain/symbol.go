package domain

import "strings"

// QuoteCurrency is the only quote asset this bot trades against.
const QuoteCurrency = "USDT"

// NormalizeSymbol converts a user-supplied ticker into the exchange's
// canonical form: uppercase base asset with the quote suffix appended once.
// "btc", "BTC", "btcusdt" and "BTCUSDT" all normalize to "BTCUSDT".
// Deterministic and total; never fails.
func NormalizeSymbol(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimSuffix(s, QuoteCurrency)
	return s + QuoteCurrency
}
