package market

// Period tokens accepted by the history endpoints. Anything else falls
// back to the per-upstream default.
const (
	Period1d  = "1d"
	Period7d  = "7d"
	Period1mo = "1mo"
	Period6mo = "6mo"
	Period1y  = "1y"
	Period5y  = "5y"
)

const defaultEquityInterval = "1h"

var equityIntervals = map[string]string{
	Period1d:  "5m",
	Period7d:  "15m",
	Period1mo: "60m",
	Period6mo: "1d",
	Period1y:  "1d",
	Period5y:  "1wk",
}

// Granularity is the kline sampling for one crypto history request.
type Granularity struct {
	Interval string
	Limit    int
}

var defaultCryptoGranularity = Granularity{Interval: "1d", Limit: 30}

var cryptoGranularities = map[string]Granularity{
	Period1d:  {Interval: "5m", Limit: 288},
	Period7d:  {Interval: "15m", Limit: 672},
	Period1mo: {Interval: "1h", Limit: 720},
	Period6mo: {Interval: "1d", Limit: 180},
	Period1y:  {Interval: "1d", Limit: 365},
	Period5y:  {Interval: "1w", Limit: 260},
}

// EquityInterval maps a period token to the quote API's interval.
func EquityInterval(period string) string {
	if iv, ok := equityIntervals[period]; ok {
		return iv
	}
	return defaultEquityInterval
}

// CryptoGranularity maps a period token to a kline interval and row limit.
func CryptoGranularity(period string) Granularity {
	if g, ok := cryptoGranularities[period]; ok {
		return g
	}
	return defaultCryptoGranularity
}
