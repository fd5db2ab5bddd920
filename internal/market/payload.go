package market

import "encoding/json"

// EquityQuoteResponse is the body of GET /quote/{symbols}.
type EquityQuoteResponse struct {
	Results []EquityResult `json:"results"`
}

type EquityResult struct {
	Symbol              string               `json:"symbol"`
	LongName            *string              `json:"longName"`
	RegularMarketPrice  json.RawMessage      `json:"regularMarketPrice"`
	HistoricalDataPrice []EquityHistoryEntry `json:"historicalDataPrice"`
}

// EquityHistoryEntry is one element of historicalDataPrice. Both fields
// arrive as raw JSON because upstream sends nulls for empty candles.
type EquityHistoryEntry struct {
	Date  json.RawMessage `json:"date"`
	Close json.RawMessage `json:"close"`
}

// TickerPrice is the body of GET /ticker/price.
type TickerPrice struct {
	Symbol string          `json:"symbol"`
	Price  json.RawMessage `json:"price"`
}

// KlineRow is one positional kline array:
// [openTime, open, high, low, close, volume, closeTime, ...].
type KlineRow []json.RawMessage

const (
	klineOpenTime = 0
	klineClose    = 4
)
