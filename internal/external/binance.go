package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/kjannette/ativos-backend/internal/httputil"
	"github.com/kjannette/ativos-backend/internal/market"
)

const binanceBaseURL = "https://api.binance.com/api/v3"

// BinanceClient talks to the public Binance spot market endpoints.
type BinanceClient struct {
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewBinanceClient(opts Options) *BinanceClient {
	opts = opts.withDefaults(binanceBaseURL)
	return &BinanceClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		retry:      opts.Retry,
	}
}

func (c *BinanceClient) GetTickerPrice(ctx context.Context, pair string) (*market.TickerPrice, error) {
	q := url.Values{}
	q.Set("symbol", pair)

	var out market.TickerPrice
	if err := getJSON(ctx, c.httpClient, c.retry, c.baseURL+"/ticker/price?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("binance ticker %s: %w", pair, err)
	}
	return &out, nil
}

func (c *BinanceClient) GetKlines(ctx context.Context, pair, interval string, limit int) ([]market.KlineRow, error) {
	q := url.Values{}
	q.Set("symbol", pair)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	var out []market.KlineRow
	if err := getJSON(ctx, c.httpClient, c.retry, c.baseURL+"/klines?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("binance klines %s: %w", pair, err)
	}
	return out, nil
}
