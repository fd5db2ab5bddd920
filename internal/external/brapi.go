package external

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kjannette/ativos-backend/internal/httputil"
	"github.com/kjannette/ativos-backend/internal/market"
)

const brapiBaseURL = "https://brapi.dev/api"

// BrapiClient talks to the brapi.dev quote API.
type BrapiClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

func NewBrapiClient(token string, opts Options) *BrapiClient {
	opts = opts.withDefaults(brapiBaseURL)
	return &BrapiClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      token,
		httpClient: opts.HTTPClient,
		retry:      opts.Retry,
	}
}

// GetQuote fetches the current quote for one or more symbols in a
// single request.
func (c *BrapiClient) GetQuote(ctx context.Context, symbols []string) (*market.EquityQuoteResponse, error) {
	var out market.EquityQuoteResponse
	if err := getJSON(ctx, c.httpClient, c.retry, c.quoteURL(symbols, nil), &out); err != nil {
		return nil, fmt.Errorf("brapi quote %s: %w", strings.Join(symbols, ","), err)
	}
	return &out, nil
}

// GetHistory fetches a quote with its historicalDataPrice series.
func (c *BrapiClient) GetHistory(ctx context.Context, symbol, rng, interval string) (*market.EquityQuoteResponse, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)

	var out market.EquityQuoteResponse
	if err := getJSON(ctx, c.httpClient, c.retry, c.quoteURL([]string{symbol}, q), &out); err != nil {
		return nil, fmt.Errorf("brapi history %s: %w", symbol, err)
	}
	return &out, nil
}

func (c *BrapiClient) quoteURL(symbols []string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	if c.token != "" {
		q.Set("token", c.token)
	}
	escaped := make([]string, len(symbols))
	for i, s := range symbols {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL + "/quote/" + strings.Join(escaped, ",")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
