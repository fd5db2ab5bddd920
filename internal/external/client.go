package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kjannette/ativos-backend/internal/httputil"
	"github.com/kjannette/ativos-backend/internal/market"
)

// Options configures the upstream API clients.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      httputil.RetryConfig
}

// NoRetry issues each request exactly once.
var NoRetry = httputil.RetryConfig{MaxAttempts: 1}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if o.Retry.MaxAttempts <= 0 {
		o.Retry = NoRetry
	}
	return o
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
// Transport failures and non-2xx replies wrap market.ErrUpstreamUnavailable;
// undecodable bodies wrap market.ErrUpstreamData.
func getJSON(ctx context.Context, client *http.Client, retry httputil.RetryConfig, url string, out any) error {
	resp, err := httputil.Do(ctx, client, retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", market.ErrUpstreamUnavailable, httputil.StripURL(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: HTTP %d: %s", market.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", market.ErrUpstreamData, err)
	}
	return nil
}
