package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kjannette/ativos-backend/internal/models"
)

// Provider is one upstream quote source. Equities and cryptos each have
// a variant; callers route between them with IsCrypto.
type Provider interface {
	Name() string
	Kind() string
	Quote(ctx context.Context, symbol string) (*models.Asset, error)
	Quotes(ctx context.Context, symbols []string) ([]QuoteResult, error)
	History(ctx context.Context, symbol, period string) ([]models.HistoryPoint, error)
}

// QuoteResult is the outcome for one symbol of a batch. Exactly one of
// Asset and Err is set.
type QuoteResult struct {
	Symbol string
	Asset  *models.Asset
	Err    error
}

// EquityFetcher is the quote API client used by EquityProvider.
type EquityFetcher interface {
	GetQuote(ctx context.Context, symbols []string) (*EquityQuoteResponse, error)
	GetHistory(ctx context.Context, symbol, rng, interval string) (*EquityQuoteResponse, error)
}

// CryptoFetcher is the exchange API client used by CryptoProvider.
type CryptoFetcher interface {
	GetTickerPrice(ctx context.Context, pair string) (*TickerPrice, error)
	GetKlines(ctx context.Context, pair, interval string, limit int) ([]KlineRow, error)
}

// --- equities ---

type EquityProvider struct {
	client EquityFetcher
	loc    *time.Location
	now    func() time.Time
}

func NewEquityProvider(client EquityFetcher, loc *time.Location) *EquityProvider {
	if loc == nil {
		loc = time.UTC
	}
	return &EquityProvider{client: client, loc: loc, now: time.Now}
}

func (p *EquityProvider) Name() string { return SourceBrapi }
func (p *EquityProvider) Kind() string { return models.KindEquity }

func (p *EquityProvider) Quote(ctx context.Context, symbol string) (*models.Asset, error) {
	resp, err := p.client.GetQuote(ctx, []string{strings.TrimSpace(symbol)})
	if err != nil {
		return nil, err
	}
	return NormalizeEquity(*resp, p.now())
}

// Quotes fetches every symbol in one upstream call. Elements that fail to
// normalize, and requested symbols absent from the reply, come back as
// failed results; only a failed call returns an error.
func (p *EquityProvider) Quotes(ctx context.Context, symbols []string) ([]QuoteResult, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	resp, err := p.client.GetQuote(ctx, symbols)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%w: results missing or empty", ErrUpstreamData)
	}

	now := p.now()
	seen := make(map[string]bool, len(resp.Results))
	out := make([]QuoteResult, 0, len(symbols))
	for i, r := range resp.Results {
		sym := NormalizeCode(r.Symbol)
		if sym == "" {
			sym = fmt.Sprintf("results[%d]", i)
		}
		seen[sym] = true
		asset, err := NormalizeEquityResult(r, now)
		out = append(out, QuoteResult{Symbol: sym, Asset: asset, Err: err})
	}
	for _, s := range symbols {
		sym := NormalizeCode(s)
		if !seen[sym] {
			seen[sym] = true
			out = append(out, QuoteResult{
				Symbol: sym,
				Err:    fmt.Errorf("%w: %s not in response", ErrUpstreamData, sym),
			})
		}
	}
	return out, nil
}

func (p *EquityProvider) History(ctx context.Context, symbol, period string) ([]models.HistoryPoint, error) {
	resp, err := p.client.GetHistory(ctx, strings.TrimSpace(symbol), period, EquityInterval(period))
	if err != nil {
		return nil, err
	}
	return NormalizeEquityHistory(*resp, p.loc)
}

// --- cryptos ---

type CryptoProvider struct {
	client        CryptoFetcher
	quoteCurrency string
	loc           *time.Location
	now           func() time.Time
}

func NewCryptoProvider(client CryptoFetcher, quoteCurrency string, loc *time.Location) *CryptoProvider {
	if quoteCurrency == "" {
		quoteCurrency = "BRL"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CryptoProvider{
		client:        client,
		quoteCurrency: NormalizeCode(quoteCurrency),
		loc:           loc,
		now:           time.Now,
	}
}

func (p *CryptoProvider) Name() string { return SourceBinance }
func (p *CryptoProvider) Kind() string { return models.KindCrypto }

// Pair returns the exchange symbol for code, e.g. BTC -> BTCBRL.
func (p *CryptoProvider) Pair(code string) string {
	return NormalizeCode(code) + p.quoteCurrency
}

func (p *CryptoProvider) Quote(ctx context.Context, code string) (*models.Asset, error) {
	ticker, err := p.client.GetTickerPrice(ctx, p.Pair(code))
	if err != nil {
		return nil, err
	}
	return NormalizeCrypto(code, *ticker, p.now())
}

// Quotes fetches codes one at a time, in order. It never returns an
// error; each code carries its own outcome.
func (p *CryptoProvider) Quotes(ctx context.Context, codes []string) ([]QuoteResult, error) {
	out := make([]QuoteResult, 0, len(codes))
	for _, c := range codes {
		asset, err := p.Quote(ctx, c)
		out = append(out, QuoteResult{Symbol: NormalizeCode(c), Asset: asset, Err: err})
	}
	return out, nil
}

func (p *CryptoProvider) History(ctx context.Context, symbol, period string) ([]models.HistoryPoint, error) {
	g := CryptoGranularity(period)
	rows, err := p.client.GetKlines(ctx, p.Pair(symbol), g.Interval, g.Limit)
	if err != nil {
		return nil, err
	}
	return NormalizeKlines(rows, p.loc)
}
