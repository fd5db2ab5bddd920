package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/kjannette/ativos-backend/internal/models"
)

const (
	SourceBrapi   = "brapi"
	SourceBinance = "binance"
)

// NormalizeEquity converts a quote payload into an Asset built from its
// first result.
func NormalizeEquity(payload EquityQuoteResponse, now time.Time) (*models.Asset, error) {
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("%w: results missing or empty", ErrUpstreamData)
	}
	return NormalizeEquityResult(payload.Results[0], now)
}

// NormalizeEquityResult converts one element of a quote payload.
func NormalizeEquityResult(r EquityResult, now time.Time) (*models.Asset, error) {
	symbol := strings.TrimSpace(r.Symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol missing", ErrUpstreamData)
	}

	price, err := parseDecimal("regularMarketPrice", r.RegularMarketPrice)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: %s: negative price %s", ErrUpstreamData, symbol, price)
	}

	name := symbol
	if r.LongName != nil && strings.TrimSpace(*r.LongName) != "" {
		name = *r.LongName
	}

	return &models.Asset{
		Symbol:    symbol,
		Name:      name,
		Price:     price,
		UpdatedAt: now,
		Source:    SourceBrapi,
	}, nil
}

// NormalizeCrypto converts a ticker payload for code into an Asset.
func NormalizeCrypto(code string, ticker TickerPrice, now time.Time) (*models.Asset, error) {
	symbol := NormalizeCode(code)
	if symbol == "" {
		return nil, fmt.Errorf("%w: crypto code missing", ErrUpstreamData)
	}

	price, err := parseDecimal("price", ticker.Price)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: %s: negative price %s", ErrUpstreamData, symbol, price)
	}

	return &models.Asset{
		Symbol:    symbol,
		Name:      CryptoName(symbol),
		Price:     price,
		UpdatedAt: now,
		Source:    SourceBinance,
	}, nil
}
