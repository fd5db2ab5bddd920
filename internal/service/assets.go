// Package service ties the quote providers to the asset store and exposes
// the operations served over HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kjannette/ativos-backend/internal/market"
	"github.com/kjannette/ativos-backend/internal/models"
	"github.com/kjannette/ativos-backend/internal/repository"
)

const (
	DefaultDashboardEquities = "PETR4,VALE3,WEGE3,ITUB4,BBAS3,AAPL,TSLA,NVDA,GOOGL,MSFT"
	DefaultDashboardCryptos  = "BTC,ETH,SOL,BNB,ADA,XRP,DOT,MATIC"
)

var ErrEmptySymbol = errors.New("symbol is required")

// Notifier receives a summary when a batch ends with failed symbols.
type Notifier interface {
	Send(ctx context.Context, msg string)
}

type Options struct {
	DashboardEquities string
	DashboardCryptos  string
	Notifier          Notifier
}

type AssetService struct {
	equity market.Provider
	crypto market.Provider
	store  repository.AssetStore
	logger *slog.Logger
	notify Notifier

	dashboardEquities string
	dashboardCryptos  string
}

func NewAssetService(equity, crypto market.Provider, store repository.AssetStore, logger *slog.Logger, opts Options) *AssetService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DashboardEquities == "" {
		opts.DashboardEquities = DefaultDashboardEquities
	}
	if opts.DashboardCryptos == "" {
		opts.DashboardCryptos = DefaultDashboardCryptos
	}
	return &AssetService{
		equity:            equity,
		crypto:            crypto,
		store:             store,
		logger:            logger.With("component", "assets"),
		notify:            opts.Notifier,
		dashboardEquities: opts.DashboardEquities,
		dashboardCryptos:  opts.DashboardCryptos,
	}
}

// SymbolStatus is the outcome of one symbol in a batch fetch.
type SymbolStatus struct {
	Symbol string `json:"symbol"`
	Kind   string `json:"kind"`
	OK     bool   `json:"ok"`
	ID     int64  `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// BatchReport holds the saved assets of a batch fetch plus the status of
// every requested symbol.
type BatchReport struct {
	Assets   []models.Asset
	Statuses []SymbolStatus
}

func (r *BatchReport) Failed() []SymbolStatus {
	var out []SymbolStatus
	for _, s := range r.Statuses {
		if !s.OK {
			out = append(out, s)
		}
	}
	return out
}

// GetDashboard fetches and saves the configured dashboard symbols.
func (s *AssetService) GetDashboard(ctx context.Context) []models.Asset {
	return s.FetchBatch(ctx, s.dashboardEquities, s.dashboardCryptos)
}

// FetchBatch fetches, normalizes and saves every symbol in the two
// comma-separated lists. Failed symbols are logged and left out.
func (s *AssetService) FetchBatch(ctx context.Context, equitySymbols, cryptoSymbols string) []models.Asset {
	return s.FetchBatchReport(ctx, equitySymbols, cryptoSymbols).Assets
}

// FetchBatchReport is FetchBatch with a per-symbol status list. Equities
// come first in upstream order, then cryptos in input order.
func (s *AssetService) FetchBatchReport(ctx context.Context, equitySymbols, cryptoSymbols string) (report BatchReport) {
	report.Assets = []models.Asset{}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch fetch aborted", "panic", r, "saved", len(report.Assets))
		}
	}()

	if symbols := SplitSymbols(equitySymbols); len(symbols) > 0 {
		s.collect(ctx, s.equity, symbols, &report)
	}
	if codes := SplitSymbols(cryptoSymbols); len(codes) > 0 {
		s.collect(ctx, s.crypto, codes, &report)
	}

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Warn("batch fetch finished with failures",
			"saved", len(report.Assets), "failed", len(failed))
		if s.notify != nil {
			s.notify.Send(ctx, failureSummary(failed, len(report.Statuses)))
		}
	} else {
		s.logger.Info("batch fetch finished", "saved", len(report.Assets))
	}
	return report
}

func (s *AssetService) collect(ctx context.Context, p market.Provider, symbols []string, report *BatchReport) {
	results, err := p.Quotes(ctx, symbols)
	if err != nil {
		s.logger.Error("quote batch failed", "provider", p.Name(), "symbols", strings.Join(symbols, ","), "error", err)
		for _, sym := range symbols {
			report.Statuses = append(report.Statuses, SymbolStatus{
				Symbol: market.NormalizeCode(sym), Kind: p.Kind(), Error: err.Error(),
			})
		}
		return
	}

	for _, r := range results {
		status := SymbolStatus{Symbol: r.Symbol, Kind: p.Kind()}
		if r.Err != nil {
			s.logger.Warn("quote failed", "provider", p.Name(), "symbol", r.Symbol, "error", r.Err)
			status.Error = r.Err.Error()
			report.Statuses = append(report.Statuses, status)
			continue
		}

		saved, err := s.store.Save(ctx, *r.Asset)
		if err != nil {
			s.logger.Error("save asset failed", "symbol", r.Symbol, "error", err)
			status.Error = err.Error()
			report.Statuses = append(report.Statuses, status)
			continue
		}

		status.OK, status.ID = true, saved.ID
		report.Statuses = append(report.Statuses, status)
		report.Assets = append(report.Assets, *saved)
	}
}

func failureSummary(failed []SymbolStatus, total int) string {
	names := make([]string, len(failed))
	for i, f := range failed {
		names[i] = f.Symbol
	}
	return fmt.Sprintf("quote batch: %d of %d symbols failed: %s",
		len(failed), total, strings.Join(names, ", "))
}

// GetQuote fetches the current quote for one symbol without saving it.
func (s *AssetService) GetQuote(ctx context.Context, symbol string) (*models.Asset, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, ErrEmptySymbol
	}
	p := s.providerFor(symbol)
	a, err := p.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch quote %s: %w", market.NormalizeCode(symbol), err)
	}
	return a, nil
}

// GetHistory returns the price series for symbol over period. Upstream
// failures are logged and yield an empty series.
func (s *AssetService) GetHistory(ctx context.Context, symbol, period string) []models.HistoryPoint {
	if strings.TrimSpace(symbol) == "" {
		return []models.HistoryPoint{}
	}
	p := s.providerFor(symbol)
	points, err := p.History(ctx, symbol, period)
	if err != nil {
		s.logger.Error("history fetch failed",
			"provider", p.Name(), "symbol", symbol, "period", period, "error", err)
		return []models.HistoryPoint{}
	}
	if points == nil {
		points = []models.HistoryPoint{}
	}
	return points
}

// Snapshots lists saved assets, newest first.
func (s *AssetService) Snapshots(ctx context.Context, symbol string, limit int) ([]models.Asset, error) {
	return s.store.ListRecent(ctx, symbol, limit)
}

func (s *AssetService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *AssetService) providerFor(symbol string) market.Provider {
	if market.IsCrypto(symbol) {
		return s.crypto
	}
	return s.equity
}

// SplitSymbols splits a comma-separated list, trimming tokens and
// dropping empty ones.
func SplitSymbols(list string) []string {
	var out []string
	for _, tok := range strings.Split(list, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
