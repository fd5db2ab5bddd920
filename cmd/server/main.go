package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/kjannette/ativos-backend/internal/api"
	"github.com/kjannette/ativos-backend/internal/config"
	"github.com/kjannette/ativos-backend/internal/db"
	"github.com/kjannette/ativos-backend/internal/external"
	"github.com/kjannette/ativos-backend/internal/httputil"
	"github.com/kjannette/ativos-backend/internal/logging"
	"github.com/kjannette/ativos-backend/internal/market"
	"github.com/kjannette/ativos-backend/internal/notifications"
	"github.com/kjannette/ativos-backend/internal/repository"
	"github.com/kjannette/ativos-backend/internal/service"
)

const banner = `
╔══════════════════════════════════════╗
║        Ativos Quotes API v0.1        ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := cfg.Validate(logger); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	cfg.Print(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("store setup failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Upstream clients
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	retry := httputil.RetryConfig{
		MaxAttempts: cfg.UpstreamMaxAttempts,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Logger:      logger.With("component", "http"),
	}
	brapi := external.NewBrapiClient(cfg.BrapiToken, external.Options{
		BaseURL:    cfg.BrapiBaseURL,
		HTTPClient: httpClient,
		Retry:      retry,
	})
	binance := external.NewBinanceClient(external.Options{
		BaseURL:    cfg.BinanceBaseURL,
		HTTPClient: httpClient,
		Retry:      retry,
	})

	loc := cfg.Location()
	assets := service.NewAssetService(
		market.NewEquityProvider(brapi, loc),
		market.NewCryptoProvider(binance, cfg.QuoteCurrency, loc),
		store,
		logger,
		service.Options{
			DashboardEquities: cfg.DashboardEquities,
			DashboardCryptos:  cfg.DashboardCryptos,
			Notifier:          notifications.NewSender(cfg.WebhookURL, cfg.WebhookName, logger),
		},
	)

	srv := api.NewServer(assets, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server error", "error", err)
			stop()
		}
	}()

	logger.Info("all services started")

	<-ctx.Done()
	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

// openStore connects the configured asset store and applies its schema.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.AssetStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		logger.Info("opening sqlite store", "path", cfg.SQLitePath)
		conn, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.MigrateSQLite(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return repository.NewSQLiteAssetRepo(conn), func() { conn.Close() }, nil

	default:
		logger.Info("connecting to postgres", "host", cfg.DBHost, "port", cfg.DBPort, "db", cfg.DBName)
		pool, err := db.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := db.TestConnection(pool, logger); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewAssetRepo(pool), func() {
			pool.Close()
			logger.Info("connection pool closed")
		}, nil
	}
}
