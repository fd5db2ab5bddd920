package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	// HTTP API
	APIPort         int
	APIKey          string
	CORSAllowOrigin string

	// Upstreams
	BrapiToken          string
	BrapiBaseURL        string
	BinanceBaseURL      string
	QuoteCurrency       string
	HTTPTimeoutSeconds  int
	UpstreamMaxAttempts int

	// Dashboard
	DashboardEquities string
	DashboardCryptos  string
	LabelTimezone     string

	// Store
	StoreDriver string
	SQLitePath  string
	DBHost      string
	DBPort      int
	DBName      string
	DBUser      string
	DBPassword  string

	// Alerts
	WebhookURL  string
	WebhookName string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIPort:         envInt("API_PORT", 8080),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		BrapiToken:          envStr("BRAPI_TOKEN", ""),
		BrapiBaseURL:        envStr("BRAPI_BASE_URL", "https://brapi.dev/api"),
		BinanceBaseURL:      envStr("BINANCE_BASE_URL", "https://api.binance.com/api/v3"),
		QuoteCurrency:       strings.ToUpper(envStr("QUOTE_CURRENCY", "BRL")),
		HTTPTimeoutSeconds:  envInt("HTTP_TIMEOUT_SECONDS", 10),
		UpstreamMaxAttempts: envInt("UPSTREAM_MAX_ATTEMPTS", 1),

		DashboardEquities: envStr("DASHBOARD_EQUITIES", ""),
		DashboardCryptos:  envStr("DASHBOARD_CRYPTOS", ""),
		LabelTimezone:     envStr("LABEL_TIMEZONE", "America/Sao_Paulo"),

		StoreDriver: strings.ToLower(envStr("STORE_DRIVER", StorePostgres)),
		SQLitePath:  envStr("SQLITE_PATH", "data/assets.db"),
		DBHost:      envStr("DB_HOST", "localhost"),
		DBPort:      envInt("DB_PORT", 5432),
		DBName:      envStr("DB_NAME", "ativos"),
		DBUser:      envStr("DB_USER", ""),
		DBPassword:  envStr("DB_PASSWORD", ""),

		WebhookURL:  envStr("WEBHOOK_URL", ""),
		WebhookName: envStr("WEBHOOK_NAME", "Ativos"),

		LogLevel:  envStr("LOG_LEVEL", "info"),
		LogFormat: envStr("LOG_FORMAT", "json"),
		LogFile:   envStr("LOG_FILE", ""),

		LogMaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: envInt("LOG_MAX_BACKUPS", 10),
		LogMaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 30),
	}

	return cfg, nil
}

// Validate returns hard errors and logs soft warnings.
func (c *Config) Validate(logger *slog.Logger) error {
	var errs []string

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Sprintf("API_PORT %d out of range", c.APIPort))
	}
	if c.StoreDriver != StorePostgres && c.StoreDriver != StoreSQLite {
		errs = append(errs, fmt.Sprintf("STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreSQLite, c.StoreDriver))
	}
	if c.StoreDriver == StoreSQLite && c.SQLitePath == "" {
		errs = append(errs, "SQLITE_PATH is required when STORE_DRIVER=sqlite")
	}
	if c.HTTPTimeoutSeconds <= 0 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be positive")
	}
	if c.UpstreamMaxAttempts < 1 {
		errs = append(errs, "UPSTREAM_MAX_ATTEMPTS must be at least 1")
	}
	if _, err := time.LoadLocation(c.LabelTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("LABEL_TIMEZONE %q: %v", c.LabelTimezone, err))
	}

	if logger != nil {
		if c.BrapiToken == "" {
			logger.Warn("BRAPI_TOKEN not set, brapi requests are anonymous and rate limited")
		}
		if c.APIKey == "" {
			logger.Warn("API_KEY not set, REST API has no authentication")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Location resolves LabelTimezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LabelTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Config) Print(logger *slog.Logger) {
	store := c.StoreDriver
	if c.StoreDriver == StoreSQLite {
		store += " (" + c.SQLitePath + ")"
	} else {
		store += fmt.Sprintf(" (%s:%d/%s)", c.DBHost, c.DBPort, c.DBName)
	}

	logger.Info("configuration",
		"api_port", c.APIPort,
		"auth", boolLabel(c.APIKey != "", "enabled", "disabled"),
		"brapi", c.BrapiBaseURL,
		"brapi_token", boolLabel(c.BrapiToken != "", "configured", "not set"),
		"binance", c.BinanceBaseURL,
		"quote_currency", c.QuoteCurrency,
		"http_timeout", c.HTTPTimeout().String(),
		"upstream_attempts", c.UpstreamMaxAttempts,
		"label_timezone", c.LabelTimezone,
		"store", store,
		"alerts", boolLabel(c.WebhookURL != "", "webhook", "log only"),
	)
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
