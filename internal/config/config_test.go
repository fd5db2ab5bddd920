package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kjannette/ativos-backend/internal/logging"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_PORT", "QUOTE_CURRENCY", "STORE_DRIVER", "UPSTREAM_MAX_ATTEMPTS", "LABEL_TIMEZONE", "BRAPI_BASE_URL", "LOG_MAX_SIZE_MB"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.APIPort)
	require.Equal(t, "BRL", cfg.QuoteCurrency)
	require.Equal(t, StorePostgres, cfg.StoreDriver)
	require.Equal(t, 1, cfg.UpstreamMaxAttempts)
	require.Equal(t, "https://brapi.dev/api", cfg.BrapiBaseURL)
	require.Equal(t, "America/Sao_Paulo", cfg.LabelTimezone)
	require.Equal(t, 100, cfg.LogMaxSizeMB)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("QUOTE_CURRENCY", "usdt")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("UPSTREAM_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("LOG_FILE", "logs/ativos.log")
	t.Setenv("LOG_MAX_SIZE_MB", "20")
	t.Setenv("LOG_MAX_BACKUPS", "3")
	t.Setenv("LOG_MAX_AGE_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.APIPort)
	require.Equal(t, "USDT", cfg.QuoteCurrency)
	require.Equal(t, StoreSQLite, cfg.StoreDriver)
	require.Equal(t, 3*time.Second, cfg.HTTPTimeout())
	require.Equal(t, 1, cfg.UpstreamMaxAttempts)
	require.Equal(t, "logs/ativos.log", cfg.LogFile)
	require.Equal(t, 20, cfg.LogMaxSizeMB)
	require.Equal(t, 3, cfg.LogMaxBackups)
	require.Equal(t, 7, cfg.LogMaxAgeDays)
}

func validConfig() *Config {
	return &Config{
		APIPort:             8080,
		StoreDriver:         StoreSQLite,
		SQLitePath:          ":memory:",
		HTTPTimeoutSeconds:  10,
		UpstreamMaxAttempts: 1,
		LabelTimezone:       "UTC",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate(logging.Discard()))

	cases := map[string]func(c *Config){
		"bad driver":   func(c *Config) { c.StoreDriver = "mysql" },
		"bad port":     func(c *Config) { c.APIPort = 0 },
		"zero timeout": func(c *Config) { c.HTTPTimeoutSeconds = 0 },
		"no attempts":  func(c *Config) { c.UpstreamMaxAttempts = 0 },
		"bad timezone": func(c *Config) { c.LabelTimezone = "Mars/Olympus" },
		"empty path":   func(c *Config) { c.SQLitePath = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			mutate(c)
			require.Error(t, c.Validate(nil))
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	c := validConfig()
	c.LabelTimezone = "Mars/Olympus"
	require.Equal(t, time.UTC, c.Location())
}

func TestDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: 5433, DBName: "ativos"}
	require.Equal(t, "postgres://u:p@h:5433/ativos?sslmode=disable", c.DSN())
}
