package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "https://api.alpaca.markets", cfg.Alpaca.TradingURL)
	assert.True(t, cfg.Alpaca.Paper)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.Retry.Delay.Duration)
	assert.Equal(t, 10*time.Second, cfg.Trade.FillWait.Duration)
	assert.Equal(t, "trade", cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
mode = "validate"
log_level = "debug"

[alpaca]
api_key = "key"
secret_key = "secret"

[retry]
max_attempts = 3
delay = "2s"

[trade]
ticker = "AAPL"
type = "limit"
side = "buy"
qty = 10.0
limit_price = 144.0
fill_wait = "30s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "validate", cfg.Mode)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "key", cfg.Alpaca.ApiKey)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay.Duration)
	assert.Equal(t, "AAPL", cfg.Trade.Ticker)
	assert.Equal(t, 30*time.Second, cfg.Trade.FillWait.Duration)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "https://api.alpaca.markets", cfg.Alpaca.TradingURL)
	assert.True(t, cfg.Alpaca.Paper)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[alpaca]
api_key = "file-key"

[trade]
ticker = "AAPL"
`)

	t.Setenv("ALPACABOT_ALPACA_API_KEY", "env-key")
	t.Setenv("ALPACABOT_ALPACA_PAPER", "false")
	t.Setenv("ALPACABOT_RETRY_DELAY", "250ms")
	t.Setenv("ALPACABOT_TRADE_QTY", "2.5")
	t.Setenv("ALPACABOT_NOTIFY_EVENTS", "order_submitted, fee_report")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Alpaca.ApiKey)
	assert.False(t, cfg.Alpaca.Paper)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.Delay.Duration)
	assert.Equal(t, 2.5, cfg.Trade.Qty)
	assert.Equal(t, []string{"order_submitted", "fee_report"}, cfg.Notify.Events)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "backtest"
	cfg.Retry.MaxAttempts = 0
	// Credentials and ticker left empty on purpose.

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown mode "backtest"`)
	assert.Contains(t, err.Error(), "api_key must not be empty")
	assert.Contains(t, err.Error(), "secret_key must not be empty")
	assert.Contains(t, err.Error(), "max_attempts must be >= 1")
	assert.Contains(t, err.Error(), "ticker must not be empty")
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Alpaca.ApiKey = "key"
	cfg.Alpaca.SecretKey = "secret"
	cfg.Trade.Ticker = "BTC/USD"
	cfg.Trade.Side = "buy"
	cfg.Trade.Type = "market"
	cfg.Trade.Qty = 0.1

	require.NoError(t, cfg.Validate())
}
