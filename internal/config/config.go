// Package config defines the top-level configuration for the alpaca trading
// client and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ALPACABOT_* environment
// variables.
type Config struct {
	Alpaca   AlpacaConfig `toml:"alpaca"`
	Retry    RetryConfig  `toml:"retry"`
	Trade    TradeConfig  `toml:"trade"`
	Notify   NotifyConfig `toml:"notify"`
	Mode     string       `toml:"mode"`
	LogLevel string       `toml:"log_level"`
}

// AlpacaConfig holds Alpaca API credentials and endpoints.
type AlpacaConfig struct {
	ApiKey     string `toml:"api_key"`
	SecretKey  string `toml:"secret_key"`
	TradingURL string `toml:"trading_url"`
	DataURL    string `toml:"data_url"`
	Paper      bool   `toml:"paper"`
}

// RetryConfig holds the upstream retry policy: a bounded attempt count with
// a fixed delay between attempts.
type RetryConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Delay       duration `toml:"delay"`
}

// TradeConfig describes the single trade the trade mode places: the loose
// user inputs of an order request. Zero-valued numeric fields are treated as
// unset.
type TradeConfig struct {
	Ticker     string   `toml:"ticker"`
	Type       string   `toml:"type"`
	Side       string   `toml:"side"`
	Notional   float64  `toml:"notional"`
	Qty        float64  `toml:"qty"`
	LimitPrice float64  `toml:"limit_price"`
	TakeProfit float64  `toml:"take_profit"`
	StopLoss   float64  `toml:"stop_loss"`
	FillWait   duration `toml:"fill_wait"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "2m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Alpaca: AlpacaConfig{
			TradingURL: "https://api.alpaca.markets",
			DataURL:    "https://data.alpaca.markets",
			Paper:      true,
		},
		Retry: RetryConfig{
			MaxAttempts: 5,
			Delay:       duration{5 * time.Second},
		},
		Trade: TradeConfig{
			FillWait: duration{10 * time.Second},
		},
		Notify: NotifyConfig{
			Events: []string{"order_submitted", "order_rejected", "fee_report", "error"},
		},
		Mode:     "trade",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"trade":    true,
	"validate": true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: trade, validate)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Credentials are always required: even validate mode reads quotes.
	if c.Alpaca.ApiKey == "" {
		errs = append(errs, "alpaca: api_key must not be empty")
	}
	if c.Alpaca.SecretKey == "" {
		errs = append(errs, "alpaca: secret_key must not be empty")
	}
	if c.Alpaca.TradingURL == "" {
		errs = append(errs, "alpaca: trading_url must not be empty")
	}
	if c.Alpaca.DataURL == "" {
		errs = append(errs, "alpaca: data_url must not be empty")
	}

	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, "retry: max_attempts must be >= 1")
	}
	if c.Retry.Delay.Duration < 0 {
		errs = append(errs, "retry: delay must not be negative")
	}

	if c.Trade.Ticker == "" {
		errs = append(errs, "trade: ticker must not be empty")
	}
	if c.Trade.Notional < 0 || c.Trade.Qty < 0 {
		errs = append(errs, "trade: notional and qty must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
