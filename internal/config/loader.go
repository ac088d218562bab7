package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies ALPACABOT_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known ALPACABOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject the API keys at run time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Alpaca.ApiKey, "ALPACABOT_ALPACA_API_KEY")
	setStr(&cfg.Alpaca.SecretKey, "ALPACABOT_ALPACA_SECRET_KEY")
	setStr(&cfg.Alpaca.TradingURL, "ALPACABOT_ALPACA_TRADING_URL")
	setStr(&cfg.Alpaca.DataURL, "ALPACABOT_ALPACA_DATA_URL")
	setBool(&cfg.Alpaca.Paper, "ALPACABOT_ALPACA_PAPER")

	setInt(&cfg.Retry.MaxAttempts, "ALPACABOT_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.Retry.Delay, "ALPACABOT_RETRY_DELAY")

	setStr(&cfg.Trade.Ticker, "ALPACABOT_TRADE_TICKER")
	setStr(&cfg.Trade.Type, "ALPACABOT_TRADE_TYPE")
	setStr(&cfg.Trade.Side, "ALPACABOT_TRADE_SIDE")
	setFloat64(&cfg.Trade.Notional, "ALPACABOT_TRADE_NOTIONAL")
	setFloat64(&cfg.Trade.Qty, "ALPACABOT_TRADE_QTY")
	setFloat64(&cfg.Trade.LimitPrice, "ALPACABOT_TRADE_LIMIT_PRICE")
	setFloat64(&cfg.Trade.TakeProfit, "ALPACABOT_TRADE_TAKE_PROFIT")
	setFloat64(&cfg.Trade.StopLoss, "ALPACABOT_TRADE_STOP_LOSS")
	setDuration(&cfg.Trade.FillWait, "ALPACABOT_TRADE_FILL_WAIT")

	setStr(&cfg.Notify.TelegramToken, "ALPACABOT_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "ALPACABOT_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "ALPACABOT_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "ALPACABOT_NOTIFY_EVENTS")

	setStr(&cfg.Mode, "ALPACABOT_MODE")
	setStr(&cfg.LogLevel, "ALPACABOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
