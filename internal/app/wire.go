package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/config"
	"github.com/yarno/alpacabot/internal/domain"
	"github.com/yarno/alpacabot/internal/notify"
	"github.com/yarno/alpacabot/internal/platform/alpaca"
	"github.com/yarno/alpacabot/internal/service"
)

// paperTradingURL is used in place of the live trading host when the paper
// flag is set and no explicit override was configured.
const (
	liveTradingURL  = "https://api.alpaca.markets"
	paperTradingURL = "https://paper-api.alpaca.markets"
)

// Dependencies bundles everything the application modes need to operate.
type Dependencies struct {
	Client      *alpaca.Client
	Universe    *domain.Universe
	Book        *domain.TradeBook
	BuyingPower decimal.Decimal

	Prices *service.PriceService
	Trades *service.TradeService
	Fees   *service.FeeService

	Notifier *notify.Notifier
}

// Wire constructs the concrete dependency graph: the brokerage client with
// its retry policy, the startup snapshots (asset universe, buying power), an
// empty trade book, the three services, and the notifier.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	tradingURL := cfg.Alpaca.TradingURL
	if cfg.Alpaca.Paper && tradingURL == liveTradingURL {
		tradingURL = paperTradingURL
	}

	client := alpaca.NewClient(
		cfg.Alpaca.ApiKey,
		cfg.Alpaca.SecretKey,
		alpaca.WithBaseURLs(tradingURL, cfg.Alpaca.DataURL),
		alpaca.WithRetryPolicy(alpaca.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Delay:       cfg.Retry.Delay.Duration,
			Retryable:   alpaca.IsTransient,
		}),
	)

	universe, err := service.LoadUniverse(ctx, client, logger)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	buyingPower, err := client.GetBuyingPower(ctx)
	if err != nil {
		return nil, fmt.Errorf("get buying power: %w", err)
	}
	logger.InfoContext(ctx, "buying power available",
		slog.String("usd", buyingPower.String()),
	)

	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, logger)

	book := domain.NewTradeBook()
	prices := service.NewPriceService(client, universe, logger)
	trades := service.NewTradeService(prices, client, universe, book, buyingPower, logger).
		WithNotifier(notifier)
	fees := service.NewFeeService(client, prices, universe, book, logger)

	return &Dependencies{
		Client:      client,
		Universe:    universe,
		Book:        book,
		BuyingPower: buyingPower,
		Prices:      prices,
		Trades:      trades,
		Fees:        fees,
		Notifier:    notifier,
	}, nil
}
