package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/domain"
)

// QuoteClient fetches the latest best bid/ask from the two market data
// endpoints.
type QuoteClient interface {
	LatestStockQuote(ctx context.Context, symbol string) (domain.Quote, error)
	LatestCryptoQuote(ctx context.Context, symbol string) (domain.Quote, error)
}

// PriceService is the quote provider: it routes a symbol to the equity or
// crypto endpoint based on the asset universe and picks the side of the book
// a marketable order would hit. Every call is a live network round trip;
// nothing is cached here.
type PriceService struct {
	quotes   QuoteClient
	universe *domain.Universe
	logger   *slog.Logger
}

// NewPriceService creates a PriceService.
func NewPriceService(quotes QuoteClient, universe *domain.Universe, logger *slog.Logger) *PriceService {
	return &PriceService{
		quotes:   quotes,
		universe: universe,
		logger:   logger.With(slog.String("component", "price_service")),
	}
}

// LatestPrice returns the best ask for a buy and the best bid for a sell,
// estimating the execution cost of a marketable order rather than the
// midpoint. Both an unclassified ticker and a failed upstream call surface
// as domain.ErrQuoteUnavailable; the upstream cause stays in the chain.
func (s *PriceService) LatestPrice(ctx context.Context, ticker string, side domain.OrderSide) (decimal.Decimal, error) {
	var (
		quote domain.Quote
		err   error
	)
	switch {
	case s.universe.IsEquity(ticker):
		quote, err = s.quotes.LatestStockQuote(ctx, ticker)
	case s.universe.IsCrypto(ticker):
		quote, err = s.quotes.LatestCryptoQuote(ctx, ticker)
	default:
		return decimal.Zero, fmt.Errorf("price_service: %s: %w", ticker, domain.ErrQuoteUnavailable)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("price_service: quote %s: %w: %w", ticker, domain.ErrQuoteUnavailable, err)
	}

	price := quote.Bid
	if side == domain.OrderSideBuy {
		price = quote.Ask
	}

	s.logger.DebugContext(ctx, "fetched latest price",
		slog.String("ticker", ticker),
		slog.String("side", string(side)),
		slog.String("price", price.String()),
	)

	return price, nil
}
