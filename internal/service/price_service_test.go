package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarno/alpacabot/internal/domain"
)

// stubQuoteClient records which endpoint each symbol was routed to. A set
// err fails every call.
type stubQuoteClient struct {
	quotes map[string]domain.Quote
	err    error
	stock  []string
	crypto []string
}

func (c *stubQuoteClient) LatestStockQuote(_ context.Context, symbol string) (domain.Quote, error) {
	c.stock = append(c.stock, symbol)
	if c.err != nil {
		return domain.Quote{}, c.err
	}
	q, ok := c.quotes[symbol]
	if !ok {
		return domain.Quote{}, fmt.Errorf("stub: %s: %w", symbol, domain.ErrQuoteUnavailable)
	}
	return q, nil
}

func (c *stubQuoteClient) LatestCryptoQuote(_ context.Context, symbol string) (domain.Quote, error) {
	c.crypto = append(c.crypto, symbol)
	if c.err != nil {
		return domain.Quote{}, c.err
	}
	q, ok := c.quotes[symbol]
	if !ok {
		return domain.Quote{}, fmt.Errorf("stub: %s: %w", symbol, domain.ErrQuoteUnavailable)
	}
	return q, nil
}

func newPriceFixture() (*PriceService, *stubQuoteClient) {
	universe := domain.NewUniverse(
		[]domain.Asset{{Symbol: "AAPL", Class: domain.AssetClassEquity, Tradable: true}},
		[]domain.Asset{{Symbol: "BTC/USD", Class: domain.AssetClassCrypto, Tradable: true}},
	)
	client := &stubQuoteClient{quotes: map[string]domain.Quote{
		"AAPL":    {Bid: decimal.RequireFromString("145.20"), Ask: decimal.RequireFromString("145.25")},
		"BTC/USD": {Bid: decimal.RequireFromString("59990"), Ask: decimal.RequireFromString("60010")},
	}}
	return NewPriceService(client, universe, testLogger()), client
}

func TestLatestPriceSideSelection(t *testing.T) {
	svc, _ := newPriceFixture()

	buy, err := svc.LatestPrice(context.Background(), "AAPL", domain.OrderSideBuy)
	require.NoError(t, err)
	assert.True(t, buy.Equal(decimal.RequireFromString("145.25")), "a buy pays the ask")

	sell, err := svc.LatestPrice(context.Background(), "AAPL", domain.OrderSideSell)
	require.NoError(t, err)
	assert.True(t, sell.Equal(decimal.RequireFromString("145.20")), "a sell receives the bid")
}

func TestLatestPriceRoutesByAssetClass(t *testing.T) {
	svc, client := newPriceFixture()

	_, err := svc.LatestPrice(context.Background(), "AAPL", domain.OrderSideBuy)
	require.NoError(t, err)
	_, err = svc.LatestPrice(context.Background(), "BTC/USD", domain.OrderSideBuy)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL"}, client.stock)
	assert.Equal(t, []string{"BTC/USD"}, client.crypto)
}

func TestLatestPriceUpstreamFailure(t *testing.T) {
	svc, client := newPriceFixture()
	client.err = fmt.Errorf("stub: %w after 5 attempts", domain.ErrUpstreamRequest)

	_, err := svc.LatestPrice(context.Background(), "AAPL", domain.OrderSideBuy)

	// An exhausted upstream call is a quote failure too; the cause stays in
	// the chain for diagnostics.
	require.ErrorIs(t, err, domain.ErrQuoteUnavailable)
	require.ErrorIs(t, err, domain.ErrUpstreamRequest)
}

func TestLatestPriceUnknownTicker(t *testing.T) {
	svc, client := newPriceFixture()

	_, err := svc.LatestPrice(context.Background(), "ZZZZ", domain.OrderSideBuy)
	require.ErrorIs(t, err, domain.ErrQuoteUnavailable)
	assert.Empty(t, client.stock)
	assert.Empty(t, client.crypto)
}
