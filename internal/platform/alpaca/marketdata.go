package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/yarno/alpacabot/internal/domain"
)

// LatestStockQuote returns the latest best bid/ask for a US equity symbol.
func (c *Client) LatestStockQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	path := fmt.Sprintf("/v2/stocks/%s/quotes/latest", url.PathEscape(symbol))

	body, err := c.get(ctx, c.dataURL, path, nil)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: stock quote %s: %w", symbol, err)
	}

	var resp struct {
		Quote apiQuote `json:"quote"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: decode stock quote: %w", err)
	}

	return resp.Quote.ToDomainQuote(), nil
}

// LatestCryptoQuote returns the latest best bid/ask for a crypto pair such
// as "BTC/USD".
func (c *Client) LatestCryptoQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	body, err := c.get(ctx, c.dataURL, "/v1beta3/crypto/us/latest/quotes", query)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: crypto quote %s: %w", symbol, err)
	}

	var resp struct {
		Quotes map[string]apiQuote `json:"quotes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.Quote{}, fmt.Errorf("alpaca: decode crypto quotes: %w", err)
	}

	quote, ok := resp.Quotes[symbol]
	if !ok {
		return domain.Quote{}, fmt.Errorf("alpaca: crypto quote %s: %w", symbol, domain.ErrQuoteUnavailable)
	}
	return quote.ToDomainQuote(), nil
}
