// Package alpaca is the REST client for the Alpaca trading and market data
// APIs. Every call is a blocking round trip guarded by the configured retry
// policy; authentication is via the APCA key-pair headers.
package alpaca

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/domain"
)

// Client talks to the Alpaca trading API (accounts, assets, orders,
// positions). Market data calls live in marketdata.go on the same client.
type Client struct {
	tradingURL string
	dataURL    string
	apiKey     string
	secretKey  string
	httpClient *http.Client
	retry      RetryPolicy
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithBaseURLs overrides the trading and market data hosts, e.g. to point at
// the paper endpoint or a test server.
func WithBaseURLs(tradingURL, dataURL string) Option {
	return func(c *Client) {
		c.tradingURL = tradingURL
		c.dataURL = dataURL
	}
}

// NewClient creates an Alpaca client for the live endpoints. Use WithBaseURLs
// to target the paper API.
func NewClient(apiKey, secretKey string, opts ...Option) *Client {
	c := &Client{
		tradingURL: "https://api.alpaca.markets",
		dataURL:    "https://data.alpaca.markets",
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retry:      DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// doRequest performs one HTTP round trip against the given host and returns
// the response body. 4xx responses are permanent; 5xx and transport errors
// are left retryable.
func (c *Client) doRequest(ctx context.Context, method, host, path string, query url.Values, body any) ([]byte, error) {
	reqURL := host + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, Permanent(fmt.Errorf("marshal body: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		errDetail := string(respBody)
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			errDetail = apiErr.Message
		}
		httpErr := fmt.Errorf("%s %s: %w", method, path, &statusError{status: resp.StatusCode, message: errDetail})
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, Permanent(httpErr)
		}
		return nil, httpErr
	}

	return respBody, nil
}

// statusError is a non-2xx API response.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.message)
}

// isNotFound reports whether err is a 404 API response.
func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.status == http.StatusNotFound
}

// get runs a GET under the retry policy.
func (c *Client) get(ctx context.Context, host, path string, query url.Values) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func() error {
		var reqErr error
		body, reqErr = c.doRequest(ctx, http.MethodGet, host, path, query, nil)
		return reqErr
	})
	return body, err
}

// post runs a POST under the retry policy.
func (c *Client) post(ctx context.Context, host, path string, payload any) ([]byte, error) {
	var body []byte
	err := c.retry.Do(ctx, func() error {
		var reqErr error
		body, reqErr = c.doRequest(ctx, http.MethodPost, host, path, nil, payload)
		return reqErr
	})
	return body, err
}

// GetBuyingPower returns the account's available buying power in USD.
func (c *Client) GetBuyingPower(ctx context.Context) (decimal.Decimal, error) {
	body, err := c.get(ctx, c.tradingURL, "/v2/account", nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("alpaca: get account: %w", err)
	}

	var account apiAccount
	if err := json.Unmarshal(body, &account); err != nil {
		return decimal.Zero, fmt.Errorf("alpaca: decode account: %w", err)
	}

	bp, err := decimal.NewFromString(account.BuyingPower)
	if err != nil {
		return decimal.Zero, fmt.Errorf("alpaca: parse buying power %q: %w", account.BuyingPower, err)
	}
	return bp, nil
}

// ListAssets returns the active assets of the given class.
func (c *Client) ListAssets(ctx context.Context, class domain.AssetClass) ([]domain.Asset, error) {
	query := url.Values{}
	query.Set("status", "active")
	query.Set("asset_class", string(class))

	body, err := c.get(ctx, c.tradingURL, "/v2/assets", query)
	if err != nil {
		return nil, fmt.Errorf("alpaca: list assets %s: %w", class, err)
	}

	var raw []apiAsset
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("alpaca: decode assets: %w", err)
	}

	assets := make([]domain.Asset, len(raw))
	for i, a := range raw {
		assets[i] = a.ToDomainAsset()
	}
	return assets, nil
}

// SubmitOrder posts an order payload and returns the created order record.
func (c *Client) SubmitOrder(ctx context.Context, payload domain.OrderPayload) (domain.Order, error) {
	body, err := c.post(ctx, c.tradingURL, "/v2/orders", payload)
	if err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: submit order %s: %w", payload.Symbol, err)
	}

	var raw apiOrder
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: decode order: %w", err)
	}

	order, err := raw.ToDomainOrder()
	if err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: map order: %w", err)
	}
	return order, nil
}

// GetOrder fetches the live order record by id.
func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	body, err := c.get(ctx, c.tradingURL, "/v2/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: get order %s: %w", id, err)
	}

	var raw apiOrder
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: decode order: %w", err)
	}

	order, err := raw.ToDomainOrder()
	if err != nil {
		return domain.Order{}, fmt.Errorf("alpaca: map order %s: %w", id, err)
	}
	return order, nil
}

// ListOrders returns all orders submitted after the given timestamp,
// newest first.
func (c *Client) ListOrders(ctx context.Context, after time.Time) ([]domain.Order, error) {
	query := url.Values{}
	query.Set("status", "all")
	query.Set("after", after.UTC().Format(time.RFC3339Nano))
	query.Set("direction", "desc")

	body, err := c.get(ctx, c.tradingURL, "/v2/orders", query)
	if err != nil {
		return nil, fmt.Errorf("alpaca: list orders: %w", err)
	}

	var raw []apiOrder
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("alpaca: decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(raw))
	for _, r := range raw {
		order, err := r.ToDomainOrder()
		if err != nil {
			return nil, fmt.Errorf("alpaca: map order %s: %w", r.ID, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// GetOpenPosition returns the open position for a symbol. Crypto pair
// symbols are queried without the slash, as the positions endpoint expects.
// A 404 maps to domain.ErrPositionNotFound.
func (c *Client) GetOpenPosition(ctx context.Context, symbol string) (domain.Position, error) {
	cleaned := symbolWithoutSlash(symbol)

	body, err := c.get(ctx, c.tradingURL, "/v2/positions/"+url.PathEscape(cleaned), nil)
	if err != nil {
		if isNotFound(err) {
			return domain.Position{}, fmt.Errorf("alpaca: position %s: %w", symbol, domain.ErrPositionNotFound)
		}
		return domain.Position{}, fmt.Errorf("alpaca: get position %s: %w", symbol, err)
	}

	var raw apiPosition
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.Position{}, fmt.Errorf("alpaca: decode position: %w", err)
	}

	pos, err := raw.ToDomainPosition()
	if err != nil {
		return domain.Position{}, fmt.Errorf("alpaca: map position %s: %w", symbol, err)
	}
	return pos, nil
}

// symbolWithoutSlash strips the pair separator: "ETH/BTC" -> "ETHBTC".
func symbolWithoutSlash(symbol string) string {
	out := make([]byte, 0, len(symbol))
	for i := 0; i < len(symbol); i++ {
		if symbol[i] != '/' {
			out = append(out, symbol[i])
		}
	}
	return string(out)
}
