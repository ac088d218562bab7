package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/config"
	"github.com/yarno/alpacabot/internal/domain"
)

// TradeMode places the configured trade, waits for a fill window, and runs
// the fee simulator on the resulting order.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies) error {
	req := tradeRequestFromConfig(a.cfg.Trade)

	order, err := deps.Trades.OpenTrade(ctx, req)
	if err != nil {
		// Validation rejections are reported, not escalated: the request
		// was refused, the process is fine.
		if isValidationError(err) {
			a.logger.InfoContext(ctx, "trade request rejected",
				slog.String("ticker", req.Ticker),
				slog.String("reason", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("app: open trade: %w", err)
	}

	// Give the order a moment to fill before simulating its cost.
	select {
	case <-time.After(a.cfg.Trade.FillWait.Duration):
	case <-ctx.Done():
		return ctx.Err()
	}

	report, err := deps.Fees.Simulate(ctx, order.ID)
	if err != nil {
		return fmt.Errorf("app: fee simulation: %w", err)
	}

	if !report.Filled {
		a.logger.InfoContext(ctx, "order not filled within wait window",
			slog.String("order_id", order.ID),
			slog.String("status", string(report.Status)),
			slog.Bool("expired", report.Expired),
		)
		return nil
	}

	a.logger.InfoContext(ctx, "trade cost simulated",
		slog.String("order_id", order.ID),
		slog.String("slippage_usd", report.Slippage.String()),
		slog.String("fee_usd", report.Fee.String()),
		slog.String("total_usd", report.Total.String()),
	)
	_ = deps.Notifier.Notify(ctx, "fee_report", "Trade cost",
		fmt.Sprintf("%s: slippage %s + fee %s = %s USD",
			order.Symbol, report.Slippage, report.Fee, report.Total))

	return nil
}

// ValidateMode runs the validator and builder on the configured trade and
// logs the payload that would be submitted, without calling the brokerage
// order endpoint.
func (a *App) ValidateMode(ctx context.Context, deps *Dependencies) error {
	req := tradeRequestFromConfig(a.cfg.Trade)

	payload, err := deps.Trades.Validate(ctx, req)
	if err != nil {
		if isValidationError(err) {
			a.logger.InfoContext(ctx, "trade request rejected",
				slog.String("ticker", req.Ticker),
				slog.String("reason", err.Error()),
			)
			return nil
		}
		return fmt.Errorf("app: validate trade: %w", err)
	}

	body, _ := json.MarshalIndent(payload, "", "  ")
	a.logger.InfoContext(ctx, "trade request valid",
		slog.String("ticker", req.Ticker),
		slog.String("order_class", string(payload.OrderClass)),
		slog.String("time_in_force", string(payload.TimeInForce)),
	)
	fmt.Println(string(body))

	return nil
}

// tradeRequestFromConfig maps the loose TOML trade section onto a domain
// request, treating zero-valued numerics as unset.
func tradeRequestFromConfig(tc config.TradeConfig) domain.TradeRequest {
	req := domain.TradeRequest{
		Ticker: tc.Ticker,
		Type:   domain.OrderType(tc.Type),
		Side:   domain.OrderSide(tc.Side),
	}
	req.Notional = optFromFloat(tc.Notional)
	req.Qty = optFromFloat(tc.Qty)
	req.LimitPrice = optFromFloat(tc.LimitPrice)
	req.TakeProfit = optFromFloat(tc.TakeProfit)
	req.StopLoss = optFromFloat(tc.StopLoss)
	return req
}

func optFromFloat(v float64) *decimal.Decimal {
	if v == 0 {
		return nil
	}
	d := decimal.NewFromFloat(v)
	return &d
}

// validationErrors are the rejection outcomes of the trade validator.
var validationErrors = []error{
	domain.ErrMissingSize,
	domain.ErrUnsupportedAsset,
	domain.ErrInvalidSide,
	domain.ErrInvalidType,
	domain.ErrInsufficientFunds,
	domain.ErrMissingLimitPrice,
	domain.ErrBracketNeedsWholeQty,
	domain.ErrBracketUnsupported,
}

func isValidationError(err error) bool {
	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
