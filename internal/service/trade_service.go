package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/domain"
)

// Quoter returns a live execution-cost estimate for one side of the book.
type Quoter interface {
	LatestPrice(ctx context.Context, ticker string, side domain.OrderSide) (decimal.Decimal, error)
}

// Broker submits validated order payloads to the brokerage.
type Broker interface {
	SubmitOrder(ctx context.Context, payload domain.OrderPayload) (domain.Order, error)
}

// Notifier delivers trade lifecycle events to the configured channels.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// TradeService validates trade requests against asset-class rules and
// affordability, builds the matching order payload, submits it, and records
// the order with a submission-time price snapshot in the trade book.
type TradeService struct {
	quoter      Quoter
	broker      Broker
	universe    *domain.Universe
	book        *domain.TradeBook
	buyingPower decimal.Decimal
	notifier    Notifier
	logger      *slog.Logger
}

// NewTradeService creates a TradeService. buyingPower is the account value
// fetched once at startup; the affordability check is a point-in-time
// estimate against it, not atomic with submission.
func NewTradeService(
	quoter Quoter,
	broker Broker,
	universe *domain.Universe,
	book *domain.TradeBook,
	buyingPower decimal.Decimal,
	logger *slog.Logger,
) *TradeService {
	return &TradeService{
		quoter:      quoter,
		broker:      broker,
		universe:    universe,
		book:        book,
		buyingPower: buyingPower,
		logger:      logger.With(slog.String("component", "trade_service")),
	}
}

// WithNotifier attaches a notifier for order lifecycle events. Without one,
// events are only logged.
func (s *TradeService) WithNotifier(n Notifier) *TradeService {
	s.notifier = n
	return s
}

// Validate runs the full validation sequence on a trade request and, when it
// passes, returns the order payload that OpenTrade would submit. The checks
// short-circuit on the first failure; each failure maps to a distinct
// sentinel error in the domain package. Validation performs no submission,
// so validating the same request twice under unchanged market state yields
// the same decision and payload shape.
func (s *TradeService) Validate(ctx context.Context, req domain.TradeRequest) (domain.OrderPayload, error) {
	// Sizing: exactly one of notional and qty.
	if (req.Notional == nil) == (req.Qty == nil) {
		return domain.OrderPayload{}, fmt.Errorf("trade_service: %s: %w", req.Ticker, domain.ErrMissingSize)
	}

	// Asset must be in one of the two tradable universes.
	if !s.universe.IsTradable(req.Ticker) {
		return domain.OrderPayload{}, fmt.Errorf("trade_service: %s: %w", req.Ticker, domain.ErrUnsupportedAsset)
	}
	isCrypto := s.universe.IsCrypto(req.Ticker)

	if !req.Side.Valid() {
		return domain.OrderPayload{}, fmt.Errorf("trade_service: %q: %w", req.Side, domain.ErrInvalidSide)
	}
	if !req.Type.Valid() {
		return domain.OrderPayload{}, fmt.Errorf("trade_service: %q: %w", req.Type, domain.ErrInvalidType)
	}

	if err := s.checkAffordability(ctx, req, isCrypto); err != nil {
		return domain.OrderPayload{}, err
	}

	if req.Type == domain.OrderTypeLimit && req.LimitPrice == nil {
		return domain.OrderPayload{}, fmt.Errorf("trade_service: %s: %w", req.Ticker, domain.ErrMissingLimitPrice)
	}

	// Bracket legs: never for crypto, and only on whole-share quantities
	// for equities.
	if req.HasBracketLeg() {
		if isCrypto {
			return domain.OrderPayload{}, fmt.Errorf("trade_service: %s: %w", req.Ticker, domain.ErrBracketUnsupported)
		}
		if !req.WholeQty() {
			return domain.OrderPayload{}, fmt.Errorf("trade_service: %s: %w", req.Ticker, domain.ErrBracketNeedsWholeQty)
		}
	}

	return s.buildPayload(req, isCrypto), nil
}

// checkAffordability estimates the order's dollar value and compares it
// against the cached buying power. Quantity-sized requests are converted via
// a live quote; crypto quantities are denominated in the base token and go
// through that token's USD pair.
func (s *TradeService) checkAffordability(ctx context.Context, req domain.TradeRequest, isCrypto bool) error {
	if req.Notional != nil {
		if req.Notional.GreaterThan(s.buyingPower) {
			return fmt.Errorf("trade_service: notional %s exceeds buying power %s: %w",
				req.Notional, s.buyingPower, domain.ErrInsufficientFunds)
		}
		return nil
	}

	priceSymbol := req.Ticker
	if isCrypto {
		priceSymbol = domain.USDPair(domain.BaseToken(req.Ticker))
	}
	price, err := s.quoter.LatestPrice(ctx, priceSymbol, req.Side)
	if err != nil {
		return fmt.Errorf("trade_service: affordability check for %s: %w", req.Ticker, err)
	}

	estimate := req.Qty.Mul(price)
	if estimate.GreaterThan(s.buyingPower) {
		return fmt.Errorf("trade_service: estimated value %s exceeds buying power %s: %w",
			estimate, s.buyingPower, domain.ErrInsufficientFunds)
	}
	return nil
}

// buildPayload assembles the brokerage order body for a validated request.
// The field set follows the order-class decision table: simple orders carry
// no legs, one-triggers-other exactly one, brackets both; crypto orders are
// always simple and always good-until-canceled.
func (s *TradeService) buildPayload(req domain.TradeRequest, isCrypto bool) domain.OrderPayload {
	payload := domain.OrderPayload{
		Symbol:        req.Ticker,
		Qty:           req.Qty,
		Notional:      req.Notional,
		Side:          req.Side,
		Type:          req.Type,
		TimeInForce:   deriveTimeInForce(req, isCrypto),
		OrderClass:    req.OrderClass(),
		ClientOrderID: uuid.NewString(),
	}
	if req.Type == domain.OrderTypeLimit {
		payload.LimitPrice = req.LimitPrice
	}
	if req.TakeProfit != nil {
		payload.TakeProfit = &domain.TakeProfitLeg{LimitPrice: *req.TakeProfit}
	}
	if req.StopLoss != nil {
		payload.StopLoss = &domain.StopLossLeg{StopPrice: *req.StopLoss}
	}
	return payload
}

// deriveTimeInForce applies the asset-class TIF policy: crypto is always
// gtc; equities default fractional or notional-sized orders to day and
// whole-share quantities to gtc.
func deriveTimeInForce(req domain.TradeRequest, isCrypto bool) domain.TimeInForce {
	if isCrypto {
		return domain.TimeInForceGTC
	}
	if req.WholeQty() {
		return domain.TimeInForceGTC
	}
	return domain.TimeInForceDay
}

// OpenTrade validates the request, submits the resulting payload, and
// records the returned order together with its submission price snapshot.
// Validation failures are reported to the caller and never reach the broker.
func (s *TradeService) OpenTrade(ctx context.Context, req domain.TradeRequest) (domain.Order, error) {
	payload, err := s.Validate(ctx, req)
	if err != nil {
		s.logger.WarnContext(ctx, "trade rejected",
			slog.String("ticker", req.Ticker),
			slog.String("error", err.Error()),
		)
		s.notify(ctx, "order_rejected", "Order rejected",
			fmt.Sprintf("%s %s %s: %v", req.Side, req.Type, req.Ticker, err))
		return domain.Order{}, err
	}

	order, err := s.broker.SubmitOrder(ctx, payload)
	if err != nil {
		return domain.Order{}, fmt.Errorf("trade_service: submit %s: %w", req.Ticker, err)
	}

	snap, snapErr := s.takeSnapshot(ctx, req)
	if snapErr != nil {
		// The order is already a fact at the brokerage, so it is still
		// recorded, but without a snapshot: a partial or zero-valued one
		// would feed the fee simulator wrong prices. The simulator's
		// snapshot lookup fails instead.
		s.logger.WarnContext(ctx, "price snapshot failed",
			slog.String("order_id", order.ID),
			slog.String("error", snapErr.Error()),
		)
		s.book.RecordOrder(order)
	} else {
		s.book.Record(order, snap)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("order_id", order.ID),
		slog.String("ticker", order.Symbol),
		slog.String("side", string(order.Side)),
		slog.String("type", string(order.Type)),
		slog.String("class", string(payload.OrderClass)),
		slog.String("time_in_force", string(payload.TimeInForce)),
	)
	s.notify(ctx, "order_submitted", "Order submitted",
		fmt.Sprintf("%s %s %s (%s, %s) id=%s",
			req.Side, req.Type, req.Ticker, payload.OrderClass, payload.TimeInForce, order.ID))

	return order, nil
}

// takeSnapshot records the prices needed by the fee simulator: a live quote
// at submission, the expected fill price (a second, fresh quote for market
// orders, the limit price otherwise), and the quote token's USD rate for
// crypto pairs not quoted in a USD stable.
func (s *TradeService) takeSnapshot(ctx context.Context, req domain.TradeRequest) (domain.PriceSnapshot, error) {
	atSubmission, err := s.quoter.LatestPrice(ctx, req.Ticker, req.Side)
	if err != nil {
		return domain.PriceSnapshot{}, err
	}

	snap := domain.PriceSnapshot{PriceAtSubmission: atSubmission}
	if req.Type == domain.OrderTypeLimit {
		snap.PriceAtFill = *req.LimitPrice
	} else {
		atFill, err := s.quoter.LatestPrice(ctx, req.Ticker, req.Side)
		if err != nil {
			return snap, err
		}
		snap.PriceAtFill = atFill
	}

	if s.universe.IsCrypto(req.Ticker) && !domain.IsUSDQuoted(req.Ticker) {
		rate, err := s.quoter.LatestPrice(ctx, domain.USDPair(domain.QuoteToken(req.Ticker)), req.Side)
		if err != nil {
			return snap, err
		}
		snap.CrossRate = &rate
	}

	return snap, nil
}

func (s *TradeService) notify(ctx context.Context, event, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, title, message); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}
