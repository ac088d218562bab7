package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/domain"
)

// OrderReader fetches live order state from the brokerage.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	ListOrders(ctx context.Context, after time.Time) ([]domain.Order, error)
}

// FeeService reconstructs the effective trading cost of a filled order:
// slippage against the submission-time price snapshot, plus, for crypto, a
// trading fee derived from trailing 30-day volume against the tiered
// maker/taker schedule.
type FeeService struct {
	orders   OrderReader
	quoter   Quoter
	universe *domain.Universe
	book     *domain.TradeBook
	now      func() time.Time
	logger   *slog.Logger
}

// NewFeeService creates a FeeService.
func NewFeeService(
	orders OrderReader,
	quoter Quoter,
	universe *domain.Universe,
	book *domain.TradeBook,
	logger *slog.Logger,
) *FeeService {
	return &FeeService{
		orders:   orders,
		quoter:   quoter,
		universe: universe,
		book:     book,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "fee_service")),
	}
}

// Simulate computes the USD cost of the order with the given id. An order
// that has not filled yet is a soft outcome: the report comes back with
// Filled=false (Expired=true for terminal non-fills) and no cost figures
// are computed. The computation reads live quotes, so repeated calls are
// not guaranteed to be byte-identical.
func (s *FeeService) Simulate(ctx context.Context, orderID string) (domain.FeeReport, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.FeeReport{}, fmt.Errorf("fee_service: get order %s: %w", orderID, err)
	}

	report := domain.FeeReport{OrderID: orderID, Status: order.Status}
	if !order.Filled() {
		report.Expired = order.Terminal()
		s.logger.InfoContext(ctx, "order not filled yet, fees computed upon fill",
			slog.String("order_id", orderID),
			slog.String("status", string(order.Status)),
		)
		return report, nil
	}
	report.Filled = true

	snap, ok := s.book.Snapshot(order.SubmittedAt)
	if !ok {
		return domain.FeeReport{}, fmt.Errorf("fee_service: no price snapshot for order %s: %w",
			orderID, domain.ErrOrderNotFound)
	}

	// Slippage between the expected and the actual fill price, scaled by
	// the filled quantity. For pairs quoted in a crypto base the result is
	// denominated in that base and converted through the stored cross-rate.
	slippage := snap.PriceAtFill.Sub(order.FilledAvgPrice).Abs().Mul(order.FilledQty)
	slippage = slippage.Mul(snap.CrossRateOrOne())
	report.Slippage = slippage

	// Equities carry no trading fee; the slippage is the whole cost.
	if !s.universe.IsCrypto(order.Symbol) {
		report.Total = slippage
		return report, nil
	}

	volume, err := s.trailingVolumeUSD(ctx)
	if err != nil {
		return domain.FeeReport{}, fmt.Errorf("fee_service: trailing volume: %w", err)
	}
	report.VolumeUSD = volume

	schedule := domain.TakerFees
	if order.Type == domain.OrderTypeLimit {
		schedule = domain.MakerFees
	}
	report.FeeRate = schedule.RateFor(volume)

	report.Fee = s.submissionNotionalUSD(order, snap).Mul(report.FeeRate)
	report.Total = slippage.Add(report.Fee)

	s.logger.InfoContext(ctx, "fee simulation complete",
		slog.String("order_id", orderID),
		slog.String("slippage_usd", report.Slippage.String()),
		slog.String("fee_usd", report.Fee.String()),
		slog.String("total_usd", report.Total.String()),
		slog.String("volume_usd", volume.String()),
	)

	return report, nil
}

// trailingVolumeUSD sums the USD value of every crypto order placed in the
// last 30 days. Each order is converted through its own side-appropriate
// live quote: quantity-sized orders via the base token's USD pair,
// notional-sized orders on non-USD-quoted pairs via the quote token's USD
// pair, and USD-quoted notionals as-is.
func (s *FeeService) trailingVolumeUSD(ctx context.Context) (decimal.Decimal, error) {
	monthAgo := s.now().Add(-30 * 24 * time.Hour)
	orders, err := s.orders.ListOrders(ctx, monthAgo)
	if err != nil {
		return decimal.Zero, err
	}

	volume := decimal.Zero
	for _, order := range orders {
		if !s.universe.IsCrypto(order.Symbol) {
			continue
		}
		value, err := s.orderValueUSD(ctx, order)
		if err != nil {
			return decimal.Zero, fmt.Errorf("convert order %s: %w", order.ID, err)
		}
		volume = volume.Add(value)
	}
	return volume, nil
}

// orderValueUSD estimates one historical order's USD value via live quotes.
func (s *FeeService) orderValueUSD(ctx context.Context, order domain.Order) (decimal.Decimal, error) {
	if order.Qty != nil {
		rate, err := s.quoter.LatestPrice(ctx, domain.USDPair(domain.BaseToken(order.Symbol)), order.Side)
		if err != nil {
			return decimal.Zero, err
		}
		return order.Qty.Mul(rate), nil
	}

	notional := decimal.Zero
	if order.Notional != nil {
		notional = *order.Notional
	}
	if domain.IsUSDQuoted(order.Symbol) {
		return notional, nil
	}
	rate, err := s.quoter.LatestPrice(ctx, domain.USDPair(domain.QuoteToken(order.Symbol)), order.Side)
	if err != nil {
		return decimal.Zero, err
	}
	return notional.Mul(rate), nil
}

// submissionNotionalUSD is the fee base: the order's value at submission
// time, taken from the stored snapshot. Quantity-sized orders use the pair
// price at submission; the cross-rate lifts non-USD-quoted values to
// dollars.
func (s *FeeService) submissionNotionalUSD(order domain.Order, snap domain.PriceSnapshot) decimal.Decimal {
	if order.Qty != nil {
		return order.Qty.Mul(snap.PriceAtSubmission).Mul(snap.CrossRateOrOne())
	}
	if order.Notional != nil {
		return order.Notional.Mul(snap.CrossRateOrOne())
	}
	return decimal.Zero
}
