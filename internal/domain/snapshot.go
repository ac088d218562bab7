package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot captures the market at order submission time. PriceAtFill is
// a fresh quote for market orders (the true fill price is not yet known) and
// the limit price for limit orders. CrossRate is only set for crypto pairs
// quoted in a non-USD crypto (e.g. ETH/BTC): the quote token's own USD rate,
// needed later to express slippage and fees in dollars.
type PriceSnapshot struct {
	PriceAtSubmission decimal.Decimal
	PriceAtFill       decimal.Decimal
	CrossRate         *decimal.Decimal
}

// CrossRateOrOne returns the stored cross-rate, or one for USD-quoted pairs.
func (s PriceSnapshot) CrossRateOrOne() decimal.Decimal {
	if s.CrossRate != nil {
		return *s.CrossRate
	}
	return decimal.NewFromInt(1)
}

// TradeBook holds the orders placed during this run together with their
// submission-time price snapshots. It is owned by the caller and passed into
// the submit and simulate operations; nothing survives a restart.
//
// Orders are kept both by id and by ticker. The per-ticker entry is
// last-write-wins: callers that place several trades on one symbol must
// retain the returned order ids themselves. Snapshots are keyed by the
// order's submitted-at timestamp.
//
// The book is not safe for concurrent use; the client runs a single logical
// thread of control.
type TradeBook struct {
	byID      map[string]Order
	byTicker  map[string]Order
	snapshots map[int64]PriceSnapshot
}

// NewTradeBook returns an empty TradeBook.
func NewTradeBook() *TradeBook {
	return &TradeBook{
		byID:      make(map[string]Order),
		byTicker:  make(map[string]Order),
		snapshots: make(map[int64]PriceSnapshot),
	}
}

// Record stores an order and its submission snapshot.
func (b *TradeBook) Record(order Order, snap PriceSnapshot) {
	b.RecordOrder(order)
	b.snapshots[order.SubmittedAt.UnixNano()] = snap
}

// RecordOrder stores an order without a snapshot, for the case where the
// submission quote could not be fetched. A later fee simulation fails its
// snapshot lookup instead of computing costs from zero prices.
func (b *TradeBook) RecordOrder(order Order) {
	b.byID[order.ID] = order
	b.byTicker[order.Symbol] = order
}

// OrderByID returns the recorded order with the given id.
func (b *TradeBook) OrderByID(id string) (Order, bool) {
	o, ok := b.byID[id]
	return o, ok
}

// OrderByTicker returns the most recently recorded order for the symbol.
func (b *TradeBook) OrderByTicker(symbol string) (Order, bool) {
	o, ok := b.byTicker[symbol]
	return o, ok
}

// Snapshot returns the price snapshot taken at the given submission time.
func (b *TradeBook) Snapshot(submittedAt time.Time) (PriceSnapshot, bool) {
	s, ok := b.snapshots[submittedAt.UnixNano()]
	return s, ok
}

// Len returns the number of recorded orders.
func (b *TradeBook) Len() int {
	return len(b.byID)
}
