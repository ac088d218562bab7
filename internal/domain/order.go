package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderSide indicates whether this is a buy or sell.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Valid reports whether the side is one of the two accepted values.
func (s OrderSide) Valid() bool {
	return s == OrderSideBuy || s == OrderSideSell
}

// OrderType is the execution style of an order.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Valid reports whether the type is one of the two accepted values.
func (t OrderType) Valid() bool {
	return t == OrderTypeMarket || t == OrderTypeLimit
}

// TimeInForce controls how long an order stays working.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "day"
	TimeInForceGTC TimeInForce = "gtc"
)

// OrderClass describes the bracket-leg shape of an order.
type OrderClass string

const (
	// OrderClassSimple has no contingent legs.
	OrderClassSimple OrderClass = "simple"
	// OrderClassOTO (one-triggers-other) carries exactly one contingent leg.
	OrderClassOTO OrderClass = "oto"
	// OrderClassBracket carries both a take-profit and a stop-loss leg.
	OrderClassBracket OrderClass = "bracket"
)

// OrderStatus tracks the brokerage-side order lifecycle. The client treats
// it as read-only state fetched by id.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "new"
	OrderStatusAccepted        OrderStatus = "accepted"
	OrderStatusFilled          OrderStatus = "filled"
	OrderStatusPartiallyFilled OrderStatus = "partially_filled"
	OrderStatusExpired         OrderStatus = "expired"
	OrderStatusCanceled        OrderStatus = "canceled"
	OrderStatusRejected        OrderStatus = "rejected"
)

// TradeRequest is the loose user input to open a new trade. Exactly one of
// Notional (USD value) or Qty (shares/tokens) must be set; LimitPrice is
// required iff Type is limit; TakeProfit/StopLoss are only meaningful for
// US equities.
type TradeRequest struct {
	Ticker     string
	Type       OrderType
	Side       OrderSide
	Notional   *decimal.Decimal
	Qty        *decimal.Decimal
	LimitPrice *decimal.Decimal
	TakeProfit *decimal.Decimal
	StopLoss   *decimal.Decimal
}

// HasBracketLeg reports whether the request carries at least one contingent
// leg.
func (r TradeRequest) HasBracketLeg() bool {
	return r.TakeProfit != nil || r.StopLoss != nil
}

// OrderClass derives the order class from the requested legs: both legs make
// a bracket, one leg makes a one-triggers-other, none makes a simple order.
func (r TradeRequest) OrderClass() OrderClass {
	switch {
	case r.TakeProfit != nil && r.StopLoss != nil:
		return OrderClassBracket
	case r.TakeProfit != nil || r.StopLoss != nil:
		return OrderClassOTO
	default:
		return OrderClassSimple
	}
}

// WholeQty reports whether the request is sized with a whole-share quantity.
// Notional-sized requests are never whole-qty.
func (r TradeRequest) WholeQty() bool {
	return r.Qty != nil && r.Qty.IsInteger()
}

// TakeProfitLeg is the contingent take-profit limit order of a bracket.
type TakeProfitLeg struct {
	LimitPrice decimal.Decimal `json:"limit_price"`
}

// StopLossLeg is the contingent stop-loss order of a bracket.
type StopLossLeg struct {
	StopPrice decimal.Decimal `json:"stop_price"`
}

// OrderPayload is the brokerage order submission body. Exactly one of Qty and
// Notional is set; the leg pointers are only populated for oto/bracket
// classes.
type OrderPayload struct {
	Symbol        string           `json:"symbol"`
	Qty           *decimal.Decimal `json:"qty,omitempty"`
	Notional      *decimal.Decimal `json:"notional,omitempty"`
	Side          OrderSide        `json:"side"`
	Type          OrderType        `json:"type"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	TimeInForce   TimeInForce      `json:"time_in_force"`
	OrderClass    OrderClass       `json:"order_class"`
	TakeProfit    *TakeProfitLeg   `json:"take_profit,omitempty"`
	StopLoss      *StopLossLeg     `json:"stop_loss,omitempty"`
	ClientOrderID string           `json:"client_order_id,omitempty"`
}

// Order is the brokerage-owned order record.
type Order struct {
	ID             string
	ClientOrderID  string
	Symbol         string
	Side           OrderSide
	Type           OrderType
	Class          OrderClass
	Status         OrderStatus
	Qty            *decimal.Decimal
	Notional       *decimal.Decimal
	FilledQty      decimal.Decimal
	FilledAvgPrice decimal.Decimal
	LimitPrice     *decimal.Decimal
	SubmittedAt    time.Time
}

// Filled reports whether the order has been completely filled.
func (o Order) Filled() bool {
	return o.Status == OrderStatusFilled
}

// Terminal reports whether the order can no longer fill.
func (o Order) Terminal() bool {
	return o.Status == OrderStatusExpired ||
		o.Status == OrderStatusCanceled ||
		o.Status == OrderStatusRejected
}

// Position is an open brokerage position. It backs the alternate
// position-delta fee derivation; the simulator itself uses the volume-tiered
// schedule.
type Position struct {
	Symbol        string
	Qty           decimal.Decimal
	CostBasis     decimal.Decimal
	AvgEntryPrice decimal.Decimal
}

// Quote is a best bid / best ask pair from the market data API.
type Quote struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}
