package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestTradeRequestOrderClass(t *testing.T) {
	tests := []struct {
		name       string
		takeProfit *decimal.Decimal
		stopLoss   *decimal.Decimal
		want       OrderClass
	}{
		{"no legs", nil, nil, OrderClassSimple},
		{"take profit only", dec("150"), nil, OrderClassOTO},
		{"stop loss only", nil, dec("140"), OrderClassOTO},
		{"both legs", dec("150"), dec("140"), OrderClassBracket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := TradeRequest{TakeProfit: tt.takeProfit, StopLoss: tt.stopLoss}
			assert.Equal(t, tt.want, req.OrderClass())
			assert.Equal(t, tt.want != OrderClassSimple, req.HasBracketLeg())
		})
	}
}

func TestTradeRequestWholeQty(t *testing.T) {
	assert.True(t, TradeRequest{Qty: dec("10")}.WholeQty())
	assert.True(t, TradeRequest{Qty: dec("10.000")}.WholeQty())
	assert.False(t, TradeRequest{Qty: dec("0.5")}.WholeQty())
	assert.False(t, TradeRequest{Notional: dec("500")}.WholeQty())
	assert.False(t, TradeRequest{}.WholeQty())
}

func TestTradeBookRecordAndLookup(t *testing.T) {
	book := NewTradeBook()
	submitted := time.Date(2024, 4, 2, 15, 4, 5, 123456789, time.UTC)

	first := Order{ID: "ord-1", Symbol: "ETH/BTC", SubmittedAt: submitted}
	rate := decimal.RequireFromString("65000")
	book.Record(first, PriceSnapshot{
		PriceAtSubmission: decimal.RequireFromString("0.05"),
		PriceAtFill:       decimal.RequireFromString("0.05"),
		CrossRate:         &rate,
	})

	got, ok := book.OrderByID("ord-1")
	require.True(t, ok)
	assert.Equal(t, "ETH/BTC", got.Symbol)

	snap, ok := book.Snapshot(submitted)
	require.True(t, ok)
	assert.True(t, snap.CrossRateOrOne().Equal(rate))

	// Per-ticker entries are last-write-wins.
	second := Order{ID: "ord-2", Symbol: "ETH/BTC", SubmittedAt: submitted.Add(time.Minute)}
	book.Record(second, PriceSnapshot{})

	byTicker, ok := book.OrderByTicker("ETH/BTC")
	require.True(t, ok)
	assert.Equal(t, "ord-2", byTicker.ID)

	// The first order is still reachable by id.
	_, ok = book.OrderByID("ord-1")
	assert.True(t, ok)
	assert.Equal(t, 2, book.Len())
}

func TestTradeBookRecordOrderWithoutSnapshot(t *testing.T) {
	book := NewTradeBook()
	submitted := time.Date(2024, 4, 2, 15, 4, 5, 0, time.UTC)
	book.RecordOrder(Order{ID: "ord-1", Symbol: "AAPL", SubmittedAt: submitted})

	_, ok := book.OrderByID("ord-1")
	assert.True(t, ok)
	_, ok = book.Snapshot(submitted)
	assert.False(t, ok)
}

func TestSnapshotCrossRateDefaultsToOne(t *testing.T) {
	snap := PriceSnapshot{}
	assert.True(t, snap.CrossRateOrOne().Equal(decimal.NewFromInt(1)))
}
