package alpaca

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yarno/alpacabot/internal/domain"
)

// apiAccount is the trading API account response. Monetary fields arrive as
// strings.
type apiAccount struct {
	ID          string `json:"id"`
	BuyingPower string `json:"buying_power"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

// apiAsset is a single entry of the assets listing.
type apiAsset struct {
	Symbol   string `json:"symbol"`
	Class    string `json:"class"`
	Status   string `json:"status"`
	Tradable bool   `json:"tradable"`
}

// ToDomainAsset converts the API asset to the domain model.
func (a apiAsset) ToDomainAsset() domain.Asset {
	return domain.Asset{
		Symbol:   a.Symbol,
		Class:    domain.AssetClass(a.Class),
		Tradable: a.Tradable,
	}
}

// apiOrder is the trading API order record. All numeric fields are decimal
// strings; optional ones are null.
type apiOrder struct {
	ID             string  `json:"id"`
	ClientOrderID  string  `json:"client_order_id"`
	Symbol         string  `json:"symbol"`
	Side           string  `json:"side"`
	Type           string  `json:"type"`
	OrderClass     string  `json:"order_class"`
	Status         string  `json:"status"`
	Qty            *string `json:"qty"`
	Notional       *string `json:"notional"`
	FilledQty      *string `json:"filled_qty"`
	FilledAvgPrice *string `json:"filled_avg_price"`
	LimitPrice     *string `json:"limit_price"`
	SubmittedAt    string  `json:"submitted_at"`
}

// ToDomainOrder converts the API order to the domain model.
func (o apiOrder) ToDomainOrder() (domain.Order, error) {
	qty, err := optDecimal(o.Qty)
	if err != nil {
		return domain.Order{}, fmt.Errorf("qty: %w", err)
	}
	notional, err := optDecimal(o.Notional)
	if err != nil {
		return domain.Order{}, fmt.Errorf("notional: %w", err)
	}
	limitPrice, err := optDecimal(o.LimitPrice)
	if err != nil {
		return domain.Order{}, fmt.Errorf("limit_price: %w", err)
	}

	filledQty := decimal.Zero
	if p, err := optDecimal(o.FilledQty); err != nil {
		return domain.Order{}, fmt.Errorf("filled_qty: %w", err)
	} else if p != nil {
		filledQty = *p
	}
	filledAvg := decimal.Zero
	if p, err := optDecimal(o.FilledAvgPrice); err != nil {
		return domain.Order{}, fmt.Errorf("filled_avg_price: %w", err)
	} else if p != nil {
		filledAvg = *p
	}

	submittedAt, err := time.Parse(time.RFC3339Nano, o.SubmittedAt)
	if err != nil {
		return domain.Order{}, fmt.Errorf("submitted_at: %w", err)
	}

	return domain.Order{
		ID:             o.ID,
		ClientOrderID:  o.ClientOrderID,
		Symbol:         o.Symbol,
		Side:           domain.OrderSide(o.Side),
		Type:           domain.OrderType(o.Type),
		Class:          domain.OrderClass(o.OrderClass),
		Status:         domain.OrderStatus(o.Status),
		Qty:            qty,
		Notional:       notional,
		FilledQty:      filledQty,
		FilledAvgPrice: filledAvg,
		LimitPrice:     limitPrice,
		SubmittedAt:    submittedAt.UTC(),
	}, nil
}

// apiPosition is the open-position response.
type apiPosition struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	CostBasis     string `json:"cost_basis"`
	AvgEntryPrice string `json:"avg_entry_price"`
}

// ToDomainPosition converts the API position to the domain model.
func (p apiPosition) ToDomainPosition() (domain.Position, error) {
	qty, err := decimal.NewFromString(p.Qty)
	if err != nil {
		return domain.Position{}, fmt.Errorf("qty: %w", err)
	}
	costBasis, err := decimal.NewFromString(p.CostBasis)
	if err != nil {
		return domain.Position{}, fmt.Errorf("cost_basis: %w", err)
	}
	avgEntry, err := decimal.NewFromString(p.AvgEntryPrice)
	if err != nil {
		return domain.Position{}, fmt.Errorf("avg_entry_price: %w", err)
	}
	return domain.Position{
		Symbol:        p.Symbol,
		Qty:           qty,
		CostBasis:     costBasis,
		AvgEntryPrice: avgEntry,
	}, nil
}

// apiQuote is a single latest-quote entry from the market data API. Unlike
// the trading API, prices here are JSON numbers.
type apiQuote struct {
	AskPrice float64 `json:"ap"`
	BidPrice float64 `json:"bp"`
}

// ToDomainQuote converts the API quote to the domain model.
func (q apiQuote) ToDomainQuote() domain.Quote {
	return domain.Quote{
		Bid: decimal.NewFromFloat(q.BidPrice),
		Ask: decimal.NewFromFloat(q.AskPrice),
	}
}

// optDecimal parses an optional decimal string, mapping null and "" to nil.
func optDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
