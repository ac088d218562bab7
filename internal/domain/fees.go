package domain

import "github.com/shopspring/decimal"

// FeeTier maps a trailing-volume band to a fee rate. A tier covers volumes
// in (previous cap, Cap]; the cap itself still belongs to the tier, so a
// trailing volume of exactly 100 000 USD pays the first tier's rate.
type FeeTier struct {
	Cap  decimal.Decimal // inclusive upper bound in USD; zero means unbounded
	Rate decimal.Decimal
}

// FeeSchedule is an ordered list of tiers, ascending by cap, with a final
// unbounded tier.
type FeeSchedule []FeeTier

// RateFor returns the fee rate for the given trailing 30-day USD volume.
func (s FeeSchedule) RateFor(volumeUSD decimal.Decimal) decimal.Decimal {
	for _, t := range s {
		if t.Cap.IsZero() || volumeUSD.LessThanOrEqual(t.Cap) {
			return t.Rate
		}
	}
	return decimal.Zero
}

func tier(capUSD int64, rateBps int64) FeeTier {
	return FeeTier{
		Cap:  decimal.NewFromInt(capUSD),
		Rate: decimal.NewFromInt(rateBps).Shift(-4),
	}
}

// TakerFees is the crypto fee schedule for orders that remove liquidity
// (market orders).
var TakerFees = FeeSchedule{
	tier(100_000, 25),
	tier(500_000, 22),
	tier(1_000_000, 20),
	tier(10_000_000, 18),
	tier(25_000_000, 15),
	tier(50_000_000, 13),
	tier(100_000_000, 12),
	{Rate: decimal.NewFromInt(10).Shift(-4)},
}

// MakerFees is the crypto fee schedule for orders that add liquidity
// (limit orders).
var MakerFees = FeeSchedule{
	tier(100_000, 15),
	tier(500_000, 12),
	tier(1_000_000, 10),
	tier(10_000_000, 8),
	tier(25_000_000, 5),
	tier(50_000_000, 2),
	tier(100_000_000, 2),
	{Rate: decimal.Zero},
}

// FeeReport is the outcome of a post-fill cost simulation. An order that has
// not filled yet produces a report with Filled=false and no cost figures;
// that is a valid outcome, not an error. US equities carry no trading fee,
// only slippage.
type FeeReport struct {
	OrderID  string
	Status   OrderStatus
	Filled   bool
	Expired  bool
	Slippage decimal.Decimal // USD
	Fee      decimal.Decimal // USD, zero for equities
	Total    decimal.Decimal // USD

	// Crypto fee inputs, recorded for transparency.
	VolumeUSD decimal.Decimal
	FeeRate   decimal.Decimal
}
