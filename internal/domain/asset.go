package domain

import "strings"

// AssetClass distinguishes the two markets the client trades.
type AssetClass string

const (
	AssetClassEquity AssetClass = "us_equity"
	AssetClassCrypto AssetClass = "crypto"
)

// Asset describes a single tradable instrument as reported by the brokerage.
type Asset struct {
	Symbol   string
	Class    AssetClass
	Tradable bool
}

// Universe is a point-in-time snapshot of the tradable symbols for both asset
// classes, fetched once at startup and never refreshed during a run. A symbol
// that appears in neither set is unknown and must be rejected by callers.
type Universe struct {
	equities map[string]bool
	cryptos  map[string]bool
}

// NewUniverse builds a Universe from asset lists. Only tradable assets are
// admitted; the classes are kept mutually exclusive.
func NewUniverse(equities, cryptos []Asset) *Universe {
	u := &Universe{
		equities: make(map[string]bool, len(equities)),
		cryptos:  make(map[string]bool, len(cryptos)),
	}
	for _, a := range equities {
		if a.Tradable {
			u.equities[a.Symbol] = true
		}
	}
	for _, a := range cryptos {
		if a.Tradable {
			u.cryptos[a.Symbol] = true
		}
	}
	return u
}

// IsEquity reports whether symbol is a tradable US equity.
func (u *Universe) IsEquity(symbol string) bool {
	return u.equities[symbol]
}

// IsCrypto reports whether symbol is a tradable crypto pair.
func (u *Universe) IsCrypto(symbol string) bool {
	return u.cryptos[symbol]
}

// IsTradable reports whether symbol belongs to either universe.
func (u *Universe) IsTradable(symbol string) bool {
	return u.equities[symbol] || u.cryptos[symbol]
}

// Size returns the number of tradable equities and crypto pairs.
func (u *Universe) Size() (equities, cryptos int) {
	return len(u.equities), len(u.cryptos)
}

// usdStables are quote currencies treated as one dollar for sizing and fee
// purposes. A pair quoted in anything else (e.g. ETH/BTC) needs a cross-rate
// to express costs in USD.
var usdStables = map[string]bool{
	"USD":  true,
	"USDT": true,
	"USDC": true,
}

// BaseToken returns the traded token of a crypto pair: "ETH/BTC" -> "ETH".
// A symbol without a slash is returned unchanged.
func BaseToken(pair string) string {
	base, _, _ := strings.Cut(pair, "/")
	return base
}

// QuoteToken returns the pricing currency of a crypto pair:
// "ETH/BTC" -> "BTC". Returns "" for symbols without a slash.
func QuoteToken(pair string) string {
	_, quote, _ := strings.Cut(pair, "/")
	return quote
}

// USDPair returns the USD pair for a token: "ETH" -> "ETH/USD".
func USDPair(token string) string {
	return token + "/USD"
}

// IsUSDQuoted reports whether a crypto pair is priced in a USD stable.
// Pairs like ETH/BTC are not; their quotes, fees, and slippage must be
// converted through the quote token's own USD rate.
func IsUSDQuoted(pair string) bool {
	return usdStables[QuoteToken(pair)]
}
