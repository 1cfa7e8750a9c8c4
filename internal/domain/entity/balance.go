package entity

import "math/big"

// BalanceKind classifies a holding row.
type BalanceKind string

const (
	KindNative BalanceKind = "native"
	KindCAT    BalanceKind = "cat"
	KindERC20  BalanceKind = "erc20"
	KindLP     BalanceKind = "lp"
)

// Balance is a holding of one asset by one wallet.
type Balance struct {
	Wallet    string      `json:"wallet,omitempty"`
	Asset     Asset       `json:"asset"`
	Kind      BalanceKind `json:"type"`
	RawAmount *big.Int    `json:"-"`
	Amount    float64     `json:"balance"`
	PriceUSD  float64     `json:"price"`
	ValueUSD  float64     `json:"value"`
	Contract  string      `json:"contract,omitempty"`
	// Source of PriceUSD, SourceNone when unpriced.
	PriceSource PriceSource `json:"priceSource,omitempty"`
}

// Priced returns a copy of b valued at q. An invalid quote leaves the value at 0.
func (b Balance) Priced(q PriceQuote) Balance {
	if !q.Valid() {
		b.PriceUSD, b.ValueUSD, b.PriceSource = 0, 0, SourceNone
		return b
	}
	b.PriceUSD = q.Price
	b.ValueUSD = b.Amount * q.Price
	b.PriceSource = q.Source
	return b
}
