package entity

// ArbitrageClass is the direction of a cross-chain spread.
type ArbitrageClass string

const (
	ArbitrageCheaper ArbitrageClass = "cheaper"
	ArbitragePremium ArbitrageClass = "premium"
	ArbitrageNone    ArbitrageClass = "none"
)

// Arbitrage compares the price of one logical asset on two networks.
// The A side is Chia, the B side is Base.
type Arbitrage struct {
	PriceA      float64        `json:"priceA"`
	PriceB      float64        `json:"priceB"`
	Diff        float64        `json:"diff"`
	DiffPercent float64        `json:"diffPercent"`
	Class       ArbitrageClass `json:"class"`
	Label       string         `json:"label"`
	Comparable  bool           `json:"comparable"`
}

// MarketToken is one tracked token with its resolved quote.
type MarketToken struct {
	Token     TokenInfo  `json:"token"`
	Quote     PriceQuote `json:"quote"`
	Arbitrage *Arbitrage `json:"arbitrage,omitempty"`
	// Counterpart is the address of the matching token on the other chain.
	Counterpart string `json:"counterpart,omitempty"`
}

// MarketView is the two-chain market board.
// XCH and WXCH are featured separately and never appear in Chia or Base.
type MarketView struct {
	XCHUSD float64      `json:"xch_usd"`
	XCH    *MarketToken `json:"xch,omitempty"`
	WXCH   *MarketToken `json:"wxch,omitempty"`
	// WXCHPegPercent is (wXCH - XCH) / XCH * 100, nil when either price is unknown.
	WXCHPegPercent *float64      `json:"wxchPegPercent,omitempty"`
	Chia           []MarketToken `json:"chia"`
	Base           []MarketToken `json:"base"`
	Sort           string        `json:"sort"`
	Query          string        `json:"query,omitempty"`
}

// TreasuryOverview summarises every tracked treasury wallet.
type TreasuryOverview struct {
	Base        []HoldingRow    `json:"base"`
	Chia        []HoldingRow    `json:"chia"`
	BaseTotal   float64         `json:"baseTotal"`
	ChiaTotal   float64         `json:"chiaTotal"`
	Total       float64         `json:"total"`
	Collections []NFTCollection `json:"collections"`
	Errors      []string        `json:"errors,omitempty"`
}
