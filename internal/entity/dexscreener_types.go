package entity

// DEXTokenPair is the wrapped response of latest/dex/tokens. tokens/v1 returns a bare []PairData.
type DEXTokenPair struct {
	SchemaVersion string     `json:"schemaVersion"`
	Pairs         []PairData `json:"pairs"`
}

// PairData is one DEX trading pair.
type PairData struct {
	ChainID     string          `json:"chainId"`
	DexID       string          `json:"dexId"`
	URL         string          `json:"url"`
	PairAddress string          `json:"pairAddress"`
	BaseToken   DEXToken        `json:"baseToken"`
	QuoteToken  DEXToken        `json:"quoteToken"`
	PriceNative FlexFloat       `json:"priceNative"`
	PriceUsd    FlexFloat       `json:"priceUsd"`
	Volume      PairVolume      `json:"volume"`
	PriceChange PairPriceChange `json:"priceChange"`
	Liquidity   *DEXLiquidity   `json:"liquidity"`
	Fdv         FlexFloat       `json:"fdv"`
	MarketCap   FlexFloat       `json:"marketCap"`
}

// DEXToken is one side of a pair.
type DEXToken struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// DEXLiquidity is pool depth.
type DEXLiquidity struct {
	Usd   FlexFloat `json:"usd"`
	Base  FlexFloat `json:"base"`
	Quote FlexFloat `json:"quote"`
}

// PairVolume is traded volume per window.
type PairVolume struct {
	M5  FlexFloat `json:"m5"`
	H1  FlexFloat `json:"h1"`
	H6  FlexFloat `json:"h6"`
	H24 FlexFloat `json:"h24"`
}

// PairPriceChange is percent change per window.
type PairPriceChange struct {
	M5  FlexFloat `json:"m5"`
	H1  FlexFloat `json:"h1"`
	H6  FlexFloat `json:"h6"`
	H24 FlexFloat `json:"h24"`
}

// LiquidityUSD returns the pair's USD depth, 0 when unknown.
func (p PairData) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.Usd.Float()
}
