package entity

// PriceSource tags the provider a quote came from.
type PriceSource string

const (
	SourceSpacescan     PriceSource = "spacescan"
	SourceXCHScan       PriceSource = "xchscan"
	SourceDexie         PriceSource = "dexie"
	SourceCoinGecko     PriceSource = "coingecko"
	SourceDEXScreener   PriceSource = "dexscreener"
	SourceGeckoTerminal PriceSource = "geckoterminal"
	SourceBlockscout    PriceSource = "blockscout"
	SourceOnChain       PriceSource = "onchain"
	SourceFallback      PriceSource = "fallback"
	SourceNone          PriceSource = "none"
)

// PriceQuote is a USD price lookup result.
type PriceQuote struct {
	Price     float64     `json:"price"`
	Change24h float64     `json:"change24h"`
	MarketCap float64     `json:"marketCap"`
	Source    PriceSource `json:"source"`
}

// Valid reports whether the quote may be surfaced. Non-positive prices never are.
func (q PriceQuote) Valid() bool {
	return q.Price > 0
}

// NoPrice is the resolved value when every source came back empty.
func NoPrice() PriceQuote {
	return PriceQuote{Source: SourceNone}
}
