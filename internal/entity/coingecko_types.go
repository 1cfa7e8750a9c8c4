package entity

// CoinGeckoSimplePrice is the simple/price response keyed by coin id.
type CoinGeckoSimplePrice map[string]struct {
	USD          FlexFloat `json:"usd"`
	USD24hChange FlexFloat `json:"usd_24h_change"`
	USDMarketCap FlexFloat `json:"usd_market_cap"`
}
