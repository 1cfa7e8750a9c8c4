package entity

// GeckoTerminalToken is the networks/{network}/tokens/{address} response.
type GeckoTerminalToken struct {
	Data *struct {
		ID         string `json:"id"`
		Attributes struct {
			Address      FlexString `json:"address"`
			Name         FlexString `json:"name"`
			Symbol       FlexString `json:"symbol"`
			PriceUSD     FlexFloat  `json:"price_usd"`
			FDVUSD       FlexFloat  `json:"fdv_usd"`
			MarketCapUSD FlexFloat  `json:"market_cap_usd"`
		} `json:"attributes"`
	} `json:"data"`
}
