package entity

// DexieTickers is the v2/prices/tickers response. Prices are quoted in XCH.
type DexieTickers struct {
	Tickers []struct {
		TickerID  FlexString `json:"ticker_id"`
		BaseID    FlexString `json:"base_id"`
		TargetID  FlexString `json:"target_id"`
		LastPrice FlexFloat  `json:"last_price"`
	} `json:"tickers"`
}

// DexieOffers is the v1/offers response. Offer prices are quoted in XCH.
type DexieOffers struct {
	Success bool `json:"success"`
	Offers  []struct {
		ID    FlexString `json:"id"`
		Price FlexFloat  `json:"price"`
	} `json:"offers"`
}
