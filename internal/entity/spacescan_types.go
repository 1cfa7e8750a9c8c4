package entity

// SpacescanCATInfo is the cat/info response.
type SpacescanCATInfo struct {
	Status string `json:"status"`
	Data   *struct {
		AmountPrice       FlexFloat  `json:"amount_price"`
		PricePercentage   FlexFloat  `json:"pricepercentage"`
		CirculatingSupply FlexFloat  `json:"circulating_supply"`
		TotalSupply       FlexFloat  `json:"total_supply"`
		MarketCap         FlexFloat  `json:"market_cap"`
		Symbol            FlexString `json:"symbol"`
		Name              FlexString `json:"name"`
	} `json:"data"`
}

// SpacescanXCHBalance is the address/xch-balance response.
type SpacescanXCHBalance struct {
	Status string     `json:"status"`
	XCH    *FlexFloat `json:"xch"`
	MOJO   FlexFloat  `json:"mojo"`
}

// SpacescanTokenBalance is the address/token-balance response.
type SpacescanTokenBalance struct {
	Status string `json:"status"`
	Data   []struct {
		AssetID    FlexString `json:"asset_id"`
		Name       FlexString `json:"name"`
		Symbol     FlexString `json:"symbol"`
		Balance    FlexFloat  `json:"balance"`
		Price      FlexFloat  `json:"price"`
		TotalValue FlexFloat  `json:"total_value"`
	} `json:"data"`
}

// SpacescanNFTBalance is the address/nft-balance response.
type SpacescanNFTBalance struct {
	Status  string `json:"status"`
	Balance []struct {
		NFTID        FlexString `json:"nft_id"`
		Name         FlexString `json:"name"`
		CollectionID FlexString `json:"collection_id"`
		PreviewURL   FlexString `json:"preview_url"`
	} `json:"balance"`
}
