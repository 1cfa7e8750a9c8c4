package entity

// BlockscoutAddress is the addresses/{address} response. CoinBalance is in wei.
type BlockscoutAddress struct {
	Hash         string     `json:"hash"`
	CoinBalance  FlexString `json:"coin_balance"`
	ExchangeRate FlexFloat  `json:"exchange_rate"`
}

// BlockscoutTokenBalance is one row of addresses/{address}/token-balances.
// Value is the raw integer amount.
type BlockscoutTokenBalance struct {
	Value FlexString `json:"value"`
	Token struct {
		AddressHash  FlexString `json:"address_hash"`
		Address      FlexString `json:"address"`
		Symbol       FlexString `json:"symbol"`
		Name         FlexString `json:"name"`
		Decimals     FlexString `json:"decimals"`
		ExchangeRate FlexFloat  `json:"exchange_rate"`
		Type         FlexString `json:"type"`
	} `json:"token"`
}

// BlockscoutTokenBalancesPage is the paginated variant of the token-balances response.
type BlockscoutTokenBalancesPage struct {
	Items []BlockscoutTokenBalance `json:"items"`
}
