package entity

import "math/big"

// PoolState is the raw on-chain state of a two-asset pool.
type PoolState struct {
	Pool        string   `json:"pool"`
	Token0      string   `json:"token0"`
	Token1      string   `json:"token1"`
	Reserve0    *big.Int `json:"-"`
	Reserve1    *big.Int `json:"-"`
	TotalSupply *big.Int `json:"-"`
	Decimals    uint8    `json:"decimals"`
	Symbol0     string   `json:"symbol0"`
	Symbol1     string   `json:"symbol1"`
	Decimals0   uint8    `json:"decimals0"`
	Decimals1   uint8    `json:"decimals1"`
}

// LiquidityPosition is a wallet's valued share of a pool.
type LiquidityPosition struct {
	Pool         string     `json:"pool"`
	PairAssets   [2]Asset   `json:"pairAssets"`
	Reserves     [2]float64 `json:"reserves"`
	TotalSupply  float64    `json:"totalSupply"`
	UserTokens   float64    `json:"userTokens"`
	UserShare    float64    `json:"userShare"`
	Prices       [2]float64 `json:"prices"`
	PoolValueUSD float64    `json:"poolValueUsd"`
	ValueUSD     float64    `json:"valueUsd"`
	// Approximated is set when only one side was priced and the pool was valued at twice that side.
	Approximated bool `json:"approximated,omitempty"`
}

// PairName renders "SYM0/SYM1".
func (p LiquidityPosition) PairName() string {
	return p.PairAssets[0].Symbol + "/" + p.PairAssets[1].Symbol
}
