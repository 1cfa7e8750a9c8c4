package service

import (
	"strings"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/utils"
)

// IsLPToken reports whether a token balance is a pool share token.
func IsLPToken(symbol, name string) bool {
	sym := strings.TrimSpace(symbol)
	if sym == "9mm-LP" || strings.Contains(sym, "-LP") || strings.Contains(sym, "UNI-V2") {
		return true
	}
	return strings.Contains(name, " LPs") && !strings.Contains(name, "Staked")
}

// ValuePosition values a user's share of a two-asset pool.
//
// Reserves are scaled by the underlying decimals and total supply by the pool
// token decimals. When only one side has a price the pool is assumed balanced
// and valued at twice the known side. A zero total supply yields a zero share.
func ValuePosition(state entity.PoolState, userTokens float64, prices [2]float64) entity.LiquidityPosition {
	pos := entity.LiquidityPosition{
		Pool: state.Pool,
		PairAssets: [2]entity.Asset{
			{AssetID: state.Token0, Chain: entity.ChainBase, Symbol: state.Symbol0, Decimals: state.Decimals0},
			{AssetID: state.Token1, Chain: entity.ChainBase, Symbol: state.Symbol1, Decimals: state.Decimals1},
		},
		Reserves: [2]float64{
			utils.ScaleAmount(state.Reserve0, state.Decimals0),
			utils.ScaleAmount(state.Reserve1, state.Decimals1),
		},
		TotalSupply: utils.ScaleAmount(state.TotalSupply, state.Decimals),
		UserTokens:  userTokens,
		Prices:      prices,
	}

	side0 := pos.Reserves[0] * positive(prices[0])
	side1 := pos.Reserves[1] * positive(prices[1])
	pos.PoolValueUSD = side0 + side1
	switch {
	case prices[0] > 0 && prices[1] <= 0:
		pos.PoolValueUSD, pos.Approximated = 2*side0, true
	case prices[1] > 0 && prices[0] <= 0:
		pos.PoolValueUSD, pos.Approximated = 2*side1, true
	}

	if pos.TotalSupply > 0 {
		pos.UserShare = userTokens / pos.TotalSupply
	}
	pos.ValueUSD = pos.PoolValueUSD * pos.UserShare
	return pos
}

func positive(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

// positionRow renders a valued position in the holdings table shape.
func positionRow(pos entity.LiquidityPosition, contract string) entity.HoldingRow {
	pair := pos.PairName()
	row := entity.HoldingRow{
		Symbol:       pair,
		Name:         pair + " LP",
		Balance:      pos.UserTokens,
		Value:        pos.ValueUSD,
		Type:         entity.KindLP,
		Contract:     contract,
		PairName:     pair,
		TotalLiqUSD:  pos.PoolValueUSD,
		UserSharePct: utils.RoundTo(pos.UserShare*100, 4),
		Token0:       pos.PairAssets[0].Symbol,
		Token1:       pos.PairAssets[1].Symbol,
		Price0:       pos.Prices[0],
		Price1:       pos.Prices[1],
	}
	if pos.UserTokens > 0 {
		row.Price = pos.ValueUSD / pos.UserTokens
	}
	return row
}
