package service

import (
	"fmt"
	"math"

	"treasury_checker/internal/domain/entity"
)

// Compare classifies the spread between the Chia price a and the Base price b.
// The percentage is taken relative to b, so a positive value means the asset
// is cheaper on Chia.
func Compare(a, b float64) entity.Arbitrage {
	arb := entity.Arbitrage{PriceA: a, PriceB: b, Class: entity.ArbitrageNone}
	if a <= 0 || b <= 0 {
		return arb
	}
	arb.Comparable = true
	arb.Diff = b - a
	arb.DiffPercent = arb.Diff / b * 100

	switch {
	case arb.DiffPercent > 0:
		arb.Class = entity.ArbitrageCheaper
		arb.Label = fmt.Sprintf("%.1f%% cheaper", arb.DiffPercent)
	case arb.DiffPercent < 0:
		arb.Class = entity.ArbitragePremium
		arb.Label = fmt.Sprintf("%.1f%% premium", math.Abs(arb.DiffPercent))
	default:
		arb.Label = "0.0% diff"
	}
	return arb
}
