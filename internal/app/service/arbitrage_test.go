package service

import (
	"math"
	"testing"

	"treasury_checker/internal/domain/entity"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		a, b  float64
		class entity.ArbitrageClass
		label string
		ok    bool
	}{
		{1.00, 1.10, entity.ArbitrageCheaper, "9.1% cheaper", true},
		{1.20, 1.00, entity.ArbitragePremium, "20.0% premium", true},
		{2, 2, entity.ArbitrageNone, "0.0% diff", true},
		{0, 1, entity.ArbitrageNone, "", false},
		{1, 0, entity.ArbitrageNone, "", false},
	}
	for _, c := range cases {
		got := Compare(c.a, c.b)
		if got.Class != c.class || got.Label != c.label || got.Comparable != c.ok {
			t.Fatalf("Compare(%v, %v) = %+v", c.a, c.b, got)
		}
	}
	if d := Compare(1, 1.1).DiffPercent; math.Abs(d-100.0/11) > 1e-9 {
		t.Fatalf("diffPercent = %v", d)
	}
}
