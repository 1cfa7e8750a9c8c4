package utils

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ScaleAmount converts a raw integer amount to a decimals-adjusted float.
// Example: amount=1234500000000000000, decimals=18 => 1.2345
func ScaleAmount(amount *big.Int, decimals uint8) float64 {
	if amount == nil || amount.Sign() == 0 {
		return 0
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).InexactFloat64()
}

// FormatBigInt renders a raw amount as a trimmed decimal string.
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// ParseBigInt parses a base-10 or 0x-prefixed integer. Invalid input yields nil.
func ParseBigInt(s string) *big.Int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
		if s == "" {
			return new(big.Int)
		}
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil
	}
	return v
}

// ParseDecimals parses a token decimals field, falling back to def.
func ParseDecimals(s string, def uint8) uint8 {
	v := ParseBigInt(s)
	if v == nil || v.Sign() < 0 || !v.IsUint64() || v.Uint64() > 77 {
		return def
	}
	return uint8(v.Uint64())
}

// RoundTo rounds f half away from zero to places decimal places.
func RoundTo(f float64, places int32) float64 {
	return decimal.NewFromFloat(f).Round(places).InexactFloat64()
}
