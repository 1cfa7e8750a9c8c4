package entity

import "strings"

// Chain identifies a supported network.
type Chain string

const (
	ChainChia Chain = "chia"
	ChainBase Chain = "base"
)

// ParseChain maps a request parameter onto a known chain.
func ParseChain(s string) (Chain, bool) {
	switch Chain(strings.ToLower(strings.TrimSpace(s))) {
	case ChainChia:
		return ChainChia, true
	case ChainBase:
		return ChainBase, true
	}
	return "", false
}

// NativeKey returns the merge key reserved for the chain's gas token.
// It never collides with a contract address or CAT asset id.
func NativeKey(c Chain) string {
	switch c {
	case ChainChia:
		return "XCH_NATIVE"
	case ChainBase:
		return "ETH_NATIVE"
	}
	return strings.ToUpper(string(c)) + "_NATIVE"
}

// Asset is a fungible unit on one chain. (Chain, AssetID) is unique.
type Asset struct {
	AssetID  string `json:"assetId"`
	Chain    Chain  `json:"chain"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	Native   bool   `json:"native,omitempty"`
}

// Key is the identity used when merging balances. Assets without a
// canonical identifier fall back to their symbol.
func (a Asset) Key() string {
	if a.Native {
		return NativeKey(a.Chain)
	}
	if id := strings.TrimSpace(a.AssetID); id != "" {
		return strings.ToLower(id)
	}
	return "symbol:" + strings.ToUpper(strings.TrimSpace(a.Symbol))
}

// TokenInfo is a tracked token definition loaded from data files or built-ins.
type TokenInfo struct {
	Chain    Chain    `json:"chain"`
	Address  string   `json:"address"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Decimals uint8    `json:"decimals"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Asset converts the definition into the shared asset shape.
func (t TokenInfo) Asset() Asset {
	return Asset{AssetID: t.Address, Chain: t.Chain, Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals}
}

// WrappedXCHSymbol marks the Base token pegged to XCH.
const WrappedXCHSymbol = "wXCH"

// IsWrappedXCH reports whether t is the Base token pegged to XCH.
func (t TokenInfo) IsWrappedXCH() bool {
	return t.Chain == ChainBase && strings.EqualFold(t.Symbol, WrappedXCHSymbol)
}

// Matches reports whether name equals the token's name, symbol or one of its aliases.
func (t TokenInfo) Matches(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if strings.EqualFold(t.Name, name) || strings.EqualFold(t.Symbol, name) {
		return true
	}
	for _, a := range t.Aliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}
