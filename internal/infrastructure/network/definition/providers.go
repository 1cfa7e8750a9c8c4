package networkdefinition

import (
	"fmt"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
)

// NetworkDefinitionProvider provides network definitions.
type NetworkDefinitionProvider struct {
	logger         port.Logger
	allNetworkDefs map[entity.Chain]entity.NetworkDefinition
	order          []entity.Chain
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Base = entity.NetworkDefinition{
		Chain:        entity.ChainBase,
		ChainID:      8453,
		Name:         "Base Mainnet",
		NativeSymbol: "ETH",
		NativeName:   "Ethereum",
		Decimals:     18,
		RPCURLs: []string{
			"https://base-rpc.publicnode.com",
			"https://base.llamarpc.com",
			"https://base.meowrpc.com",
		},
		BlockExplorerURL:          "https://base.blockscout.com",
		DEXScreenerChainID:        "base",
		GeckoTerminalNetwork:      "base",
		CoinGeckoID:               "ethereum",
		WrappedNativeTokenAddress: "0x4200000000000000000000000000000000000006", // WETH on Base
	}
	Chia = entity.NetworkDefinition{
		Chain:            entity.ChainChia,
		Name:             "Chia Mainnet",
		NativeSymbol:     "XCH",
		NativeName:       "Chia",
		Decimals:         12,
		BlockExplorerURL: "https://www.spacescan.io",
		CoinGeckoID:      "chia",
	}
)

// BuiltinTokens are the tracked tokens used when no token file overrides them.
var BuiltinTokens = map[entity.Chain][]entity.TokenInfo{ //nolint:gochecknoglobals
	entity.ChainChia: {
		{Chain: entity.ChainChia, Address: "a09af8b0d12b27772c64f89cf0d1db95186dca5b1871babc5108ff44f36305e6", Name: "Caster", Symbol: "✨❤️‍🔥🧙‍♂️", Decimals: 3},
		{Chain: entity.ChainChia, Address: "eb2155a177b6060535dd8e72e98ddb0c77aea21fab53737de1c1ced3cb38e4c4", Name: "Spellpower", Symbol: "⚡️🪄", Decimals: 3},
		{Chain: entity.ChainChia, Address: "ae1536f56760e471ad85ead45f00d680ff9cca73b8cc3407be778f1c0c606eac", Name: "Bytecash", Symbol: "💸", Decimals: 3, Aliases: []string{"Wizard Bucks", "$BYC"}},
		{Chain: entity.ChainChia, Address: "70010d83542594dd44314efbae75d82b3d9ae7d946921ed981a6cd08f0549e50", Name: "Love", Symbol: "❤️", Decimals: 3},
		{Chain: entity.ChainChia, Address: "ab558b1b841365a24d1ff2264c55982e55664a8b6e45bc107446b7e667bb463b", Name: "Sprout", Symbol: "🌱", Decimals: 3},
		{Chain: entity.ChainChia, Address: "dd37f678dda586fad9b1daeae1f7c5c137ffa6d947e1ed5c7b4f3c430da80638", Name: "Pizza", Symbol: "🍕", Decimals: 3},
	},
	entity.ChainBase: {
		{Chain: entity.ChainBase, Address: "0x36be1d329444aef5d28df3662ec5b4f965cd93e9", Name: "Wrapped XCH", Symbol: entity.WrappedXCHSymbol, Decimals: 18},
		{Chain: entity.ChainBase, Address: "0x09Aa909Eea859f712f2Ae3dd1872671D2363f6f4", Name: "Caster", Symbol: "✨❤️‍🔥🧙‍♂️", Decimals: 18},
		{Chain: entity.ChainBase, Address: "0x145F14b876051DC443dd18D5f8a7C48c5db75847", Name: "Spellpower", Symbol: "⚡️🪄", Decimals: 18},
		{Chain: entity.ChainBase, Address: "0x39916e508e389FBB4dDC3d1a38a5801f4eE253c7", Name: "Wizard Bucks", Symbol: "🧙💸", Decimals: 18, Aliases: []string{"Bytecash"}},
		{Chain: entity.ChainBase, Address: "0x817cAb331aaA4c24b4e32024FCa093AD40CBa208", Name: "Love", Symbol: "❤️", Decimals: 18},
		{Chain: entity.ChainBase, Address: "0xd1b771CB462a4B0e4d56Bb68b4bF832994CC8820", Name: "Sprout", Symbol: "🌱", Decimals: 18},
		{Chain: entity.ChainBase, Address: "0x84070f2c685b3d4B63c66f0B13fB83Fa6ccb4035", Name: "Pizza", Symbol: "🍕", Decimals: 18},
	},
}

// NewNetworkDefinitionProvider creates a new NetworkDefinitionProvider.
// rpcOverrides replaces a network's built-in RPC list when non-empty.
func NewNetworkDefinitionProvider(log port.Logger, rpcOverrides map[entity.Chain][]string) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:         log,
		allNetworkDefs: make(map[entity.Chain]entity.NetworkDefinition),
	}
	for _, def := range []entity.NetworkDefinition{Chia, Base} {
		if urls := rpcOverrides[def.Chain]; len(urls) > 0 {
			def.RPCURLs = append([]string(nil), urls...)
			log.Debug(fmt.Sprintf("RPC endpoints for %s overridden from config", def.Name), "count", len(urls))
		}
		p.allNetworkDefs[def.Chain] = def
		p.order = append(p.order, def.Chain)
	}
	log.Info("NetworkDefinitionProvider initialized", "networks", len(p.order))
	return p
}

// GetAllNetworkDefinitions returns every supported network.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.order))
	for _, c := range p.order {
		defs = append(defs, p.allNetworkDefs[c])
	}
	return defs
}

// GetNetworkDefinitionByName returns a network by chain name ("base", "chia").
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(name string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	chain, ok := entity.ParseChain(name)
	if !ok {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.allNetworkDefs[chain]
	return def, ok
}

// GetNetworkDefinitionByChainID returns an EVM network by chain id.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil || chainID == 0 {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.allNetworkDefs {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}
