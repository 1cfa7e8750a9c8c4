package entity

// NetworkDefinition holds the static description of a supported network.
type NetworkDefinition struct {
	Chain                     Chain    `json:"chain" yaml:"chain"`
	ChainID                   uint64   `json:"chainId,omitempty" yaml:"chainId,omitempty"`
	Name                      string   `json:"name" yaml:"name"`
	NativeSymbol              string   `json:"nativeSymbol" yaml:"nativeSymbol"`
	NativeName                string   `json:"nativeName" yaml:"nativeName"`
	Decimals                  uint8    `json:"decimals" yaml:"decimals"`
	RPCURLs                   []string `json:"rpcUrls,omitempty" yaml:"rpcUrls,omitempty"`
	BlockExplorerURL          string   `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
	DEXScreenerChainID        string   `json:"dexScreenerChainId,omitempty" yaml:"dexScreenerChainId,omitempty"`
	GeckoTerminalNetwork      string   `json:"geckoTerminalNetwork,omitempty" yaml:"geckoTerminalNetwork,omitempty"`
	CoinGeckoID               string   `json:"coinGeckoId" yaml:"coinGeckoId"`
	WrappedNativeTokenAddress string   `json:"wrappedNativeTokenAddress,omitempty" yaml:"wrappedNativeTokenAddress,omitempty"`
}

// NativeAsset describes the network's gas token.
func (n NetworkDefinition) NativeAsset() Asset {
	return Asset{
		AssetID:  NativeKey(n.Chain),
		Chain:    n.Chain,
		Symbol:   n.NativeSymbol,
		Name:     n.NativeName,
		Decimals: n.Decimals,
		Native:   true,
	}
}
