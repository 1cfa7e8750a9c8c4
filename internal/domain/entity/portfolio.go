package entity

import "time"

// Wallet is a tracked address on one chain.
type Wallet struct {
	Address string `json:"address"`
	Chain   Chain  `json:"chain"`
	Label   string `json:"label,omitempty"`
}

// WalletSnapshot is the raw per-wallet result of a Chia treasury sweep.
type WalletSnapshot struct {
	Wallet     string          `json:"wallet"`
	XCHBalance float64         `json:"xchBal"`
	NFTs       []NFT           `json:"nfts"`
	Tokens     []CATHolding    `json:"tokens"`
	Balance    Lookup[float64] `json:"-"`
}

// CATHolding is one fungible token row reported by the Chia indexer.
type CATHolding struct {
	AssetID    string  `json:"asset_id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Balance    float64 `json:"balance"`
	Price      float64 `json:"price"`
	TotalValue float64 `json:"total_value"`
}

// Value is the reported total value, or balance x price when the indexer omitted it.
func (h CATHolding) Value() float64 {
	if h.TotalValue > 0 {
		return h.TotalValue
	}
	return h.Balance * h.Price
}

// AggregatedPortfolio is the merged view of many wallets on one network.
type AggregatedPortfolio struct {
	Chain         Chain              `json:"chain"`
	Holdings      map[string]Balance `json:"holdings"`
	TotalValueUSD float64            `json:"totalValueUsd"`
	Collections   []NFTCollection    `json:"collections,omitempty"`
	WalletCount   int                `json:"walletCount"`
	FetchedAt     time.Time          `json:"fetchedAt"`
}

// HoldingRow is the flattened holding shape returned to the dashboard.
type HoldingRow struct {
	Symbol       string      `json:"symbol"`
	Name         string      `json:"name"`
	Balance      float64     `json:"balance"`
	Price        float64     `json:"price"`
	Value        float64     `json:"value"`
	Type         BalanceKind `json:"type"`
	Contract     string      `json:"contract,omitempty"`
	PairName     string      `json:"pairName,omitempty"`
	TotalLiqUSD  float64     `json:"totalLiqUsd,omitempty"`
	UserSharePct float64     `json:"userSharePct,omitempty"`
	Token0       string      `json:"token0,omitempty"`
	Token1       string      `json:"token1,omitempty"`
	Price0       float64     `json:"price0,omitempty"`
	Price1       float64     `json:"price1,omitempty"`
}

// HoldingsReport is a wallet's holdings on one chain.
type HoldingsReport struct {
	Chain  Chain        `json:"chain"`
	Wallet string       `json:"wallet"`
	Tokens []HoldingRow `json:"tokens"`
	Total  float64      `json:"total"`
}
