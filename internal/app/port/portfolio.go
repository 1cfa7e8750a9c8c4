package port

import (
	"context"

	"treasury_checker/internal/domain/entity"
)

// PriceBoard is the Chia market price board.
type PriceBoard struct {
	Prices  map[string]float64            `json:"prices"`
	Changes map[string]float64            `json:"changes"`
	Mcaps   map[string]float64            `json:"mcaps"`
	XCHUSD  float64                       `json:"xch_usd"`
	Sources map[string]entity.PriceSource `json:"sources"`
	Success bool                          `json:"success"`
	Error   string                        `json:"error,omitempty"`
}

// Quote returns the board entry of assetID as a quote.
func (b PriceBoard) Quote(assetID string) entity.PriceQuote {
	src, ok := b.Sources[assetID]
	if !ok {
		src = entity.SourceNone
	}
	return entity.PriceQuote{
		Price:     b.Prices[assetID],
		Change24h: b.Changes[assetID],
		MarketCap: b.Mcaps[assetID],
		Source:    src,
	}
}

// PriceService resolves asset prices through ordered fallback chains.
type PriceService interface {
	// ChiaPriceBoard prices every tracked CAT plus XCH.
	ChiaPriceBoard(ctx context.Context) PriceBoard
	// NativeQuote returns the USD price of a network's gas token.
	NativeQuote(ctx context.Context, chain entity.Chain) entity.PriceQuote
}

// TreasuryService sweeps Chia treasury wallets.
type TreasuryService interface {
	// WalletSnapshots fetches wallets one after another under the shared pacing.
	WalletSnapshots(ctx context.Context, wallets []string) []entity.WalletSnapshot
	// ChiaPortfolio returns the merged, cached Chia portfolio of wallets.
	ChiaPortfolio(ctx context.Context, wallets []string) (entity.AggregatedPortfolio, error)
}

// HoldingsService reports one wallet's holdings on one chain.
type HoldingsService interface {
	Holdings(ctx context.Context, chain entity.Chain, address string) (entity.HoldingsReport, error)
}

// MarketService builds the two-chain market board.
type MarketService interface {
	Market(ctx context.Context, sort, query string) (entity.MarketView, error)
}

// CollectionsService looks up NFT collection metadata.
type CollectionsService interface {
	Collections(ctx context.Context, ids []string) map[string]entity.CollectionInfo
}

// OverviewService summarises the whole treasury.
type OverviewService interface {
	Overview(ctx context.Context) (entity.TreasuryOverview, error)
}
