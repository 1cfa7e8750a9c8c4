package client

import (
	"context"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

const (
	SpacescanBaseURL = "https://api.spacescan.io"

	spacescanPriceTimeout   = 5 * time.Second
	spacescanBalanceTimeout = 10 * time.Second
	spacescanNFTTimeout     = 12 * time.Second
	spacescanTokenTimeout   = 25 * time.Second
)

// SpacescanClient is the Chia indexer adapter.
type SpacescanClient interface {
	CATPrice(ctx context.Context, assetID string) entity.Lookup[entity.PriceQuote]
	XCHBalance(ctx context.Context, wallet string) entity.Lookup[float64]
	TokenBalances(ctx context.Context, wallet string) entity.Lookup[[]entity.CATHolding]
	NFTs(ctx context.Context, wallet string) entity.Lookup[[]entity.NFT]
	// Proxy forwards a relative path and returns the upstream response untouched.
	Proxy(ctx context.Context, path string, timeout time.Duration) (*httpclient.Response, error)
}

type spacescanClientImpl struct {
	upstream
}

// NewSpacescanClient creates a Spacescan adapter. The API key is sent as x-api-key when set.
func NewSpacescanClient(doer httpclient.Doer, opts Options, logger *zap.Logger) SpacescanClient {
	c := &spacescanClientImpl{upstream: newUpstream("spacescan", doer, opts, SpacescanBaseURL, logger.Named("SpacescanClient"))}
	if opts.APIKey != "" {
		c.headers["x-api-key"] = opts.APIKey
	}
	return c
}

func (c *spacescanClientImpl) CATPrice(ctx context.Context, assetID string) entity.Lookup[entity.PriceQuote] {
	var body raw.SpacescanCATInfo
	if err := c.getJSON(ctx, c.resource("cat/info", assetID), spacescanPriceTimeout, &body); err != nil {
		return failed[entity.PriceQuote](&c.upstream, "cat_price", assetID, err)
	}
	return normalizeSpacescanPrice(body)
}

func normalizeSpacescanPrice(body raw.SpacescanCATInfo) entity.Lookup[entity.PriceQuote] {
	if body.Data == nil {
		return entity.Absent[entity.PriceQuote]()
	}
	d := body.Data
	price := d.AmountPrice.Float()
	if price <= 0 {
		return entity.Absent[entity.PriceQuote]()
	}
	mcap := d.MarketCap.Float()
	if supply := raw.FirstPositive(d.CirculatingSupply, d.TotalSupply); supply > 0 {
		mcap = supply * price
	}
	if mcap < 0 {
		mcap = 0
	}
	return entity.Found(entity.PriceQuote{
		Price:     price,
		Change24h: d.PricePercentage.Float(),
		MarketCap: mcap,
		Source:    entity.SourceSpacescan,
	})
}

func (c *spacescanClientImpl) XCHBalance(ctx context.Context, wallet string) entity.Lookup[float64] {
	var body raw.SpacescanXCHBalance
	if err := c.getJSON(ctx, c.resource("address/xch-balance", wallet), spacescanBalanceTimeout, &body); err != nil {
		return failed[float64](&c.upstream, "xch_balance", wallet, err)
	}
	if body.XCH == nil {
		return entity.Absent[float64]()
	}
	return entity.Found(body.XCH.Float())
}

func (c *spacescanClientImpl) TokenBalances(ctx context.Context, wallet string) entity.Lookup[[]entity.CATHolding] {
	var body raw.SpacescanTokenBalance
	if err := c.getJSON(ctx, c.resource("address/token-balance", wallet), spacescanTokenTimeout, &body); err != nil {
		return failed[[]entity.CATHolding](&c.upstream, "token_balance", wallet, err)
	}
	return normalizeSpacescanTokens(body)
}

func normalizeSpacescanTokens(body raw.SpacescanTokenBalance) entity.Lookup[[]entity.CATHolding] {
	out := make([]entity.CATHolding, 0, len(body.Data))
	for _, t := range body.Data {
		if t.Balance <= 0 {
			continue
		}
		name, symbol := t.Name.String(), t.Symbol.String()
		if name == "" {
			name = symbol
		}
		if symbol == "" {
			symbol = name
		}
		out = append(out, entity.CATHolding{
			AssetID:    t.AssetID.String(),
			Name:       name,
			Symbol:     symbol,
			Balance:    t.Balance.Float(),
			Price:      t.Price.Float(),
			TotalValue: t.TotalValue.Float(),
		})
	}
	if len(out) == 0 {
		return entity.Absent[[]entity.CATHolding]()
	}
	return entity.Found(out)
}

func (c *spacescanClientImpl) NFTs(ctx context.Context, wallet string) entity.Lookup[[]entity.NFT] {
	var body raw.SpacescanNFTBalance
	if err := c.getJSON(ctx, c.resource("address/nft-balance", wallet), spacescanNFTTimeout, &body); err != nil {
		return failed[[]entity.NFT](&c.upstream, "nft_balance", wallet, err)
	}
	if len(body.Balance) == 0 {
		return entity.Absent[[]entity.NFT]()
	}
	out := make([]entity.NFT, 0, len(body.Balance))
	for _, n := range body.Balance {
		out = append(out, entity.NFT{
			NFTID:        n.NFTID.String(),
			Name:         n.Name.String(),
			CollectionID: n.CollectionID.String(),
			PreviewURL:   n.PreviewURL.String(),
		})
	}
	return entity.Found(out)
}

func (c *spacescanClientImpl) Proxy(ctx context.Context, path string, timeout time.Duration) (*httpclient.Response, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	return c.send(ctx, "GET", c.resource(segments[0], segments[1:]...), nil, timeout)
}
