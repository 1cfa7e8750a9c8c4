package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"
	"treasury_checker/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	DEXScreenerBaseURL = "https://api.dexscreener.com"

	dexScreenerTimeout         = 10 * time.Second
	defaultMaxTokensPerRequest = 20
)

// volumeQuoteSymbols are the quote assets trusted when ranking pairs by volume.
var volumeQuoteSymbols = map[string]struct{}{
	"WETH": {},
	"USDC": {},
	"ETH":  {},
	"USDT": {},
}

// DEXScreenerClient defines the interface for interacting with the DEX Screener API.
type DEXScreenerClient interface {
	// GetTokenPairsByAddresses returns every pair for the given tokens on one chain.
	// Requests are split into batches of at most maxTokensPerRequest.
	GetTokenPairsByAddresses(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]raw.PairData, error)
	// LiquidityPrices prices each token from its deepest pair on the chain.
	LiquidityPrices(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) (map[string]entity.PriceQuote, error)
	// VolumeQuote prices one token from its most traded pair against a major quote asset.
	VolumeQuote(ctx context.Context, dexscreenerChainID string, tokenAddress string) entity.Lookup[entity.PriceQuote]
}

type dexScreenerClientImpl struct {
	upstream
	maxTokensPerRequest int
}

// NewDEXScreenerClient creates a new instance of dexScreenerClientImpl.
func NewDEXScreenerClient(doer httpclient.Doer, opts Options, logger *zap.Logger, maxTokensPerRequest int) DEXScreenerClient {
	if maxTokensPerRequest <= 0 {
		maxTokensPerRequest = defaultMaxTokensPerRequest
	}
	return &dexScreenerClientImpl{
		upstream:            newUpstream("dexscreener", doer, opts, DEXScreenerBaseURL, logger.Named("DEXScreenerClient")),
		maxTokensPerRequest: maxTokensPerRequest,
	}
}

func (c *dexScreenerClientImpl) GetTokenPairsByAddresses(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) ([]raw.PairData, error) {
	if len(tokenAddresses) == 0 {
		return nil, fmt.Errorf("tokenAddresses cannot be empty")
	}

	var (
		all     []raw.PairData
		lastErr error
		okCount int
	)
	for _, batch := range utils.Batch(tokenAddresses, c.maxTokensPerRequest) {
		pairs, err := c.pairsForBatch(ctx, dexscreenerChainID, batch)
		if err != nil {
			lastErr = err
			c.miss("pairs", strings.Join(batch, ","), err)
			continue
		}
		okCount++
		all = append(all, pairs...)
	}
	if okCount == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

// pairsForBatch tries tokens/v1 and falls back to latest/dex/tokens when the
// first endpoint fails or returns nothing.
func (c *dexScreenerClientImpl) pairsForBatch(ctx context.Context, chainID string, batch []string) ([]raw.PairData, error) {
	escaped := make([]string, len(batch))
	for i, a := range batch {
		escaped[i] = url.PathEscape(a)
	}
	addresses := strings.Join(escaped, ",")
	c.logger.Debug("Requesting token pairs from DEX Screener", zap.String("chain", chainID), zap.Int("tokens", len(batch)))

	var direct []raw.PairData
	errV1 := c.getJSON(ctx, c.url(fmt.Sprintf("tokens/v1/%s/%s", url.PathEscape(chainID), addresses)), dexScreenerTimeout, &direct)
	if errV1 == nil && len(direct) > 0 {
		return direct, nil
	}

	var wrapped raw.DEXTokenPair
	if err := c.getJSON(ctx, c.url("latest/dex/tokens/"+addresses), dexScreenerTimeout, &wrapped); err != nil {
		if errV1 != nil {
			return nil, errV1
		}
		return nil, err
	}
	out := make([]raw.PairData, 0, len(wrapped.Pairs))
	for _, p := range wrapped.Pairs {
		if strings.EqualFold(p.ChainID, chainID) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		c.logger.Debug("DEXScreener returned no pairs", zap.String("chain", chainID), zap.String("tokens", addresses))
	}
	return out, nil
}

func (c *dexScreenerClientImpl) LiquidityPrices(ctx context.Context, dexscreenerChainID string, tokenAddresses []string) (map[string]entity.PriceQuote, error) {
	pairs, err := c.GetTokenPairsByAddresses(ctx, dexscreenerChainID, tokenAddresses)
	if err != nil {
		return nil, err
	}
	return BestLiquidityQuotes(pairs, dexscreenerChainID), nil
}

func (c *dexScreenerClientImpl) VolumeQuote(ctx context.Context, dexscreenerChainID string, tokenAddress string) entity.Lookup[entity.PriceQuote] {
	pairs, err := c.GetTokenPairsByAddresses(ctx, dexscreenerChainID, []string{strings.ToLower(tokenAddress)})
	if err != nil {
		return entity.Failed[entity.PriceQuote](err)
	}
	return BestVolumeQuote(pairs, dexscreenerChainID, tokenAddress)
}

// BestLiquidityQuotes maps lowercase base-token address to the price of its
// deepest priced pair on chainID.
func BestLiquidityQuotes(pairs []raw.PairData, chainID string) map[string]entity.PriceQuote {
	best := make(map[string]raw.PairData)
	for _, p := range pairs {
		if !strings.EqualFold(p.ChainID, chainID) || p.PriceUsd <= 0 {
			continue
		}
		addr := strings.ToLower(p.BaseToken.Address)
		if addr == "" {
			continue
		}
		if cur, ok := best[addr]; !ok || p.LiquidityUSD() > cur.LiquidityUSD() {
			best[addr] = p
		}
	}
	out := make(map[string]entity.PriceQuote, len(best))
	for addr, p := range best {
		out[addr] = pairQuote(p)
	}
	return out
}

// BestVolumeQuote picks the highest 24h-volume pair for token quoted in
// WETH, USDC, ETH or USDT.
func BestVolumeQuote(pairs []raw.PairData, chainID, token string) entity.Lookup[entity.PriceQuote] {
	var candidates []raw.PairData
	for _, p := range pairs {
		if !strings.EqualFold(p.ChainID, chainID) || !strings.EqualFold(p.BaseToken.Address, token) {
			continue
		}
		if _, ok := volumeQuoteSymbols[strings.ToUpper(p.QuoteToken.Symbol)]; !ok {
			continue
		}
		candidates = append(candidates, p)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Volume.H24 > candidates[j].Volume.H24
	})
	for _, p := range candidates {
		if p.PriceUsd > 0 {
			return entity.Found(pairQuote(p))
		}
	}
	return entity.Absent[entity.PriceQuote]()
}

func pairQuote(p raw.PairData) entity.PriceQuote {
	return entity.PriceQuote{
		Price:     p.PriceUsd.Float(),
		Change24h: p.PriceChange.H24.Float(),
		MarketCap: raw.FirstPositive(p.Fdv, p.MarketCap),
		Source:    entity.SourceDEXScreener,
	}
}
