package client

import (
	"context"
	"net/url"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

const (
	CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

	coingeckoTimeout = 6 * time.Second
)

// CoinGeckoClient quotes native coins (XCH, ETH) in USD.
type CoinGeckoClient interface {
	Price(ctx context.Context, coinID string) entity.Lookup[entity.PriceQuote]
}

type coinGeckoClientImpl struct {
	upstream
}

// NewCoinGeckoClient creates a CoinGecko adapter. The demo API key header is sent when set.
func NewCoinGeckoClient(doer httpclient.Doer, opts Options, logger *zap.Logger) CoinGeckoClient {
	c := &coinGeckoClientImpl{upstream: newUpstream("coingecko", doer, opts, CoinGeckoBaseURL, logger.Named("CoinGeckoClient"))}
	if opts.APIKey != "" {
		c.headers["x-cg-demo-api-key"] = opts.APIKey
	}
	return c
}

func (c *coinGeckoClientImpl) Price(ctx context.Context, coinID string) entity.Lookup[entity.PriceQuote] {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")
	q.Set("include_24hr_change", "true")
	q.Set("include_market_cap", "true")

	var body raw.CoinGeckoSimplePrice
	if err := c.getJSON(ctx, c.url("simple/price")+"?"+q.Encode(), coingeckoTimeout, &body); err != nil {
		return failed[entity.PriceQuote](&c.upstream, "simple_price", coinID, err)
	}
	p, ok := body[coinID]
	if !ok || p.USD <= 0 {
		return entity.Absent[entity.PriceQuote]()
	}
	mcap := p.USDMarketCap.Float()
	if mcap < 0 {
		mcap = 0
	}
	return entity.Found(entity.PriceQuote{
		Price:     p.USD.Float(),
		Change24h: p.USD24hChange.Float(),
		MarketCap: mcap,
		Source:    entity.SourceCoinGecko,
	})
}
