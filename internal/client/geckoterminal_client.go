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
	GeckoTerminalBaseURL = "https://api.geckoterminal.com/api/v2"

	geckoTerminalTimeout = 10 * time.Second
)

// GeckoTerminalClient quotes EVM tokens by contract address.
type GeckoTerminalClient interface {
	TokenQuote(ctx context.Context, network, address string) entity.Lookup[entity.PriceQuote]
}

type geckoTerminalClientImpl struct {
	upstream
}

// NewGeckoTerminalClient creates a GeckoTerminal adapter.
func NewGeckoTerminalClient(doer httpclient.Doer, opts Options, logger *zap.Logger) GeckoTerminalClient {
	return &geckoTerminalClientImpl{upstream: newUpstream("geckoterminal", doer, opts, GeckoTerminalBaseURL, logger.Named("GeckoTerminalClient"))}
}

func (c *geckoTerminalClientImpl) TokenQuote(ctx context.Context, network, address string) entity.Lookup[entity.PriceQuote] {
	var body raw.GeckoTerminalToken
	u := c.resource("networks", network, "tokens", strings.ToLower(address))
	if err := c.getJSON(ctx, u, geckoTerminalTimeout, &body); err != nil {
		return failed[entity.PriceQuote](&c.upstream, "token", address, err)
	}
	if body.Data == nil || body.Data.Attributes.PriceUSD <= 0 {
		return entity.Absent[entity.PriceQuote]()
	}
	a := body.Data.Attributes
	return entity.Found(entity.PriceQuote{
		Price:     a.PriceUSD.Float(),
		MarketCap: raw.FirstPositive(a.FDVUSD, a.MarketCapUSD),
		Source:    entity.SourceGeckoTerminal,
	})
}
