package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

const (
	DexieBaseURL = "https://api.dexie.space"

	dexieTickersTimeout = 8 * time.Second
	dexieOffersTimeout  = 7 * time.Second
)

// DexieClient is the Chia order-book DEX adapter. Prices are quoted in XCH.
type DexieClient interface {
	// Tickers maps lowercase CAT asset id to last traded price in XCH.
	Tickers(ctx context.Context) entity.Lookup[map[string]float64]
	// BestAsk returns the lowest positive ask for assetID in XCH.
	BestAsk(ctx context.Context, assetID string) entity.Lookup[float64]
}

type dexieClientImpl struct {
	upstream
}

// NewDexieClient creates a Dexie adapter.
func NewDexieClient(doer httpclient.Doer, opts Options, logger *zap.Logger) DexieClient {
	return &dexieClientImpl{upstream: newUpstream("dexie", doer, opts, DexieBaseURL, logger.Named("DexieClient"))}
}

func (c *dexieClientImpl) Tickers(ctx context.Context) entity.Lookup[map[string]float64] {
	var body raw.DexieTickers
	if err := c.getJSON(ctx, c.url("v2/prices/tickers"), dexieTickersTimeout, &body); err != nil {
		return failed[map[string]float64](&c.upstream, "tickers", "", err)
	}
	out := make(map[string]float64, len(body.Tickers))
	for _, t := range body.Tickers {
		id := strings.ToLower(strings.TrimSpace(t.BaseID.String()))
		if id == "" || t.LastPrice <= 0 {
			continue
		}
		out[id] = t.LastPrice.Float()
	}
	if len(out) == 0 {
		return entity.Absent[map[string]float64]()
	}
	return entity.Found(out)
}

func (c *dexieClientImpl) BestAsk(ctx context.Context, assetID string) entity.Lookup[float64] {
	var body raw.DexieOffers
	u := c.url(fmt.Sprintf("v1/offers?offered=%s&requested=xch&page=1&page_size=5&sort=price&order=asc", url.QueryEscape(assetID)))
	if err := c.getJSON(ctx, u, dexieOffersTimeout, &body); err != nil {
		return failed[float64](&c.upstream, "best_ask", assetID, err)
	}
	best := 0.0
	for _, o := range body.Offers {
		if p := o.Price.Float(); p > 0 && (best == 0 || p < best) {
			best = p
		}
	}
	if best <= 0 {
		return entity.Absent[float64]()
	}
	return entity.Found(best)
}
