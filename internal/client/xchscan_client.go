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
	XCHScanBaseURL = "https://xchscan.com/api"

	xchscanTimeout = 15 * time.Second
)

// XCHScanClient is the Chia explorer adapter.
type XCHScanClient interface {
	XCHBalance(ctx context.Context, wallet string) entity.Lookup[float64]
}

type xchscanClientImpl struct {
	upstream
}

// NewXCHScanClient creates an XCHScan adapter.
func NewXCHScanClient(doer httpclient.Doer, opts Options, logger *zap.Logger) XCHScanClient {
	return &xchscanClientImpl{upstream: newUpstream("xchscan", doer, opts, XCHScanBaseURL, logger.Named("XCHScanClient"))}
}

// XCHBalance returns the wallet's XCH. A reported zero is a found zero.
func (c *xchscanClientImpl) XCHBalance(ctx context.Context, wallet string) entity.Lookup[float64] {
	var body raw.XCHScanBalance
	u := c.url("account/balance") + "?address=" + url.QueryEscape(wallet)
	if err := c.getJSON(ctx, u, xchscanTimeout, &body); err != nil {
		return failed[float64](&c.upstream, "xch_balance", wallet, err)
	}
	if body.XCH == nil {
		return entity.Absent[float64]()
	}
	return entity.Found(body.XCH.Float())
}
