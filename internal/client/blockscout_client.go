package client

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"
	"treasury_checker/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	BlockscoutBaseURL = "https://base.blockscout.com/api/v2"

	blockscoutAddressTimeout = 10 * time.Second
	blockscoutTokensTimeout  = 30 * time.Second
	defaultTokenDecimals     = 18
)

// BlockscoutClient is the Base explorer adapter.
type BlockscoutClient interface {
	// NativeBalance returns the wallet's ETH balance in wei.
	NativeBalance(ctx context.Context, address string) entity.Lookup[*big.Int]
	// TokenBalances returns every positive ERC-20 balance. PriceUSD carries the
	// explorer exchange rate when it has one.
	TokenBalances(ctx context.Context, address string) entity.Lookup[[]entity.Balance]
}

type blockscoutClientImpl struct {
	upstream
}

// NewBlockscoutClient creates a Blockscout adapter.
func NewBlockscoutClient(doer httpclient.Doer, opts Options, logger *zap.Logger) BlockscoutClient {
	return &blockscoutClientImpl{upstream: newUpstream("blockscout", doer, opts, BlockscoutBaseURL, logger.Named("BlockscoutClient"))}
}

func (c *blockscoutClientImpl) NativeBalance(ctx context.Context, address string) entity.Lookup[*big.Int] {
	var body raw.BlockscoutAddress
	if err := c.getJSON(ctx, c.resource("addresses", address), blockscoutAddressTimeout, &body); err != nil {
		return failed[*big.Int](&c.upstream, "address", address, err)
	}
	wei := utils.ParseBigInt(body.CoinBalance.String())
	if wei == nil {
		return entity.Absent[*big.Int]()
	}
	return entity.Found(wei)
}

func (c *blockscoutClientImpl) TokenBalances(ctx context.Context, address string) entity.Lookup[[]entity.Balance] {
	u := c.resource("addresses", address, "token-balances")
	resp, err := c.fetch(ctx, u, blockscoutTokensTimeout)
	if err != nil {
		return failed[[]entity.Balance](&c.upstream, "token_balances", address, err)
	}
	rows, err := decodeBlockscoutTokens(resp.Body)
	if err != nil {
		return failed[[]entity.Balance](&c.upstream, "token_balances", address,
			entity.NewFetchError(entity.FailureParse, resp.StatusCode, u, err))
	}
	out := normalizeBlockscoutTokens(address, rows)
	if len(out) == 0 {
		return entity.Absent[[]entity.Balance]()
	}
	return entity.Found(out)
}

// decodeBlockscoutTokens accepts both the bare array and the paginated {items} shape.
func decodeBlockscoutTokens(body []byte) ([]raw.BlockscoutTokenBalance, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var rows []raw.BlockscoutTokenBalance
		err := json.Unmarshal(body, &rows)
		return rows, err
	}
	var page raw.BlockscoutTokenBalancesPage
	err := json.Unmarshal(body, &page)
	return page.Items, err
}

func normalizeBlockscoutTokens(wallet string, rows []raw.BlockscoutTokenBalance) []entity.Balance {
	out := make([]entity.Balance, 0, len(rows))
	for _, r := range rows {
		addr := strings.TrimSpace(r.Token.AddressHash.String())
		if addr == "" {
			addr = strings.TrimSpace(r.Token.Address.String())
		}
		amount := utils.ParseBigInt(r.Value.String())
		if addr == "" || amount == nil || amount.Sign() <= 0 {
			continue
		}
		decimals := utils.ParseDecimals(r.Token.Decimals.String(), defaultTokenDecimals)
		b := entity.Balance{
			Wallet: wallet,
			Asset: entity.Asset{
				AssetID:  addr,
				Chain:    entity.ChainBase,
				Symbol:   r.Token.Symbol.String(),
				Name:     r.Token.Name.String(),
				Decimals: decimals,
			},
			Kind:        entity.KindERC20,
			RawAmount:   amount,
			Amount:      utils.ScaleAmount(amount, decimals),
			Contract:    addr,
			PriceSource: entity.SourceNone,
		}
		if rate := r.Token.ExchangeRate.Float(); rate > 0 {
			b = b.Priced(entity.PriceQuote{Price: rate, Source: entity.SourceBlockscout})
		}
		out = append(out, b)
	}
	return out
}
