package service

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"
	networkdefinition "treasury_checker/internal/infrastructure/network/definition"
	"treasury_checker/internal/pkg/logger"
)

var errDown = &entity.FetchError{Kind: entity.FailureNetwork, Err: errors.New("connection refused")}

func discard() port.Logger { return logger.Discard() }

func networks() port.NetworkDefinitionProvider {
	return networkdefinition.NewNetworkDefinitionProvider(discard(), nil)
}

type calls struct {
	mu sync.Mutex
	n  map[string]int
}

func (c *calls) hit(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n == nil {
		c.n = map[string]int{}
	}
	c.n[key]++
}

func (c *calls) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[key]
}

type fakeSpacescan struct {
	calls
	prices   map[string]entity.PriceQuote
	balances map[string]entity.Lookup[float64]
	nfts     map[string][]entity.NFT
	tokens   map[string][]entity.CATHolding
}

func (f *fakeSpacescan) CATPrice(_ context.Context, id string) entity.Lookup[entity.PriceQuote] {
	f.hit("price:" + id)
	if q, ok := f.prices[id]; ok {
		return entity.Found(q)
	}
	return entity.Absent[entity.PriceQuote]()
}

func (f *fakeSpacescan) XCHBalance(_ context.Context, w string) entity.Lookup[float64] {
	f.hit("balance:" + w)
	if l, ok := f.balances[w]; ok {
		return l
	}
	return entity.Failed[float64](errDown)
}

func (f *fakeSpacescan) TokenBalances(_ context.Context, w string) entity.Lookup[[]entity.CATHolding] {
	f.hit("tokens:" + w)
	if t, ok := f.tokens[w]; ok {
		return entity.Found(t)
	}
	return entity.Failed[[]entity.CATHolding](errDown)
}

func (f *fakeSpacescan) NFTs(_ context.Context, w string) entity.Lookup[[]entity.NFT] {
	f.hit("nfts:" + w)
	if n, ok := f.nfts[w]; ok {
		return entity.Found(n)
	}
	return entity.Absent[[]entity.NFT]()
}

func (f *fakeSpacescan) Proxy(context.Context, string, time.Duration) (*httpclient.Response, error) {
	return nil, errDown
}

type fakeXCHScan struct {
	calls
	balances map[string]entity.Lookup[float64]
}

func (f *fakeXCHScan) XCHBalance(_ context.Context, w string) entity.Lookup[float64] {
	f.hit(w)
	if l, ok := f.balances[w]; ok {
		return l
	}
	return entity.Failed[float64](errDown)
}

type fakeDexie struct {
	calls
	tickers map[string]float64
	asks    map[string]float64
}

func (f *fakeDexie) Tickers(context.Context) entity.Lookup[map[string]float64] {
	f.hit("tickers")
	if f.tickers == nil {
		return entity.Failed[map[string]float64](errDown)
	}
	return entity.Found(f.tickers)
}

func (f *fakeDexie) BestAsk(_ context.Context, id string) entity.Lookup[float64] {
	f.hit("ask:" + id)
	if p, ok := f.asks[id]; ok {
		return entity.Found(p)
	}
	return entity.Absent[float64]()
}

type fakeCoinGecko struct {
	calls
	prices map[string]float64
}

func (f *fakeCoinGecko) Price(_ context.Context, id string) entity.Lookup[entity.PriceQuote] {
	f.hit(id)
	if p, ok := f.prices[id]; ok {
		return entity.Found(entity.PriceQuote{Price: p, Source: entity.SourceCoinGecko})
	}
	return entity.Failed[entity.PriceQuote](errDown)
}

type fakeDEXScreener struct {
	calls
	liquidity map[string]entity.PriceQuote
	volume    map[string]entity.PriceQuote
}

func (f *fakeDEXScreener) GetTokenPairsByAddresses(context.Context, string, []string) ([]raw.PairData, error) {
	return nil, nil
}

func (f *fakeDEXScreener) LiquidityPrices(_ context.Context, _ string, addrs []string) (map[string]entity.PriceQuote, error) {
	f.hit("liquidity")
	out := map[string]entity.PriceQuote{}
	for _, a := range addrs {
		if q, ok := f.liquidity[strings.ToLower(a)]; ok {
			out[strings.ToLower(a)] = q
		}
	}
	return out, nil
}

func (f *fakeDEXScreener) VolumeQuote(_ context.Context, _ string, addr string) entity.Lookup[entity.PriceQuote] {
	f.hit("volume:" + strings.ToLower(addr))
	if q, ok := f.volume[strings.ToLower(addr)]; ok {
		return entity.Found(q)
	}
	return entity.Absent[entity.PriceQuote]()
}

type fakeGecko struct {
	quotes map[string]entity.PriceQuote
}

func (f *fakeGecko) TokenQuote(_ context.Context, _, addr string) entity.Lookup[entity.PriceQuote] {
	if q, ok := f.quotes[strings.ToLower(addr)]; ok {
		return entity.Found(q)
	}
	return entity.Absent[entity.PriceQuote]()
}

type fakeBlockscout struct {
	native entity.Lookup[*big.Int]
	tokens entity.Lookup[[]entity.Balance]
}

func (f *fakeBlockscout) NativeBalance(context.Context, string) entity.Lookup[*big.Int] {
	return f.native
}

func (f *fakeBlockscout) TokenBalances(context.Context, string) entity.Lookup[[]entity.Balance] {
	return f.tokens
}

type fakePools map[string]entity.Lookup[entity.PoolState]

func (f fakePools) ReadPools(_ context.Context, pools []string) map[string]entity.Lookup[entity.PoolState] {
	out := map[string]entity.Lookup[entity.PoolState]{}
	for _, p := range pools {
		if l, ok := f[p]; ok {
			out[p] = l
		} else {
			out[p] = entity.Failed[entity.PoolState](errDown)
		}
	}
	return out
}

type fakeMintGarden map[string]entity.CollectionInfo

func (f fakeMintGarden) Collection(_ context.Context, id string) entity.Lookup[entity.CollectionInfo] {
	if c, ok := f[id]; ok {
		return entity.Found(c)
	}
	return entity.Absent[entity.CollectionInfo]()
}

type staticTokens map[entity.Chain][]entity.TokenInfo

func (s staticTokens) GetTokens(chain entity.Chain) ([]entity.TokenInfo, error) {
	return s[chain], nil
}

type staticWallets map[entity.Chain][]string

func (s staticWallets) GetWallets() ([]entity.Wallet, error) {
	var out []entity.Wallet
	for chain, ws := range s {
		for _, w := range ws {
			out = append(out, entity.Wallet{Address: w, Chain: chain})
		}
	}
	return out, nil
}

func (s staticWallets) GetWalletsByChain(chain entity.Chain) ([]string, error) {
	return s[chain], nil
}

type fixedPrices struct {
	board  port.PriceBoard
	native map[entity.Chain]entity.PriceQuote
}

func (f fixedPrices) ChiaPriceBoard(context.Context) port.PriceBoard { return f.board }

func (f fixedPrices) NativeQuote(_ context.Context, chain entity.Chain) entity.PriceQuote {
	if q, ok := f.native[chain]; ok {
		return q
	}
	return entity.NoPrice()
}

func wei(amount int64, decimals int) *big.Int {
	v := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return v.Mul(v, big.NewInt(amount))
}
