package service

import (
	"context"
	"testing"
	"time"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/cache"
)

var boardTokens = staticTokens{
	entity.ChainChia: {
		{Chain: entity.ChainChia, Address: "aa", Name: "Alpha", Symbol: "A"},
		{Chain: entity.ChainChia, Address: "bb", Name: "Beta", Symbol: "B"},
		{Chain: entity.ChainChia, Address: "cc", Name: "Gamma", Symbol: "C"},
		{Chain: entity.ChainChia, Address: "dd", Name: "Delta", Symbol: "D"},
	},
}

func newPriceFixture() (*fakeSpacescan, *fakeDexie, *fakeCoinGecko) {
	return &fakeSpacescan{prices: map[string]entity.PriceQuote{
			"aa": {Price: 0.5, Change24h: -2, MarketCap: 1000, Source: entity.SourceSpacescan},
		}},
		&fakeDexie{tickers: map[string]float64{"bb": 0.1}, asks: map[string]float64{"cc": 0.01}},
		&fakeCoinGecko{prices: map[string]float64{"chia": 20}}
}

func TestChiaPriceBoardResolutionOrder(t *testing.T) {
	ss, dx, cg := newPriceFixture()
	svc := NewTokenPriceService(ss, dx, cg, boardTokens, networks(), PriceFallbacks{entity.ChainChia: 3}, cache.New(time.Minute), discard())

	board := svc.ChiaPriceBoard(context.Background())
	if !board.Success || board.Error != "" || board.XCHUSD != 20 {
		t.Fatalf("board = %+v", board)
	}
	want := map[string]struct {
		price float64
		src   entity.PriceSource
	}{
		"aa": {0.5, entity.SourceSpacescan},
		"bb": {2, entity.SourceDexie},
		"cc": {0.2, entity.SourceDexie},
		"dd": {0, entity.SourceNone},
	}
	for id, w := range want {
		if board.Prices[id] != w.price || board.Sources[id] != w.src {
			t.Fatalf("%s: price %v source %s, want %v %s", id, board.Prices[id], board.Sources[id], w.price, w.src)
		}
	}
	if board.Mcaps["aa"] != 1000 || board.Changes["aa"] != -2 {
		t.Fatalf("spacescan extras lost: %+v", board.Quote("aa"))
	}
	if dx.count("ask:aa") != 0 || dx.count("ask:bb") != 0 {
		t.Fatalf("best ask consulted for a token already priced")
	}

	svc.ChiaPriceBoard(context.Background())
	if ss.count("price:aa") != 1 || dx.count("tickers") != 1 {
		t.Fatalf("second board call was not served from cache")
	}
}

func TestChiaPriceBoardWithoutPrices(t *testing.T) {
	svc := NewTokenPriceService(&fakeSpacescan{}, &fakeDexie{}, &fakeCoinGecko{}, boardTokens, networks(),
		PriceFallbacks{entity.ChainChia: 3}, cache.New(time.Minute), discard())

	board := svc.ChiaPriceBoard(context.Background())
	if !board.Success || board.Error == "" {
		t.Fatalf("board = %+v", board)
	}
	if board.XCHUSD != 3 {
		t.Fatalf("xch fallback = %v", board.XCHUSD)
	}
	for id, src := range board.Sources {
		if src != entity.SourceNone || board.Prices[id] != 0 {
			t.Fatalf("%s priced without sources: %v %s", id, board.Prices[id], src)
		}
	}
}

func TestNativeQuoteFallbackAndStale(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := cache.New(time.Minute).WithClock(func() time.Time { return now })
	cg := &fakeCoinGecko{prices: map[string]float64{"ethereum": 3100}}
	svc := NewTokenPriceService(&fakeSpacescan{}, &fakeDexie{}, cg, boardTokens, networks(),
		PriceFallbacks{entity.ChainBase: 2500}, c, discard())

	q := svc.NativeQuote(context.Background(), entity.ChainBase)
	if q.Price != 3100 || q.Source != entity.SourceCoinGecko {
		t.Fatalf("live quote = %+v", q)
	}

	delete(cg.prices, "ethereum")
	now = now.Add(2 * time.Minute)
	q = svc.NativeQuote(context.Background(), entity.ChainBase)
	if q.Price != 3100 {
		t.Fatalf("stale quote not served: %+v", q)
	}

	fresh := NewTokenPriceService(&fakeSpacescan{}, &fakeDexie{}, cg, boardTokens, networks(),
		PriceFallbacks{entity.ChainBase: 2500}, cache.New(time.Minute), discard())
	q = fresh.NativeQuote(context.Background(), entity.ChainBase)
	if q.Price != 2500 || q.Source != entity.SourceFallback {
		t.Fatalf("fallback quote = %+v", q)
	}
}
