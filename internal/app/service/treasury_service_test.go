package service

import (
	"context"
	"testing"
	"time"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/cache"
	"treasury_checker/internal/infrastructure/ratelimit"
)

func xchPrice(p float64) fixedPrices {
	return fixedPrices{native: map[entity.Chain]entity.PriceQuote{
		entity.ChainChia: {Price: p, Source: entity.SourceCoinGecko},
	}}
}

func TestWalletSnapshotsBalanceFallback(t *testing.T) {
	ss := &fakeSpacescan{
		balances: map[string]entity.Lookup[float64]{"xch1b": entity.Found(7.5)},
		nfts:     map[string][]entity.NFT{"xch1a": {{NFTID: "n1", CollectionID: "c"}}},
		tokens:   map[string][]entity.CATHolding{"xch1a": {{AssetID: "aa", Balance: 1, Price: 1}}},
	}
	xs := &fakeXCHScan{balances: map[string]entity.Lookup[float64]{"xch1a": entity.Found(0.0)}}
	svc := NewTreasuryService(ss, xs, xchPrice(20), ratelimit.NewSerialGate("steps", 0), cache.New(time.Minute), discard())

	snaps := svc.WalletSnapshots(context.Background(), []string{"xch1a", "xch1b", "xch1c"})
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d", len(snaps))
	}
	a, b, c := snaps[0], snaps[1], snaps[2]
	if !a.Balance.OK || a.XCHBalance != 0 || ss.count("balance:xch1a") != 0 {
		t.Fatalf("confirmed zero from xchscan must not fall back: %+v", a)
	}
	if len(a.NFTs) != 1 || len(a.Tokens) != 1 {
		t.Fatalf("a = %+v", a)
	}
	if !b.Balance.OK || b.XCHBalance != 7.5 {
		t.Fatalf("spacescan fallback not used: %+v", b)
	}
	if c.Balance.OK || c.NFTs == nil || c.Tokens == nil {
		t.Fatalf("failed wallet must be empty but well-formed: %+v", c)
	}
}

func TestChiaPortfolioMergesAndCaches(t *testing.T) {
	ss := &fakeSpacescan{
		nfts: map[string][]entity.NFT{
			"xch1a": {{NFTID: "1", Name: "Wiz #1", CollectionID: "c1"}},
			"xch1b": {{NFTID: "2", Name: "Wiz #2", CollectionID: "c1"}},
		},
		tokens: map[string][]entity.CATHolding{
			"xch1a": {{AssetID: "aa", Symbol: "A", Balance: 100, Price: 0.5}},
			"xch1b": {{AssetID: "aa", Symbol: "A", Balance: 20, Price: 0.5}},
		},
	}
	xs := &fakeXCHScan{balances: map[string]entity.Lookup[float64]{
		"xch1a": entity.Found(10.0),
		"xch1b": entity.Found(0.0),
	}}
	svc := NewTreasuryService(ss, xs, xchPrice(3), ratelimit.NewSerialGate("steps", 0), cache.New(time.Minute), discard())

	p, err := svc.ChiaPortfolio(context.Background(), []string{"xch1b", "xch1a"})
	if err != nil {
		t.Fatalf("ChiaPortfolio: %v", err)
	}
	if p.TotalValueUSD != 90 || p.WalletCount != 2 {
		t.Fatalf("portfolio = %+v", p)
	}
	if got := p.Holdings["aa"].Amount; got != 120 {
		t.Fatalf("merged CAT amount = %v", got)
	}
	if len(p.Collections) != 1 || p.Collections[0].Count != 2 {
		t.Fatalf("collections = %+v", p.Collections)
	}

	if _, err := svc.ChiaPortfolio(context.Background(), []string{"xch1a", "xch1b"}); err != nil {
		t.Fatalf("cached call: %v", err)
	}
	if xs.count("xch1a") != 1 {
		t.Fatalf("wallet order changed the cache key")
	}
}

func TestChiaPortfolioServesStaleWhenAllWalletsFail(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := cache.New(5 * time.Minute).WithClock(func() time.Time { return now })
	ss := &fakeSpacescan{tokens: map[string][]entity.CATHolding{"xch1a": {{AssetID: "aa", Balance: 2, Price: 1}}}}
	xs := &fakeXCHScan{balances: map[string]entity.Lookup[float64]{"xch1a": entity.Found(1.0)}}
	svc := NewTreasuryService(ss, xs, xchPrice(3), ratelimit.NewSerialGate("steps", 0), c, discard())

	first, err := svc.ChiaPortfolio(context.Background(), []string{"xch1a"})
	if err != nil || first.TotalValueUSD != 5 {
		t.Fatalf("first = %+v, %v", first, err)
	}

	ss.tokens = nil
	xs.balances = nil
	now = now.Add(10 * time.Minute)
	stale, err := svc.ChiaPortfolio(context.Background(), []string{"xch1a"})
	if err != nil || stale.TotalValueUSD != 5 {
		t.Fatalf("stale = %+v, %v", stale, err)
	}

	if _, err := svc.ChiaPortfolio(context.Background(), []string{"xch1z"}); err == nil {
		t.Fatalf("expected error for a wallet set with no data and no cache")
	}
}
