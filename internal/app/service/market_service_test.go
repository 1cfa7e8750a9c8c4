package service

import (
	"context"
	"math"
	"testing"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/ratelimit"
)

var marketTokens = staticTokens{
	entity.ChainChia: {
		{Chain: entity.ChainChia, Address: "c-byc", Name: "Bytecash", Symbol: "💸", Aliases: []string{"Wizard Bucks"}},
		{Chain: entity.ChainChia, Address: "c-love", Name: "Love", Symbol: "❤️"},
		{Chain: entity.ChainChia, Address: "c-pizza", Name: "Pizza", Symbol: "🍕"},
	},
	entity.ChainBase: {
		{Chain: entity.ChainBase, Address: "0xwxch", Name: "Wrapped XCH", Symbol: "wXCH"},
		{Chain: entity.ChainBase, Address: "0xpizza", Name: "Pizza", Symbol: "🍕"},
		{Chain: entity.ChainBase, Address: "0xwiz", Name: "Wizard Bucks", Symbol: "🧙💸"},
		{Chain: entity.ChainBase, Address: "0xlove", Name: "Love", Symbol: "❤️"},
		{Chain: entity.ChainBase, Address: "0xlonely", Name: "Lonely", Symbol: "LON"},
	},
}

func newMarketService() (*MarketServiceImpl, *fakeDEXScreener) {
	board := port.PriceBoard{
		Prices: map[string]float64{"c-byc": 1.00, "c-love": 2.00, "c-pizza": 0},
		Mcaps:  map[string]float64{"c-byc": 10, "c-love": 30, "c-pizza": 20},
		Sources: map[string]entity.PriceSource{
			"c-byc": entity.SourceSpacescan, "c-love": entity.SourceDexie, "c-pizza": entity.SourceNone,
		},
		XCHUSD:  20,
		Success: true,
	}
	prices := fixedPrices{board: board, native: map[entity.Chain]entity.PriceQuote{
		entity.ChainChia: {Price: 20, Source: entity.SourceCoinGecko},
	}}
	dex := &fakeDEXScreener{volume: map[string]entity.PriceQuote{
		"0xwxch":  {Price: 21, Source: entity.SourceDEXScreener},
		"0xwiz":   {Price: 1.10, MarketCap: 5, Source: entity.SourceDEXScreener},
		"0xlove":  {Price: 1.00, MarketCap: 50, Source: entity.SourceDEXScreener},
		"0xpizza": {Price: 0.3, MarketCap: 1, Source: entity.SourceDEXScreener},
	}}
	gecko := &fakeGecko{quotes: map[string]entity.PriceQuote{
		"0xlonely": {Price: 0.01, MarketCap: 2, Source: entity.SourceGeckoTerminal},
	}}
	svc := NewMarketService(marketTokens, prices, networks(), dex, gecko, ratelimit.NewGate("market", 0), discard())
	return svc, dex
}

func TestMarketFeaturedAndPairing(t *testing.T) {
	svc, dex := newMarketService()
	view, err := svc.Market(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Market: %v", err)
	}
	if view.Sort != SortMarketCap || view.XCHUSD != 20 {
		t.Fatalf("view = %+v", view)
	}
	if view.XCH == nil || view.XCH.Quote.Price != 20 || view.WXCH == nil || view.WXCH.Token.Address != "0xwxch" {
		t.Fatalf("featured = %+v / %+v", view.XCH, view.WXCH)
	}
	if view.WXCHPegPercent == nil || math.Abs(*view.WXCHPegPercent-5) > 1e-9 {
		t.Fatalf("peg = %v", view.WXCHPegPercent)
	}
	for _, b := range view.Base {
		if b.Token.IsWrappedXCH() {
			t.Fatalf("wXCH must not be listed with Base tokens")
		}
	}
	if dex.count("volume:0xlonely") != 1 {
		t.Fatalf("lonely token not tried on DEXScreener first")
	}

	byAddr := map[string]entity.MarketToken{}
	for _, c := range view.Chia {
		byAddr[c.Token.Address] = c
	}
	byc := byAddr["c-byc"]
	if byc.Counterpart != "0xwiz" || byc.Arbitrage == nil || byc.Arbitrage.Label != "9.1% cheaper" {
		t.Fatalf("bytecash = %+v %+v", byc, byc.Arbitrage)
	}
	if love := byAddr["c-love"]; love.Arbitrage.Class != entity.ArbitragePremium {
		t.Fatalf("love = %+v", love.Arbitrage)
	}
	if pizza := byAddr["c-pizza"]; pizza.Arbitrage.Comparable {
		t.Fatalf("unknown Chia price must disable the comparison: %+v", pizza.Arbitrage)
	}

	var caps []float64
	for _, c := range view.Chia {
		caps = append(caps, c.Quote.MarketCap)
	}
	if caps[0] != 30 || caps[1] != 20 || caps[2] != 10 {
		t.Fatalf("chia not sorted by market cap: %v", caps)
	}
}

func TestMarketSortModes(t *testing.T) {
	svc, _ := newMarketService()

	view, _ := svc.Market(context.Background(), "arbitrage", "")
	order := func(list []entity.MarketToken) []string {
		var out []string
		for _, t := range list {
			out = append(out, t.Token.Address)
		}
		return out
	}
	chia := order(view.Chia)
	if chia[0] != "c-love" || chia[1] != "c-byc" || chia[2] != "c-pizza" {
		t.Fatalf("arbitrage chia order = %v", chia)
	}
	base := order(view.Base)
	if base[0] != "0xlove" || base[1] != "0xwiz" || base[2] != "0xpizza" || base[3] != "0xlonely" {
		t.Fatalf("arbitrage base order = %v", base)
	}

	view, _ = svc.Market(context.Background(), "name", "")
	chia = order(view.Chia)
	if chia[0] != "c-love" || chia[1] != "c-pizza" || chia[2] != "c-byc" {
		t.Fatalf("name chia order = %v (Bytecash sorts as Wizard Bucks)", chia)
	}
}

func TestMarketQueryFilter(t *testing.T) {
	svc, _ := newMarketService()
	view, err := svc.Market(context.Background(), "marketCap", "PIZ")
	if err != nil {
		t.Fatalf("Market: %v", err)
	}
	if len(view.Chia) != 1 || len(view.Base) != 1 || view.Base[0].Token.Address != "0xpizza" {
		t.Fatalf("filtered = %+v / %+v", view.Chia, view.Base)
	}
	if view.Chia[0].Arbitrage == nil {
		t.Fatalf("pairing must happen before filtering")
	}
}

func TestNormalizeSort(t *testing.T) {
	for in, want := range map[string]string{"": SortMarketCap, "NAME": SortName, "arb": SortArbitrage, "bogus": SortMarketCap} {
		if got := NormalizeSort(in); got != want {
			t.Fatalf("NormalizeSort(%q) = %q", in, got)
		}
	}
}
