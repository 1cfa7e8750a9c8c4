package service

import (
	"math"
	"math/big"
	"testing"

	"treasury_checker/internal/domain/entity"
)

func TestMergeScenario(t *testing.T) {
	native := entity.Balance{
		Asset:  entity.Asset{Chain: entity.ChainChia, Symbol: "XCH", Native: true},
		Kind:   entity.KindNative,
		Amount: 10,
	}.Priced(entity.PriceQuote{Price: 3, Source: entity.SourceCoinGecko})
	token := entity.Balance{
		Asset:  entity.Asset{AssetID: "abc", Chain: entity.ChainChia, Symbol: "TKN"},
		Kind:   entity.KindCAT,
		Amount: 100,
	}.Priced(entity.PriceQuote{Price: 0.5, Source: entity.SourceSpacescan})

	p := Merge(entity.ChainChia, []entity.Balance{native, token})
	if p.TotalValueUSD != 80 {
		t.Fatalf("total = %v, want 80", p.TotalValueUSD)
	}
	if _, ok := p.Holdings["XCH_NATIVE"]; !ok {
		t.Fatalf("native key missing: %v", p.Holdings)
	}
}

func TestMergeSumsCollidingKeys(t *testing.T) {
	a := entity.Balance{Wallet: "w1", Asset: entity.Asset{AssetID: "ABC", Symbol: "T"}, Amount: 1, ValueUSD: 2, RawAmount: big.NewInt(1000)}
	b := entity.Balance{Wallet: "w2", Asset: entity.Asset{AssetID: "abc", Symbol: "T"}, Amount: 3, ValueUSD: 6, PriceUSD: 2, RawAmount: big.NewInt(3000)}
	noID := entity.Balance{Asset: entity.Asset{Symbol: "zz"}, Amount: 1}
	noID2 := entity.Balance{Asset: entity.Asset{Symbol: "ZZ"}, Amount: 2}

	p := Merge(entity.ChainBase, []entity.Balance{a, b, noID, noID2})
	if len(p.Holdings) != 2 {
		t.Fatalf("holdings = %d, want 2", len(p.Holdings))
	}
	m := p.Holdings["abc"]
	if m.Amount != 4 || m.ValueUSD != 8 || m.PriceUSD != 2 || m.RawAmount.Int64() != 4000 || m.Wallet != "" {
		t.Fatalf("merged = %+v", m)
	}
	if got := p.Holdings["symbol:ZZ"].Amount; got != 3 {
		t.Fatalf("symbol key amount = %v", got)
	}
}

func TestMergeTotalIsOrderIndependent(t *testing.T) {
	values := []float64{1e16, 1, -1e16, 0.1, 0.2, 0.3, 12345.678, 1e-9}
	var balances []entity.Balance
	for i, v := range values {
		id := string(rune('a' + i%3))
		balances = append(balances, entity.Balance{Asset: entity.Asset{AssetID: id}, Amount: 1, ValueUSD: v})
	}
	want := Merge(entity.ChainBase, balances).TotalValueUSD

	perm := append([]entity.Balance(nil), balances...)
	for i := 0; i < 20; i++ {
		// deterministic shuffle
		for j := range perm {
			k := (j*7 + i*3) % len(perm)
			perm[j], perm[k] = perm[k], perm[j]
		}
		got := Merge(entity.ChainBase, perm).TotalValueUSD
		if math.Float64bits(got) != math.Float64bits(want) {
			t.Fatalf("permutation %d: total %v != %v", i, got, want)
		}
	}
	if again := Merge(entity.ChainBase, balances).TotalValueUSD; math.Float64bits(again) != math.Float64bits(want) {
		t.Fatalf("not idempotent: %v != %v", again, want)
	}
}

func TestSnapshotBalancesLabelsAndValues(t *testing.T) {
	snap := entity.WalletSnapshot{
		Wallet:     "xch1a",
		XCHBalance: 2,
		Tokens: []entity.CATHolding{
			{AssetID: "deadbeefcafe", Balance: 10, Price: 0.5},
			{AssetID: "f00", Symbol: "SBX", Balance: 4, TotalValue: 9},
		},
	}
	got := SnapshotBalances(snap, entity.PriceQuote{Price: 3, Source: entity.SourceCoinGecko})
	if len(got) != 3 {
		t.Fatalf("balances = %d", len(got))
	}
	if got[0].Asset.Key() != "XCH_NATIVE" || got[0].ValueUSD != 6 {
		t.Fatalf("native = %+v", got[0])
	}
	if got[1].Asset.Name != "Token DEADBE" || got[1].Asset.Symbol != "Token DE" || got[1].ValueUSD != 5 {
		t.Fatalf("unnamed CAT = %+v", got[1].Asset)
	}
	if got[2].Asset.Name != "SBX" || got[2].ValueUSD != 9 {
		t.Fatalf("symbol-only CAT = %+v", got[2])
	}

	if SnapshotBalances(entity.WalletSnapshot{Wallet: "x"}, entity.PriceQuote{Price: 3}) != nil {
		t.Fatalf("empty wallet must yield no balances")
	}
}

func TestGroupCollections(t *testing.T) {
	nfts := []entity.NFT{
		{NFTID: "1", Name: "Wizard #1", CollectionID: "col1"},
		{NFTID: "2", Name: "Wizard #2", CollectionID: "col1", PreviewURL: "https://img/2.png"},
		{NFTID: "3", Name: "Solo", CollectionID: ""},
		{NFTID: "4", Name: "Wizard #4", CollectionID: "col1"},
		{NFTID: "5", Name: "Wizard #5", CollectionID: "col1"},
		{NFTID: "6", Name: " #7", CollectionID: "col2"},
	}
	cols := GroupCollections(nfts)
	if len(cols) != 3 {
		t.Fatalf("collections = %d", len(cols))
	}
	first := cols[0]
	if first.ID != "col1" || first.Name != "Wizard" || first.Count != 4 || len(first.Samples) != 3 || first.Image != "https://img/2.png" {
		t.Fatalf("first = %+v", first)
	}
	if cols[1].ID != entity.UncategorizedCollection || cols[1].Name != "Solo" {
		t.Fatalf("second = %+v", cols[1])
	}
	if cols[2].Name != "Unknown Collection" {
		t.Fatalf("third = %+v", cols[2])
	}
}

func TestPortfolioRowsOrderedByValue(t *testing.T) {
	p := Merge(entity.ChainChia, []entity.Balance{
		{Asset: entity.Asset{AssetID: "a", Symbol: "A"}, Kind: entity.KindCAT, Amount: 1, ValueUSD: 1},
		{Asset: entity.Asset{AssetID: "b", Symbol: "B"}, Kind: entity.KindCAT, Amount: 1, ValueUSD: 5},
	})
	rows := PortfolioRows(p)
	if len(rows) != 2 || rows[0].Symbol != "B" || rows[1].Symbol != "A" {
		t.Fatalf("rows = %+v", rows)
	}
	if rowsTotal(rows) != 6 {
		t.Fatalf("total = %v", rowsTotal(rows))
	}
}
