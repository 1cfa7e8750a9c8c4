package service

import (
	"math"
	"math/big"
	"regexp"
	"sort"
	"strings"
	"time"

	"treasury_checker/internal/domain/entity"
)

// neumaierSum adds vals with compensated summation.
func neumaierSum(vals []float64) float64 {
	var sum, c float64
	for _, v := range vals {
		t := sum + v
		if math.Abs(sum) >= math.Abs(v) {
			c += (sum - t) + v
		} else {
			c += (v - t) + sum
		}
		sum = t
	}
	return sum + c
}

// Merge combines balances into one portfolio keyed by asset identity.
// Colliding keys sum amount and value. Entries of a key are summed in a
// canonical order and keys are totalled in sorted order, so the result does
// not depend on the order of balances.
func Merge(chain entity.Chain, balances []entity.Balance) entity.AggregatedPortfolio {
	groups := make(map[string][]entity.Balance)
	for _, b := range balances {
		if b.Asset.Chain == "" {
			b.Asset.Chain = chain
		}
		k := b.Asset.Key()
		groups[k] = append(groups[k], b)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	holdings := make(map[string]entity.Balance, len(groups))
	values := make([]float64, 0, len(keys))
	for _, k := range keys {
		merged := mergeGroup(groups[k])
		holdings[k] = merged
		values = append(values, merged.ValueUSD)
	}

	return entity.AggregatedPortfolio{
		Chain:         chain,
		Holdings:      holdings,
		TotalValueUSD: neumaierSum(values),
	}
}

func mergeGroup(group []entity.Balance) entity.Balance {
	sorted := append([]entity.Balance(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ValueUSD != b.ValueUSD {
			return a.ValueUSD > b.ValueUSD
		}
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Wallet < b.Wallet
	})

	out := sorted[0]
	out.Wallet = ""
	amounts := make([]float64, len(sorted))
	values := make([]float64, len(sorted))
	raw := new(big.Int)
	rawKnown := true
	for i, b := range sorted {
		amounts[i] = b.Amount
		values[i] = b.ValueUSD
		if b.RawAmount == nil {
			rawKnown = false
		} else {
			raw.Add(raw, b.RawAmount)
		}
		if out.PriceUSD <= 0 && b.PriceUSD > 0 {
			out.PriceUSD, out.PriceSource = b.PriceUSD, b.PriceSource
		}
	}
	out.Amount = neumaierSum(amounts)
	out.ValueUSD = neumaierSum(values)
	out.RawAmount = nil
	if rawKnown {
		out.RawAmount = raw
	}
	return out
}

// SnapshotBalances turns a Chia wallet snapshot into balances. XCH is valued at xch.
func SnapshotBalances(snap entity.WalletSnapshot, xch entity.PriceQuote) []entity.Balance {
	var out []entity.Balance
	if snap.XCHBalance > 0 {
		native := entity.Balance{
			Wallet: snap.Wallet,
			Asset: entity.Asset{
				AssetID:  entity.NativeKey(entity.ChainChia),
				Chain:    entity.ChainChia,
				Symbol:   "XCH",
				Name:     "Chia",
				Decimals: 12,
				Native:   true,
			},
			Kind:   entity.KindNative,
			Amount: snap.XCHBalance,
		}
		out = append(out, native.Priced(xch))
	}
	for _, t := range snap.Tokens {
		name, symbol := catLabels(t)
		b := entity.Balance{
			Wallet:   snap.Wallet,
			Asset:    entity.Asset{AssetID: t.AssetID, Chain: entity.ChainChia, Symbol: symbol, Name: name, Decimals: 3},
			Kind:     entity.KindCAT,
			Amount:   t.Balance,
			PriceUSD: t.Price,
			ValueUSD: t.Value(),
			Contract: t.AssetID,
		}
		b.PriceSource = entity.SourceNone
		if t.Price > 0 || t.TotalValue > 0 {
			b.PriceSource = entity.SourceSpacescan
		}
		out = append(out, b)
	}
	return out
}

// catLabels resolves display name and symbol of a CAT row that may lack either.
func catLabels(t entity.CATHolding) (name, symbol string) {
	name = strings.TrimSpace(t.Name)
	if name == "" {
		name = strings.TrimSpace(t.Symbol)
	}
	if name == "" {
		name = "Token " + strings.ToUpper(prefix(t.AssetID, 6))
	}
	symbol = strings.TrimSpace(t.Symbol)
	if symbol == "" {
		symbol = prefix(name, 8)
	}
	if symbol == "" {
		symbol = prefix(t.AssetID, 8)
	}
	return name, symbol
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var trailingEdition = regexp.MustCompile(`\s*#\d+\s*$`)

const unknownCollectionName = "Unknown Collection"

// GroupCollections groups NFTs by collection id, ordered by count descending.
func GroupCollections(nfts []entity.NFT) []entity.NFTCollection {
	index := make(map[string]int)
	var cols []entity.NFTCollection
	for _, n := range nfts {
		cid := strings.TrimSpace(n.CollectionID)
		if cid == "" {
			cid = entity.UncategorizedCollection
		}
		i, ok := index[cid]
		if !ok {
			name := strings.TrimSpace(trailingEdition.ReplaceAllString(n.Name, ""))
			if name == "" {
				name = unknownCollectionName
			}
			cols = append(cols, entity.NFTCollection{ID: cid, Name: name, Samples: []entity.NFT{}})
			i = len(cols) - 1
			index[cid] = i
		}
		c := &cols[i]
		c.Count++
		if len(c.Samples) < 3 {
			c.Samples = append(c.Samples, n)
		}
		if c.Image == "" && n.PreviewURL != "" {
			c.Image = n.PreviewURL
		}
	}
	sort.SliceStable(cols, func(i, j int) bool { return cols[i].Count > cols[j].Count })
	return cols
}

// PortfolioRows flattens a portfolio into rows ordered by value descending.
func PortfolioRows(p entity.AggregatedPortfolio) []entity.HoldingRow {
	rows := make([]entity.HoldingRow, 0, len(p.Holdings))
	keys := make([]string, 0, len(p.Holdings))
	for k := range p.Holdings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, balanceRow(p.Holdings[k]))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	return rows
}

func balanceRow(b entity.Balance) entity.HoldingRow {
	return entity.HoldingRow{
		Symbol:   b.Asset.Symbol,
		Name:     b.Asset.Name,
		Balance:  b.Amount,
		Price:    b.PriceUSD,
		Value:    b.ValueUSD,
		Type:     b.Kind,
		Contract: b.Contract,
	}
}

func rowsTotal(rows []entity.HoldingRow) float64 {
	vals := make([]float64, len(rows))
	for i, r := range rows {
		vals[i] = r.Value
	}
	return neumaierSum(vals)
}

func stamp(p entity.AggregatedPortfolio, walletCount int, collections []entity.NFTCollection, at time.Time) entity.AggregatedPortfolio {
	p.WalletCount = walletCount
	p.Collections = collections
	p.FetchedAt = at
	return p
}
