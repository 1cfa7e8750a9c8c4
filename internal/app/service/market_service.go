package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/ratelimit"

	"golang.org/x/sync/errgroup"
)

// Market sort modes.
const (
	SortName      = "name"
	SortMarketCap = "marketCap"
	SortArbitrage = "arbitrage"
)

var _ port.MarketService = (*MarketServiceImpl)(nil)

// MarketServiceImpl implements port.MarketService.
type MarketServiceImpl struct {
	tokens   port.TokenProvider
	prices   port.PriceService
	networks port.NetworkDefinitionProvider
	dex      client.DEXScreenerClient
	gecko    client.GeckoTerminalClient
	gate     *ratelimit.Gate
	logger   port.Logger
}

// NewMarketService creates a MarketServiceImpl. gate spaces the Base token quotes.
func NewMarketService(
	tp port.TokenProvider,
	prices port.PriceService,
	np port.NetworkDefinitionProvider,
	dex client.DEXScreenerClient,
	gecko client.GeckoTerminalClient,
	gate *ratelimit.Gate,
	l port.Logger,
) *MarketServiceImpl {
	return &MarketServiceImpl{
		tokens:   tp,
		prices:   prices,
		networks: np,
		dex:      dex,
		gecko:    gecko,
		gate:     gate,
		logger:   l,
	}
}

// NormalizeSort maps a request parameter onto a sort mode, defaulting to market cap.
func NormalizeSort(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return SortName
	case "arbitrage", "arb":
		return SortArbitrage
	}
	return SortMarketCap
}

// Market builds the two-chain board, optionally filtered by query.
func (s *MarketServiceImpl) Market(ctx context.Context, sortMode, query string) (entity.MarketView, error) {
	view := entity.MarketView{Sort: NormalizeSort(sortMode), Query: strings.TrimSpace(query)}

	chiaTokens, err := s.tokens.GetTokens(entity.ChainChia)
	if err != nil {
		return view, fmt.Errorf("load chia tokens: %w", err)
	}
	baseTokens, err := s.tokens.GetTokens(entity.ChainBase)
	if err != nil {
		return view, fmt.Errorf("load base tokens: %w", err)
	}

	var (
		board      port.PriceBoard
		baseQuotes []entity.PriceQuote
	)
	var g errgroup.Group
	g.Go(func() error {
		board = s.prices.ChiaPriceBoard(ctx)
		return nil
	})
	g.Go(func() error {
		baseQuotes = s.baseQuotes(ctx, baseTokens)
		return nil
	})
	_ = g.Wait()

	xch := s.prices.NativeQuote(ctx, entity.ChainChia)
	view.XCHUSD = xch.Price
	view.XCH = &entity.MarketToken{
		Token: entity.TokenInfo{
			Chain: entity.ChainChia, Address: entity.NativeKey(entity.ChainChia),
			Name: "Chia", Symbol: "XCH", Decimals: 12,
		},
		Quote: xch,
	}

	for _, t := range chiaTokens {
		view.Chia = append(view.Chia, entity.MarketToken{Token: t, Quote: board.Quote(t.Address)})
	}
	for i, t := range baseTokens {
		mt := entity.MarketToken{Token: t, Quote: baseQuotes[i]}
		if t.IsWrappedXCH() {
			wx := mt
			view.WXCH = &wx
			continue
		}
		view.Base = append(view.Base, mt)
	}
	if view.WXCH != nil && view.WXCH.Quote.Valid() && xch.Valid() {
		peg := (view.WXCH.Quote.Price - xch.Price) / xch.Price * 100
		view.WXCHPegPercent = &peg
	}

	pairTokens(view.Chia, view.Base)
	view.Chia = filterTokens(view.Chia, view.Query)
	view.Base = filterTokens(view.Base, view.Query)
	SortMarket(&view)
	if view.Chia == nil {
		view.Chia = []entity.MarketToken{}
	}
	if view.Base == nil {
		view.Base = []entity.MarketToken{}
	}
	return view, nil
}

// baseQuotes prices Base tokens one at a time: DEXScreener volume-best, then GeckoTerminal.
func (s *MarketServiceImpl) baseQuotes(ctx context.Context, tokens []entity.TokenInfo) []entity.PriceQuote {
	out := make([]entity.PriceQuote, len(tokens))
	for i := range out {
		out[i] = entity.NoPrice()
	}
	def, ok := s.networks.GetNetworkDefinitionByName(string(entity.ChainBase))
	if !ok {
		return out
	}
	for i, t := range tokens {
		i, t := i, t
		err := s.gate.Do(ctx, func(ctx context.Context) error {
			out[i] = ResolvePrice(ctx, "base_token_price", []Source[entity.PriceQuote]{
				{Name: entity.SourceDEXScreener, Fetch: func(ctx context.Context) entity.Lookup[entity.PriceQuote] {
					return s.dex.VolumeQuote(ctx, def.DEXScreenerChainID, t.Address)
				}},
				{Name: entity.SourceGeckoTerminal, Fetch: func(ctx context.Context) entity.Lookup[entity.PriceQuote] {
					return s.gecko.TokenQuote(ctx, def.GeckoTerminalNetwork, t.Address)
				}},
			})
			return nil
		})
		if err != nil {
			s.logger.Warn("Base token pricing interrupted", "token", t.Symbol, "error", err)
			break
		}
	}
	return out
}

// sameAsset reports whether two tokens on different chains are one logical asset.
func sameAsset(a, b entity.TokenInfo) bool {
	if a.Symbol != "" && a.Symbol == b.Symbol {
		return true
	}
	return a.Matches(b.Name) || b.Matches(a.Name)
}

// pairTokens links each Chia token to its Base counterpart and attaches the spread.
func pairTokens(chia, base []entity.MarketToken) {
	for i := range chia {
		for j := range base {
			if !sameAsset(chia[i].Token, base[j].Token) {
				continue
			}
			arb := Compare(chia[i].Quote.Price, base[j].Quote.Price)
			chia[i].Arbitrage = &arb
			chia[i].Counterpart = base[j].Token.Address
			base[j].Counterpart = chia[i].Token.Address
			break
		}
	}
}

func filterTokens(tokens []entity.MarketToken, query string) []entity.MarketToken {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tokens
	}
	out := tokens[:0:0]
	for _, t := range tokens {
		if strings.Contains(strings.ToLower(t.Token.Name), q) || strings.Contains(strings.ToLower(t.Token.Symbol), q) {
			out = append(out, t)
		}
	}
	return out
}

// SortMarket orders both lists according to view.Sort.
func SortMarket(view *entity.MarketView) {
	switch view.Sort {
	case SortName:
		names := map[string]string{}
		for _, t := range view.Base {
			names[strings.ToLower(t.Token.Address)] = t.Token.Name
		}
		chiaName := func(t entity.MarketToken) string {
			if n, ok := names[strings.ToLower(t.Counterpart)]; ok {
				return n
			}
			return t.Token.Name
		}
		sort.SliceStable(view.Chia, func(i, j int) bool {
			return strings.ToLower(chiaName(view.Chia[i])) < strings.ToLower(chiaName(view.Chia[j]))
		})
		sort.SliceStable(view.Base, func(i, j int) bool {
			return strings.ToLower(view.Base[i].Token.Name) < strings.ToLower(view.Base[j].Token.Name)
		})
	case SortArbitrage:
		sort.SliceStable(view.Chia, func(i, j int) bool {
			return spread(view.Chia[i]) > spread(view.Chia[j])
		})
		view.Base = followOrder(view.Chia, view.Base)
	default:
		byCap := func(list []entity.MarketToken) {
			sort.SliceStable(list, func(i, j int) bool { return list[i].Quote.MarketCap > list[j].Quote.MarketCap })
		}
		byCap(view.Chia)
		byCap(view.Base)
	}
}

func spread(t entity.MarketToken) float64 {
	if t.Arbitrage == nil || !t.Arbitrage.Comparable {
		return -1
	}
	return math.Abs(t.Arbitrage.DiffPercent)
}

// followOrder re-orders base to follow the counterparts of chia; unmatched
// Base tokens keep their relative order at the end.
func followOrder(chia, base []entity.MarketToken) []entity.MarketToken {
	out := make([]entity.MarketToken, 0, len(base))
	used := make([]bool, len(base))
	for _, c := range chia {
		for j, b := range base {
			if !used[j] && c.Counterpart != "" && strings.EqualFold(b.Token.Address, c.Counterpart) {
				out = append(out, b)
				used[j] = true
				break
			}
		}
	}
	for j, b := range base {
		if !used[j] {
			out = append(out, b)
		}
	}
	return out
}
