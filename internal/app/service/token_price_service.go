package service

import (
	"context"
	"errors"
	"strings"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/cache"

	"golang.org/x/sync/errgroup"
)

const priceBoardKey = "chia-price-board"

var errNoCATPrices = errors.New("no CAT price could be resolved")

// PriceFallbacks are the configured last-resort gas token prices.
type PriceFallbacks map[entity.Chain]float64

// tokenPriceServiceImpl implements port.PriceService
type tokenPriceServiceImpl struct {
	spacescan client.SpacescanClient
	dexie     client.DexieClient
	coingecko client.CoinGeckoClient
	tokens    port.TokenProvider
	networks  port.NetworkDefinitionProvider
	fallbacks PriceFallbacks
	cache     *cache.TTLCache
	logger    port.Logger
}

// NewTokenPriceService creates a new instance of tokenPriceServiceImpl.
func NewTokenPriceService(
	spacescan client.SpacescanClient,
	dexie client.DexieClient,
	coingecko client.CoinGeckoClient,
	tp port.TokenProvider,
	np port.NetworkDefinitionProvider,
	fallbacks PriceFallbacks,
	c *cache.TTLCache,
	l port.Logger,
) port.PriceService {
	s := &tokenPriceServiceImpl{
		spacescan: spacescan,
		dexie:     dexie,
		coingecko: coingecko,
		tokens:    tp,
		networks:  np,
		fallbacks: fallbacks,
		cache:     c,
		logger:    l,
	}
	l.Info("TokenPriceService initialized", "cache_ttl", c.TTL())
	return s
}

// NativeQuote resolves the gas token price: CoinGecko (cached, stale on
// error), then the configured fallback.
func (s *tokenPriceServiceImpl) NativeQuote(ctx context.Context, chain entity.Chain) entity.PriceQuote {
	def, ok := s.networks.GetNetworkDefinitionByName(string(chain))
	if !ok {
		s.logger.Warn("Native price requested for unknown chain", "chain", chain)
		return entity.NoPrice()
	}
	live := Source[entity.PriceQuote]{
		Name: entity.SourceCoinGecko,
		Fetch: func(ctx context.Context) entity.Lookup[entity.PriceQuote] {
			q, _, err := cache.GetOrLoad(ctx, s.cache, "native:"+string(chain), func(ctx context.Context) (entity.PriceQuote, error) {
				l := s.coingecko.Price(ctx, def.CoinGeckoID)
				if !l.OK {
					return entity.PriceQuote{}, l.Err
				}
				if !l.Value.Valid() {
					return entity.PriceQuote{}, entity.ErrAbsent
				}
				return l.Value, nil
			})
			if err != nil {
				return entity.Failed[entity.PriceQuote](err)
			}
			return entity.Found(q)
		},
	}
	q := ResolvePrice(ctx, "native_price", []Source[entity.PriceQuote]{
		live,
		staticPrice(entity.SourceFallback, s.fallbacks[chain]),
	})
	if q.Source == entity.SourceFallback {
		s.logger.Warn("Using fallback native price", "chain", chain, "price", q.Price)
	}
	return q
}

// ChiaPriceBoard prices every tracked CAT. A board without any priced CAT is
// not cached; a stale board is served instead when one exists.
func (s *tokenPriceServiceImpl) ChiaPriceBoard(ctx context.Context) port.PriceBoard {
	var built port.PriceBoard
	board, _, err := cache.GetOrLoad(ctx, s.cache, priceBoardKey, func(ctx context.Context) (port.PriceBoard, error) {
		built = s.buildBoard(ctx)
		if built.Error != "" {
			return built, errors.New(built.Error)
		}
		return built, nil
	})
	if err != nil {
		return built
	}
	return board
}

func (s *tokenPriceServiceImpl) buildBoard(ctx context.Context) port.PriceBoard {
	board := port.PriceBoard{
		Prices:  map[string]float64{},
		Changes: map[string]float64{},
		Mcaps:   map[string]float64{},
		Sources: map[string]entity.PriceSource{},
		Success: true,
	}
	tokens, err := s.tokens.GetTokens(entity.ChainChia)
	if err != nil {
		s.logger.Error("Failed to get Chia tokens", "error", err)
		board.Error = err.Error()
		return board
	}

	var (
		xch       entity.PriceQuote
		tickers   map[string]float64
		spacescan map[string]entity.PriceQuote
	)
	var g errgroup.Group
	g.Go(func() error {
		xch = s.NativeQuote(ctx, entity.ChainChia)
		return nil
	})
	g.Go(func() error {
		tickers = s.dexie.Tickers(ctx).Or(map[string]float64{})
		return nil
	})
	g.Go(func() error {
		spacescan = s.spacescanQuotes(ctx, tokens)
		return nil
	})
	_ = g.Wait()
	board.XCHUSD = xch.Price

	quotes := make([]entity.PriceQuote, len(tokens))
	var fan errgroup.Group
	for i, t := range tokens {
		i, t := i, t
		fan.Go(func() error {
			quotes[i] = s.resolveCAT(ctx, t.Address, xch, tickers, spacescan)
			return nil
		})
	}
	_ = fan.Wait()

	priced := 0
	for i, t := range tokens {
		q := quotes[i]
		board.Prices[t.Address] = q.Price
		board.Changes[t.Address] = q.Change24h
		board.Mcaps[t.Address] = q.MarketCap
		board.Sources[t.Address] = q.Source
		if q.Valid() {
			priced++
		}
	}
	if priced == 0 && len(tokens) > 0 {
		board.Error = errNoCATPrices.Error()
	}
	s.logger.Info("Chia price board built", "tokens", len(tokens), "priced", priced, "xch_usd", board.XCHUSD)
	return board
}

// spacescanQuotes asks Spacescan for every token in turn. The client gate
// spaces the calls.
func (s *tokenPriceServiceImpl) spacescanQuotes(ctx context.Context, tokens []entity.TokenInfo) map[string]entity.PriceQuote {
	out := make(map[string]entity.PriceQuote, len(tokens))
	for _, t := range tokens {
		if ctx.Err() != nil {
			break
		}
		if l := s.spacescan.CATPrice(ctx, t.Address); l.OK && l.Value.Valid() {
			out[t.Address] = l.Value
		}
	}
	return out
}

func (s *tokenPriceServiceImpl) resolveCAT(
	ctx context.Context,
	assetID string,
	xch entity.PriceQuote,
	tickers map[string]float64,
	spacescan map[string]entity.PriceQuote,
) entity.PriceQuote {
	return ResolvePrice(ctx, "cat_price", []Source[entity.PriceQuote]{
		{
			Name: entity.SourceSpacescan,
			Fetch: func(context.Context) entity.Lookup[entity.PriceQuote] {
				if q, ok := spacescan[assetID]; ok {
					return entity.Found(q)
				}
				return entity.Absent[entity.PriceQuote]()
			},
		},
		{
			Name: entity.SourceDexie,
			Fetch: func(context.Context) entity.Lookup[entity.PriceQuote] {
				inXCH := tickers[strings.ToLower(assetID)]
				if inXCH <= 0 || !xch.Valid() {
					return entity.Absent[entity.PriceQuote]()
				}
				return entity.Found(entity.PriceQuote{Price: inXCH * xch.Price, Source: entity.SourceDexie})
			},
		},
		{
			Name: entity.SourceDexie,
			Fetch: func(ctx context.Context) entity.Lookup[entity.PriceQuote] {
				if !xch.Valid() {
					return entity.Absent[entity.PriceQuote]()
				}
				l := s.dexie.BestAsk(ctx, assetID)
				if !l.OK {
					return entity.Failed[entity.PriceQuote](l.Err)
				}
				return entity.Found(entity.PriceQuote{Price: l.Value * xch.Price, Source: entity.SourceDexie})
			},
		},
	})
}
