package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/cache"
	"treasury_checker/internal/infrastructure/ratelimit"
)

var errNoWalletData = errors.New("no Chia wallet returned data")

var _ port.TreasuryService = (*TreasuryServiceImpl)(nil)

// TreasuryServiceImpl implements port.TreasuryService.
type TreasuryServiceImpl struct {
	spacescan client.SpacescanClient
	xchscan   client.XCHScanClient
	prices    port.PriceService
	steps     *ratelimit.Gate
	cache     *cache.TTLCache
	now       func() time.Time
	logger    port.Logger
}

// NewTreasuryService creates a TreasuryServiceImpl. steps spaces every
// per-wallet request so a sweep stays under the indexer's rate limit.
func NewTreasuryService(
	spacescan client.SpacescanClient,
	xchscan client.XCHScanClient,
	prices port.PriceService,
	steps *ratelimit.Gate,
	c *cache.TTLCache,
	l port.Logger,
) *TreasuryServiceImpl {
	return &TreasuryServiceImpl{
		spacescan: spacescan,
		xchscan:   xchscan,
		prices:    prices,
		steps:     steps,
		cache:     c,
		now:       time.Now,
		logger:    l,
	}
}

// WalletSnapshots fetches wallets strictly one after another.
func (s *TreasuryServiceImpl) WalletSnapshots(ctx context.Context, wallets []string) []entity.WalletSnapshot {
	out := make([]entity.WalletSnapshot, 0, len(wallets))
	for _, w := range wallets {
		if ctx.Err() != nil {
			s.logger.Warn("Wallet sweep cancelled", "done", len(out), "total", len(wallets))
			break
		}
		out = append(out, s.snapshot(ctx, w))
	}
	return out
}

func (s *TreasuryServiceImpl) snapshot(ctx context.Context, wallet string) entity.WalletSnapshot {
	snap := entity.WalletSnapshot{
		Wallet:  wallet,
		NFTs:    []entity.NFT{},
		Tokens:  []entity.CATHolding{},
		Balance: entity.Absent[float64](),
	}

	s.step(ctx, func(ctx context.Context) {
		bal, src, ok := Resolve(ctx, "xch_balance", []Source[float64]{
			{Name: entity.SourceXCHScan, Fetch: func(ctx context.Context) entity.Lookup[float64] { return s.xchscan.XCHBalance(ctx, wallet) }},
			{Name: entity.SourceSpacescan, Fetch: func(ctx context.Context) entity.Lookup[float64] { return s.spacescan.XCHBalance(ctx, wallet) }},
		})
		if ok {
			snap.XCHBalance = bal
			snap.Balance = entity.Found(bal)
			s.logger.Debug("XCH balance resolved", "wallet", wallet, "source", src, "xch", bal)
		}
	})
	s.step(ctx, func(ctx context.Context) {
		if l := s.spacescan.NFTs(ctx, wallet); l.OK {
			snap.NFTs = l.Value
		}
	})
	s.step(ctx, func(ctx context.Context) {
		if l := s.spacescan.TokenBalances(ctx, wallet); l.OK {
			snap.Tokens = l.Value
		}
	})
	return snap
}

func (s *TreasuryServiceImpl) step(ctx context.Context, fn func(ctx context.Context)) {
	err := s.steps.Do(ctx, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	if err != nil {
		s.logger.Debug("Wallet step skipped", "error", err)
	}
}

// ChiaPortfolio merges the snapshots of wallets. Results are cached per
// wallet set; when every wallet fails the previous result is served.
func (s *TreasuryServiceImpl) ChiaPortfolio(ctx context.Context, wallets []string) (entity.AggregatedPortfolio, error) {
	p, _, err := cache.GetOrLoad(ctx, s.cache, portfolioKey(wallets), func(ctx context.Context) (entity.AggregatedPortfolio, error) {
		return s.loadPortfolio(ctx, wallets)
	})
	return p, err
}

func (s *TreasuryServiceImpl) loadPortfolio(ctx context.Context, wallets []string) (entity.AggregatedPortfolio, error) {
	if len(wallets) == 0 {
		return stamp(Merge(entity.ChainChia, nil), 0, []entity.NFTCollection{}, s.now()), nil
	}
	xch := s.prices.NativeQuote(ctx, entity.ChainChia)
	snaps := s.WalletSnapshots(ctx, wallets)

	var (
		balances []entity.Balance
		nfts     []entity.NFT
		answered int
	)
	for _, snap := range snaps {
		if snap.Balance.OK || len(snap.NFTs) > 0 || len(snap.Tokens) > 0 {
			answered++
		}
		balances = append(balances, SnapshotBalances(snap, xch)...)
		nfts = append(nfts, snap.NFTs...)
	}
	if answered == 0 {
		return entity.AggregatedPortfolio{}, errNoWalletData
	}

	p := stamp(Merge(entity.ChainChia, balances), len(wallets), GroupCollections(nfts), s.now())
	s.logger.Info("Chia portfolio merged",
		"wallets", len(wallets), "answered", answered, "holdings", len(p.Holdings), "total_usd", p.TotalValueUSD)
	return p, nil
}

func portfolioKey(wallets []string) string {
	keys := make([]string, 0, len(wallets))
	for _, w := range wallets {
		keys = append(keys, strings.ToLower(strings.TrimSpace(w)))
	}
	sort.Strings(keys)
	return "chia-portfolio:" + strings.Join(keys, ",")
}
