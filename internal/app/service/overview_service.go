package service

import (
	"context"
	"fmt"
	"sync"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

var _ port.OverviewService = (*OverviewServiceImpl)(nil)

// OverviewServiceImpl implements port.OverviewService.
type OverviewServiceImpl struct {
	holdings port.HoldingsService
	treasury port.TreasuryService
	wallets  port.WalletProvider
	logger   port.Logger
}

// NewOverviewService creates an OverviewServiceImpl.
func NewOverviewService(h port.HoldingsService, t port.TreasuryService, wp port.WalletProvider, l port.Logger) *OverviewServiceImpl {
	return &OverviewServiceImpl{holdings: h, treasury: t, wallets: wp, logger: l}
}

// Overview fetches every Base wallet concurrently next to the Chia
// portfolio. Wallets that fail are skipped and reported in Errors.
func (s *OverviewServiceImpl) Overview(ctx context.Context) (entity.TreasuryOverview, error) {
	ov := entity.TreasuryOverview{
		Base:        []entity.HoldingRow{},
		Chia:        []entity.HoldingRow{},
		Collections: []entity.NFTCollection{},
	}
	baseWallets, err := s.wallets.GetWalletsByChain(entity.ChainBase)
	if err != nil {
		return ov, fmt.Errorf("load base wallets: %w", err)
	}
	chiaWallets, err := s.wallets.GetWalletsByChain(entity.ChainChia)
	if err != nil {
		return ov, fmt.Errorf("load chia wallets: %w", err)
	}

	var (
		mu      sync.Mutex
		reports = make([]entity.HoldingsReport, len(baseWallets))
		ok      = make([]bool, len(baseWallets))
	)
	addError := func(msg string) {
		mu.Lock()
		ov.Errors = append(ov.Errors, msg)
		mu.Unlock()
	}

	var g errgroup.Group
	for i, w := range baseWallets {
		i, w := i, w
		g.Go(func() error {
			r, err := s.holdings.Holdings(ctx, entity.ChainBase, w)
			if err != nil {
				s.logger.Warn("Base wallet skipped", "wallet", w, "error", err)
				addError(fmt.Sprintf("base %s: %v", w, err))
				return nil
			}
			reports[i], ok[i] = r, true
			return nil
		})
	}
	var chia entity.AggregatedPortfolio
	chiaOK := false
	if len(chiaWallets) > 0 {
		g.Go(func() error {
			p, err := s.treasury.ChiaPortfolio(ctx, chiaWallets)
			if err != nil {
				s.logger.Warn("Chia portfolio unavailable", "error", err)
				addError(fmt.Sprintf("chia: %v", err))
				return nil
			}
			chia, chiaOK = p, true
			return nil
		})
	}
	_ = g.Wait()

	for i := range reports {
		if ok[i] {
			ov.Base = append(ov.Base, reports[i].Tokens...)
		}
	}
	if chiaOK {
		ov.Chia = PortfolioRows(chia)
		if chia.Collections != nil {
			ov.Collections = chia.Collections
		}
	}
	ov.BaseTotal = rowsTotal(ov.Base)
	ov.ChiaTotal = rowsTotal(ov.Chia)
	ov.Total = neumaierSum([]float64{ov.BaseTotal, ov.ChiaTotal})
	return ov, nil
}
