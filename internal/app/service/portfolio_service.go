package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/utils"
)

const (
	minNativeBalance = 0.0001
	minTokenBalance  = 0.000001
)

// ErrUnsupportedChain is returned for chains without a holdings source.
var ErrUnsupportedChain = errors.New("unsupported chain")

var _ port.HoldingsService = (*PortfolioServiceImpl)(nil)

// PortfolioServiceImpl implements port.HoldingsService.
type PortfolioServiceImpl struct {
	blockscout client.BlockscoutClient
	dex        client.DEXScreenerClient
	pools      port.PoolStateReader
	prices     port.PriceService
	treasury   port.TreasuryService
	wallets    port.WalletProvider
	networks   port.NetworkDefinitionProvider
	logger     port.Logger
}

// NewPortfolioService creates a new instance of PortfolioServiceImpl.
func NewPortfolioService(
	blockscout client.BlockscoutClient,
	dex client.DEXScreenerClient,
	pools port.PoolStateReader,
	prices port.PriceService,
	treasury port.TreasuryService,
	wp port.WalletProvider,
	np port.NetworkDefinitionProvider,
	l port.Logger,
) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{
		blockscout: blockscout,
		dex:        dex,
		pools:      pools,
		prices:     prices,
		treasury:   treasury,
		wallets:    wp,
		networks:   np,
		logger:     l,
	}
}

// Holdings reports the holdings of address on chain. On Chia an empty
// address means every configured treasury wallet.
func (s *PortfolioServiceImpl) Holdings(ctx context.Context, chain entity.Chain, address string) (entity.HoldingsReport, error) {
	report := entity.HoldingsReport{Chain: chain, Wallet: address, Tokens: []entity.HoldingRow{}}
	switch chain {
	case entity.ChainBase:
		rows, err := s.baseHoldings(ctx, address)
		if err != nil {
			return report, err
		}
		report.Tokens = rows
	case entity.ChainChia:
		wallets := []string{address}
		if strings.TrimSpace(address) == "" {
			var err error
			if wallets, err = s.wallets.GetWalletsByChain(entity.ChainChia); err != nil {
				return report, fmt.Errorf("load chia wallets: %w", err)
			}
		}
		p, err := s.treasury.ChiaPortfolio(ctx, wallets)
		if err != nil {
			return report, err
		}
		report.Tokens = PortfolioRows(p)
	default:
		return report, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	report.Total = rowsTotal(report.Tokens)
	return report, nil
}

func (s *PortfolioServiceImpl) baseHoldings(ctx context.Context, address string) ([]entity.HoldingRow, error) {
	def, ok := s.networks.GetNetworkDefinitionByName(string(entity.ChainBase))
	if !ok {
		return nil, fmt.Errorf("%w: base", ErrUnsupportedChain)
	}
	eth := s.prices.NativeQuote(ctx, entity.ChainBase)
	known := map[string]float64{}
	if eth.Valid() && def.WrappedNativeTokenAddress != "" {
		known[strings.ToLower(def.WrappedNativeTokenAddress)] = eth.Price
	}

	nativeL := s.blockscout.NativeBalance(ctx, address)
	tokensL := s.blockscout.TokenBalances(ctx, address)
	if !nativeL.OK && !tokensL.OK &&
		nativeL.Kind() != entity.FailureAbsent && tokensL.Kind() != entity.FailureAbsent {
		return nil, fmt.Errorf("blockscout unavailable for %s: %w", address, tokensL.Err)
	}

	rows := make([]entity.HoldingRow, 0)
	if nativeL.OK {
		amount := utils.ScaleAmount(nativeL.Value, def.Decimals)
		if amount > minNativeBalance {
			native := entity.Balance{
				Asset:  def.NativeAsset(),
				Kind:   entity.KindNative,
				Amount: amount,
			}
			rows = append(rows, balanceRow(native.Priced(eth)))
		}
	}

	var priced, unpriced, lps []entity.Balance
	for _, b := range tokensL.Or(nil) {
		if b.Amount < minTokenBalance {
			continue
		}
		switch {
		case IsLPToken(b.Asset.Symbol, b.Asset.Name):
			lps = append(lps, b)
		case b.PriceUSD > 0:
			known[strings.ToLower(b.Contract)] = b.PriceUSD
			priced = append(priced, b)
		default:
			unpriced = append(unpriced, b)
		}
	}
	for _, b := range priced {
		rows = append(rows, balanceRow(b))
	}

	if len(unpriced) > 0 {
		addrs := make([]string, len(unpriced))
		for i, b := range unpriced {
			addrs[i] = strings.ToLower(b.Contract)
		}
		quotes := s.liquidityPrices(ctx, def.DEXScreenerChainID, addrs)
		for _, b := range unpriced {
			q, ok := quotes[strings.ToLower(b.Contract)]
			if !ok {
				q = entity.NoPrice()
			}
			if q.Valid() {
				known[strings.ToLower(b.Contract)] = q.Price
			}
			rows = append(rows, balanceRow(b.Priced(q)))
		}
	}

	if len(lps) > 0 {
		rows = append(rows, s.lpRows(ctx, def, lps, known)...)
	}
	return rows, nil
}

func (s *PortfolioServiceImpl) liquidityPrices(ctx context.Context, chainID string, addrs []string) map[string]entity.PriceQuote {
	quotes, err := s.dex.LiquidityPrices(ctx, chainID, addrs)
	if err != nil {
		s.logger.Warn("DEXScreener prices unavailable", "tokens", len(addrs), "error", err)
		return map[string]entity.PriceQuote{}
	}
	return quotes
}

// lpRows reads every pool on chain and values the wallet's share of it.
// Pools that cannot be read are reported with a zero value.
func (s *PortfolioServiceImpl) lpRows(ctx context.Context, def entity.NetworkDefinition, lps []entity.Balance, known map[string]float64) []entity.HoldingRow {
	addrs := make([]string, len(lps))
	for i, b := range lps {
		addrs[i] = strings.ToLower(b.Contract)
	}
	states := s.pools.ReadPools(ctx, addrs)

	var underlying []string
	seen := map[string]bool{}
	for _, st := range states {
		if !st.OK {
			continue
		}
		for _, t := range []string{st.Value.Token0, st.Value.Token1} {
			t = strings.ToLower(t)
			if t != "" && !seen[t] {
				seen[t] = true
				underlying = append(underlying, t)
			}
		}
	}
	prices := map[string]float64{}
	if len(underlying) > 0 {
		for addr, q := range s.liquidityPrices(ctx, def.DEXScreenerChainID, underlying) {
			if q.Valid() {
				prices[addr] = q.Price
			}
		}
	}
	for addr, p := range known {
		if _, ok := prices[addr]; !ok {
			prices[addr] = p
		}
	}

	rows := make([]entity.HoldingRow, 0, len(lps))
	for _, b := range lps {
		key := strings.ToLower(b.Contract)
		st, ok := states[key]
		if !ok || !st.OK {
			s.logger.Warn("Pool state unavailable", "pool", b.Contract, "error", st.Err)
			rows = append(rows, entity.HoldingRow{
				Symbol: b.Asset.Symbol, Name: b.Asset.Name, Balance: b.Amount,
				Type: entity.KindLP, Contract: b.Contract,
			})
			continue
		}
		pair := [2]float64{
			prices[strings.ToLower(st.Value.Token0)],
			prices[strings.ToLower(st.Value.Token1)],
		}
		pos := ValuePosition(st.Value, b.Amount, pair)
		if pos.Approximated {
			s.logger.Debug("Pool valued from one side", "pool", b.Contract, "pair", pos.PairName())
		}
		rows = append(rows, positionRow(pos, b.Contract))
	}
	return rows
}
