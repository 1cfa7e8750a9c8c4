package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"treasury_checker/internal/app/bootstrap"
	"treasury_checker/internal/app/service"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/restapi"

	"github.com/spf13/cobra"
)

func newPricesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prices",
		Short: "Print the Chia CAT price board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				return app.Prices.ChiaPriceBoard(ctx), nil
			})
		},
	}
}

func newWalletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallets",
		Short: "Sweep Chia wallets one by one (configured wallets when --wallet is omitted)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wallets, _ := cmd.Flags().GetStringSlice("wallet")
			return runApp(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				if len(wallets) == 0 {
					configured, err := app.Wallets.GetWalletsByChain(entity.ChainChia)
					if err != nil {
						return nil, err
					}
					wallets = configured
				}
				start := time.Now()
				snaps := app.Treasury.WalletSnapshots(ctx, wallets)
				return restapi.WalletsResponse{OK: true, Wallets: snaps, ElapsedMs: time.Since(start).Milliseconds()}, nil
			})
		},
	}
	cmd.Flags().StringSlice("wallet", nil, "chia wallet addresses (repeatable or comma-separated)")
	return cmd
}

func newHoldingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Print one wallet's holdings on base or chia",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rawChain, _ := cmd.Flags().GetString("chain")
			address, _ := cmd.Flags().GetString("address")
			chain, address, err := holdingsArgs(rawChain, address)
			if err != nil {
				return err
			}
			return runApp(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				report, err := app.Holdings.Holdings(ctx, chain, address)
				if err != nil {
					return restapi.HoldingsErrorResponse{Tokens: []entity.HoldingRow{}, Error: err.Error()}, nil
				}
				return report, nil
			})
		},
	}
	cmd.Flags().String("chain", "", "base or chia")
	cmd.Flags().String("address", "", "wallet address (optional on chia)")
	return cmd
}

func holdingsArgs(rawChain, address string) (entity.Chain, string, error) {
	rawChain, address = strings.TrimSpace(rawChain), strings.TrimSpace(address)
	if rawChain == "" {
		return "", "", fmt.Errorf("missing chain")
	}
	chain, ok := entity.ParseChain(rawChain)
	if !ok {
		return "", "", fmt.Errorf("invalid chain %q", rawChain)
	}
	if chain == entity.ChainBase && address == "" {
		return "", "", fmt.Errorf("missing address")
	}
	return chain, address, nil
}

func newMarketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Print the cross-chain market board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sort, _ := cmd.Flags().GetString("sort")
			query, _ := cmd.Flags().GetString("query")
			return runApp(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				view, err := app.Market.Market(ctx, sort, query)
				if err != nil {
					return restapi.MarketResponse{MarketView: view, Error: err.Error()}, nil
				}
				return restapi.MarketResponse{MarketView: view}, nil
			})
		},
	}
	cmd.Flags().String("sort", service.SortMarketCap, "marketCap, name or arbitrage")
	cmd.Flags().String("query", "", "filter by name, symbol or address")
	return cmd
}

func newTreasuryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "treasury",
		Short: "Print the whole-treasury summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, func(ctx context.Context, app *bootstrap.App) (any, error) {
				ov, err := app.Overview.Overview(ctx)
				if err != nil {
					return restapi.OverviewResponse{TreasuryOverview: ov, Error: err.Error()}, nil
				}
				return restapi.OverviewResponse{TreasuryOverview: ov}, nil
			})
		},
	}
}
