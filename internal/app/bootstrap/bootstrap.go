// Package bootstrap wires clients, services and handlers from a loaded config.
package bootstrap

import (
	"fmt"
	"time"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/app/service"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/infrastructure/cache"
	"treasury_checker/internal/infrastructure/configloader"
	"treasury_checker/internal/infrastructure/httpclient"
	clientprovider "treasury_checker/internal/infrastructure/network/client"
	networkdefinition "treasury_checker/internal/infrastructure/network/definition"
	"treasury_checker/internal/infrastructure/ratelimit"
	"treasury_checker/internal/infrastructure/restapi"
	"treasury_checker/internal/infrastructure/tokenloader"
	"treasury_checker/internal/infrastructure/walletloader"
	"treasury_checker/internal/pkg/retry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const marketQuoteInterval = 100 * time.Millisecond

// App holds every wired component.
type App struct {
	Config *configloader.Config

	Wallets  port.WalletProvider
	Tokens   port.TokenProvider
	Networks *networkdefinition.NetworkDefinitionProvider

	Spacescan client.SpacescanClient

	Prices      port.PriceService
	Treasury    port.TreasuryService
	Holdings    port.HoldingsService
	Market      port.MarketService
	Collections port.CollectionsService
	Overview    port.OverviewService

	pools  *clientprovider.RPCPoolProvider
	zap    *zap.Logger
	logger port.Logger
}

// Build wires the application. No network call is made until a service is used.
func Build(cfg *configloader.Config, zapLogger *zap.Logger, log port.Logger) (*App, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	up := cfg.Upstreams

	gates := ratelimit.NewRegistry(map[string]time.Duration{
		"spacescan":     up.Spacescan.MinInterval(),
		"xchscan":       up.XCHScan.MinInterval(),
		"dexie":         up.Dexie.MinInterval(),
		"coingecko":     up.CoinGecko.MinInterval(),
		"dexscreener":   up.DEXScreener.MinInterval(),
		"geckoterminal": up.GeckoTerminal.MinInterval(),
		"blockscout":    up.Blockscout.MinInterval(),
		"mintgarden":    up.MintGarden.MinInterval(),
	})
	policy := retry.Policy{
		MaxAttempts:      cfg.Retry.MaxAttempts,
		RateLimitBackoff: retry.Exponential(configloader.Duration(cfg.Retry.RateLimitBaseMillis)),
		TransientBackoff: retry.Linear(configloader.Duration(cfg.Retry.TransientStepMillis)),
		Classify:         retry.ClassifyFetch,
	}
	options := func(name string, u configloader.UpstreamConfig) client.Options {
		return client.Options{
			BaseURL: u.BaseURL,
			APIKey:  u.APIKey,
			Timeout: u.Timeout(),
			Gate:    gates.Gate(name),
			Policy:  policy,
		}
	}

	fetcher := httpclient.NewFetcher(0, zapLogger)
	spacescan := client.NewSpacescanClient(fetcher, options("spacescan", up.Spacescan), zapLogger)
	xchscan := client.NewXCHScanClient(fetcher, options("xchscan", up.XCHScan), zapLogger)
	dexie := client.NewDexieClient(fetcher, options("dexie", up.Dexie), zapLogger)
	coingecko := client.NewCoinGeckoClient(fetcher, options("coingecko", up.CoinGecko), zapLogger)
	dexscreener := client.NewDEXScreenerClient(fetcher, options("dexscreener", up.DEXScreener), zapLogger, up.MaxTokensPerBatchRequest)
	gecko := client.NewGeckoTerminalClient(fetcher, options("geckoterminal", up.GeckoTerminal), zapLogger)
	blockscout := client.NewBlockscoutClient(fetcher, options("blockscout", up.Blockscout), zapLogger)
	// Collection lookups fail fast; one attempt only.
	mgOpts := options("mintgarden", up.MintGarden)
	mgOpts.Policy = retry.NoRetry()
	mintgarden := client.NewMintGardenClient(fetcher, mgOpts, zapLogger)

	var rpcOverrides map[entity.Chain][]string
	if len(cfg.BaseRPC.Endpoints) > 0 {
		rpcOverrides = map[entity.Chain][]string{entity.ChainBase: cfg.BaseRPC.Endpoints}
	}
	networks := networkdefinition.NewNetworkDefinitionProvider(log, rpcOverrides)
	pools := clientprovider.NewRPCPoolProvider(clientprovider.PoolOptions{
		CallTimeout:   configloader.Duration(cfg.BaseRPC.CallTimeoutMillis),
		MaxAttempts:   cfg.BaseRPC.MaxAttempts,
		RotationDelay: configloader.Duration(cfg.BaseRPC.RotationDelayMillis),
	}, nil, zapLogger)
	baseDef, ok := networks.GetNetworkDefinitionByName(string(entity.ChainBase))
	if !ok {
		baseDef = networkdefinition.Base
	}
	basePool, err := pools.GetPool(baseDef)
	if err != nil {
		return nil, fmt.Errorf("base rpc pool: %w", err)
	}
	poolReader := clientprovider.NewPoolReader(basePool, cfg.BaseRPC.BatchSize,
		configloader.Duration(cfg.BaseRPC.BatchDelayMillis), zapLogger)

	wallets := walletloader.NewWalletFileLoader(cfg.Treasury.WalletsFile, cfg.Treasury.ChiaWallets, cfg.Treasury.BaseWallets, log)
	tokens := tokenloader.NewTokenLoader(cfg.Market.TokensDir, log)

	priceCache := cache.New(time.Duration(cfg.Cache.PricesTTLSeconds) * time.Second)
	treasuryCache := cache.New(time.Duration(cfg.Cache.TreasuryTTLSeconds) * time.Second)

	prices := service.NewTokenPriceService(spacescan, dexie, coingecko, tokens, networks, service.PriceFallbacks{
		entity.ChainChia: cfg.Pricing.XCHFallbackUSD,
		entity.ChainBase: cfg.Pricing.ETHFallbackUSD,
	}, priceCache, log)
	treasury := service.NewTreasuryService(spacescan, xchscan, prices,
		ratelimit.NewSerialGate("treasury-steps", configloader.Duration(cfg.Treasury.WalletDelayMillis)), treasuryCache, log)
	holdings := service.NewPortfolioService(blockscout, dexscreener, poolReader, prices, treasury, wallets, networks, log)
	market := service.NewMarketService(tokens, prices, networks, dexscreener, gecko,
		ratelimit.NewGate("market-quotes", marketQuoteInterval), log)

	return &App{
		Config:      cfg,
		Wallets:     wallets,
		Tokens:      tokens,
		Networks:    networks,
		Spacescan:   spacescan,
		Prices:      prices,
		Treasury:    treasury,
		Holdings:    holdings,
		Market:      market,
		Collections: service.NewCollectionsService(mintgarden, cfg.Treasury.MaxCollectionIDs, log),
		Overview:    service.NewOverviewService(holdings, treasury, wallets, log),
		pools:       pools,
		zap:         zapLogger,
		logger:      log,
	}, nil
}

// Router builds the HTTP engine over the wired services.
func (a *App) Router() *gin.Engine {
	return restapi.SetupRouter(
		restapi.NewPortfolioHandler(a.Prices, a.Treasury, a.Holdings, a.Overview, a.Wallets, a.logger),
		restapi.NewMarketHandler(a.Market, a.Collections, a.logger),
		restapi.NewProxyHandler(a.Spacescan, a.logger),
		restapi.RouterOptions{
			SwaggerEnabled:  a.Config.Swagger.Enabled,
			SwaggerSpecFile: a.Config.Swagger.SpecFile,
		},
		a.zap,
	)
}

// Close releases the RPC connections.
func (a *App) Close() {
	a.pools.Close()
}
