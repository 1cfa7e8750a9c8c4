package configloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"treasury_checker/internal/pkg/utils"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "config/config.yml"

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port              string `yaml:"port"`
	ReadTimeoutSecs   int    `yaml:"readTimeoutSecs"`
	WriteTimeoutSecs  int    `yaml:"writeTimeoutSecs"`
	ShutdownTimeoutMs int64  `yaml:"shutdownTimeoutMs"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SpecFile string `yaml:"specFile"`
}

// RetryConfig is the retry policy shared by every upstream adapter.
type RetryConfig struct {
	MaxAttempts         int   `yaml:"maxAttempts"`
	RateLimitBaseMillis int64 `yaml:"rateLimitBaseMillis"`
	TransientStepMillis int64 `yaml:"transientStepMillis"`
}

// CacheConfig holds TTLs of the read-through caches.
type CacheConfig struct {
	TreasuryTTLSeconds int `yaml:"treasuryTTLSeconds"`
	PricesTTLSeconds   int `yaml:"pricesTTLSeconds"`
}

// UpstreamConfig configures one third-party API.
type UpstreamConfig struct {
	BaseURL           string `yaml:"baseURL"`
	APIKey            string `yaml:"apiKey"`
	TimeoutMillis     int64  `yaml:"timeoutMillis"`
	MinIntervalMillis int64  `yaml:"minIntervalMillis"`
}

// Timeout returns the configured timeout.
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutMillis) * time.Millisecond
}

// MinInterval returns the configured spacing between calls.
func (u UpstreamConfig) MinInterval() time.Duration {
	return time.Duration(u.MinIntervalMillis) * time.Millisecond
}

// UpstreamsConfig groups every upstream.
type UpstreamsConfig struct {
	Spacescan     UpstreamConfig `yaml:"spacescan"`
	XCHScan       UpstreamConfig `yaml:"xchscan"`
	Dexie         UpstreamConfig `yaml:"dexie"`
	CoinGecko     UpstreamConfig `yaml:"coingecko"`
	DEXScreener   UpstreamConfig `yaml:"dexscreener"`
	GeckoTerminal UpstreamConfig `yaml:"geckoterminal"`
	Blockscout    UpstreamConfig `yaml:"blockscout"`
	MintGarden    UpstreamConfig `yaml:"mintgarden"`
	// MaxTokensPerBatchRequest caps DEXScreener addresses per request.
	MaxTokensPerBatchRequest int `yaml:"maxTokensPerBatchRequest"`
}

// RPCConfig configures the Base JSON-RPC pool.
type RPCConfig struct {
	Endpoints           []string `yaml:"endpoints"`
	CallTimeoutMillis   int64    `yaml:"callTimeoutMillis"`
	MaxAttempts         int      `yaml:"maxAttempts"`
	RotationDelayMillis int64    `yaml:"rotationDelayMillis"`
	BatchSize           int      `yaml:"batchSize"`
	BatchDelayMillis    int64    `yaml:"batchDelayMillis"`
}

// PricingConfig holds fallback prices used when every live source fails.
type PricingConfig struct {
	XCHFallbackUSD float64 `yaml:"xchFallbackUsd"`
	ETHFallbackUSD float64 `yaml:"ethFallbackUsd"`
}

// TreasuryConfig lists the tracked treasury wallets.
type TreasuryConfig struct {
	ChiaWallets       []string `yaml:"chiaWallets"`
	BaseWallets       []string `yaml:"baseWallets"`
	WalletsFile       string   `yaml:"walletsFile"`
	WalletDelayMillis int64    `yaml:"walletDelayMillis"`
	MaxCollectionIDs  int      `yaml:"maxCollectionIds"`
}

// MarketConfig configures the market board.
type MarketConfig struct {
	TokensDir string `yaml:"tokensDir"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Swagger   SwaggerConfig   `yaml:"swagger"`
	Retry     RetryConfig     `yaml:"retry"`
	Cache     CacheConfig     `yaml:"cache"`
	Upstreams UpstreamsConfig `yaml:"upstreams"`
	BaseRPC   RPCConfig       `yaml:"baseRpc"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Treasury  TreasuryConfig  `yaml:"treasury"`
	Market    MarketConfig    `yaml:"market"`
}

// PathFromEnv returns CONFIG_PATH or the default path.
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the YAML configuration file from the given path and unmarshals it.
// A missing file yields the defaults. API keys may be overridden from the environment.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.Warnf("Config file %s not found, using defaults", path)
	case err != nil:
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	logrus.Infof("Configuration loaded: %d chia wallets, %d base wallets, %d base RPC endpoints",
		len(cfg.Treasury.ChiaWallets), len(cfg.Treasury.BaseWallets), len(cfg.BaseRPC.Endpoints))
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"SPACESCAN_API_KEY", &cfg.Upstreams.Spacescan.APIKey},
		{"MINTGARDEN_API_KEY", &cfg.Upstreams.MintGarden.APIKey},
		{"COINGECKO_API_KEY", &cfg.Upstreams.CoinGecko.APIKey},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
			logrus.Debugf("%s taken from environment", o.env)
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSecs <= 0 {
		cfg.Server.ReadTimeoutSecs = 30
	}
	if cfg.Server.WriteTimeoutSecs <= 0 {
		cfg.Server.WriteTimeoutSecs = 120
	}
	if cfg.Server.ShutdownTimeoutMs <= 0 {
		cfg.Server.ShutdownTimeoutMs = 5000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Swagger.SpecFile == "" {
		cfg.Swagger.SpecFile = "./docs/swagger.yaml"
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.RateLimitBaseMillis <= 0 {
		cfg.Retry.RateLimitBaseMillis = 3000
	}
	if cfg.Retry.TransientStepMillis <= 0 {
		cfg.Retry.TransientStepMillis = 1500
	}

	if cfg.Cache.TreasuryTTLSeconds <= 0 {
		cfg.Cache.TreasuryTTLSeconds = 300
	}
	if cfg.Cache.PricesTTLSeconds <= 0 {
		cfg.Cache.PricesTTLSeconds = 60
	}

	up := &cfg.Upstreams
	defaultUpstream(&up.Spacescan, "https://api.spacescan.io", 12000, 250)
	defaultUpstream(&up.XCHScan, "https://xchscan.com/api", 15000, 0)
	defaultUpstream(&up.Dexie, "https://api.dexie.space", 10000, 0)
	defaultUpstream(&up.CoinGecko, "https://api.coingecko.com/api/v3", 10000, 0)
	defaultUpstream(&up.DEXScreener, "https://api.dexscreener.com", 10000, 300)
	defaultUpstream(&up.GeckoTerminal, "https://api.geckoterminal.com/api/v2", 10000, 0)
	defaultUpstream(&up.Blockscout, "https://base.blockscout.com/api/v2", 10000, 0)
	defaultUpstream(&up.MintGarden, "https://api.mintgarden.io", 3000, 0)
	if up.MaxTokensPerBatchRequest <= 0 {
		up.MaxTokensPerBatchRequest = 20 // DEXScreener limit
	}

	rpc := &cfg.BaseRPC
	if rpc.CallTimeoutMillis <= 0 {
		rpc.CallTimeoutMillis = 6000
	}
	if rpc.MaxAttempts <= 0 {
		rpc.MaxAttempts = 3
	}
	if rpc.RotationDelayMillis <= 0 {
		rpc.RotationDelayMillis = 500
	}
	if rpc.BatchSize <= 0 {
		rpc.BatchSize = 5
	}
	if rpc.BatchDelayMillis <= 0 {
		rpc.BatchDelayMillis = 250
	}

	if cfg.Pricing.XCHFallbackUSD <= 0 {
		cfg.Pricing.XCHFallbackUSD = 3
	}
	if cfg.Pricing.ETHFallbackUSD <= 0 {
		cfg.Pricing.ETHFallbackUSD = 2500
	}

	if len(cfg.Treasury.ChiaWallets) == 0 && cfg.Treasury.WalletsFile == "" {
		cfg.Treasury.ChiaWallets = []string{
			"xch10na8nqys9afs0fl74vvd6xl3akgu77p8mvjsp2ywy7rhq2s0jqys3nf7dl",
			"xch1g477lha2wjjq9634kgqmryf4gplft9cjgv2vd29tq3ya26glwlkqp6pyex",
			"xch1el40ydk4v2ccdq2l8d28wvr8hnndar0xywfgqel36f85ps8gj9jqfrm64j",
		}
	}
	if len(cfg.Treasury.BaseWallets) == 0 && cfg.Treasury.WalletsFile == "" {
		cfg.Treasury.BaseWallets = []string{
			"0x8d8cb6D19E32115823Cf0008701A84fB07F43467",
			"0xEEDC069F861880eC1B5f41c9bC7a747DC1cE32b9",
		}
	}
	if cfg.Treasury.WalletDelayMillis <= 0 {
		cfg.Treasury.WalletDelayMillis = 3000
	}
	if cfg.Treasury.MaxCollectionIDs <= 0 {
		cfg.Treasury.MaxCollectionIDs = 60
	}
	if cfg.Market.TokensDir == "" {
		cfg.Market.TokensDir = "data/tokens"
	}
}

func defaultUpstream(u *UpstreamConfig, baseURL string, timeoutMillis, intervalMillis int64) {
	if u.BaseURL == "" {
		u.BaseURL = baseURL
	}
	if u.TimeoutMillis <= 0 {
		u.TimeoutMillis = timeoutMillis
	}
	if u.MinIntervalMillis <= 0 {
		u.MinIntervalMillis = intervalMillis
	}
}

func validate(cfg *Config) error {
	for _, w := range cfg.Treasury.BaseWallets {
		if !utils.IsEVMAddress(w) {
			return fmt.Errorf("invalid base wallet address %q", w)
		}
	}
	for _, w := range cfg.Treasury.ChiaWallets {
		if !utils.IsChiaAddress(w) {
			return fmt.Errorf("invalid chia wallet address %q", w)
		}
	}
	return nil
}

// Duration converts a millisecond setting.
func Duration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
