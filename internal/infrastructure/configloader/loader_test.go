package configloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.RateLimitBaseMillis != 3000 {
		t.Fatalf("retry defaults = %+v", cfg.Retry)
	}
	if cfg.Upstreams.Spacescan.BaseURL != "https://api.spacescan.io" || cfg.Upstreams.Spacescan.Timeout() != 12*time.Second {
		t.Fatalf("spacescan defaults = %+v", cfg.Upstreams.Spacescan)
	}
	if cfg.Upstreams.DEXScreener.MinInterval() != 300*time.Millisecond {
		t.Fatalf("dexscreener interval = %v", cfg.Upstreams.DEXScreener.MinInterval())
	}
	if len(cfg.Treasury.ChiaWallets) != 3 || len(cfg.Treasury.BaseWallets) != 2 {
		t.Fatalf("default wallets = %d chia, %d base", len(cfg.Treasury.ChiaWallets), len(cfg.Treasury.BaseWallets))
	}
	if cfg.Pricing.XCHFallbackUSD != 3 || cfg.Pricing.ETHFallbackUSD != 2500 {
		t.Fatalf("fallback prices = %+v", cfg.Pricing)
	}
}

func TestLoadOverridesAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
upstreams:
  spacescan:
    apiKey: from-file
    timeoutMillis: 2000
baseRpc:
  endpoints: ["http://localhost:8545"]
  batchSize: 2
treasury:
  baseWallets: ["0x0000000000000000000000000000000000000001"]
  chiaWallets: []
  walletsFile: data/wallets.txt
`)
	t.Setenv("SPACESCAN_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("port = %q", cfg.Server.Port)
	}
	if cfg.Upstreams.Spacescan.APIKey != "from-env" {
		t.Fatalf("env override not applied: %q", cfg.Upstreams.Spacescan.APIKey)
	}
	if cfg.Upstreams.Spacescan.Timeout() != 2*time.Second {
		t.Fatalf("timeout = %v", cfg.Upstreams.Spacescan.Timeout())
	}
	if cfg.BaseRPC.BatchSize != 2 || cfg.BaseRPC.MaxAttempts != 3 {
		t.Fatalf("rpc = %+v", cfg.BaseRPC)
	}
	if len(cfg.Treasury.ChiaWallets) != 0 {
		t.Fatalf("wallets file configured, chia defaults must not be injected")
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"yaml":        "server: [",
		"base wallet": "treasury:\n  baseWallets: [\"0x1234\"]\n",
		"chia wallet": "treasury:\n  chiaWallets: [\"0xabc\"]\n",
		"chia path":   "treasury:\n  chiaWallets: [\"xch1abc/../keys\"]\n",
		"base hex":    "treasury:\n  baseWallets: [\"0x000000000000000000000000000000000000000g\"]\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	if PathFromEnv() != DefaultPath {
		t.Fatalf("default path = %q", PathFromEnv())
	}
	t.Setenv("CONFIG_PATH", "/etc/treasury.yml")
	if PathFromEnv() != "/etc/treasury.yml" {
		t.Fatalf("env path = %q", PathFromEnv())
	}
}
