package tokenloader

import (
	"os"
	"path/filepath"
	"testing"

	"treasury_checker/internal/domain/entity"
	networkdefinition "treasury_checker/internal/infrastructure/network/definition"
	"treasury_checker/internal/pkg/logger"
)

func TestGetTokensFallsBackToBuiltins(t *testing.T) {
	l := NewTokenLoader(t.TempDir(), logger.Discard())
	tokens, err := l.GetTokens(entity.ChainChia)
	if err != nil {
		t.Fatalf("GetTokens: %v", err)
	}
	if len(tokens) != len(networkdefinition.BuiltinTokens[entity.ChainChia]) {
		t.Fatalf("expected built-in chia list, got %d tokens", len(tokens))
	}
}

func TestGetTokensReadsFileAndSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	body := `[
  {"address": "0x0000000000000000000000000000000000000001", "name": "One", "symbol": "ONE", "decimals": 18},
  {"chain": "chia", "address": "abc", "name": "Wrong", "symbol": "W"},
  {"chain": "base", "address": "", "name": "Empty", "symbol": "E"}
]`
	if err := os.WriteFile(filepath.Join(dir, "base.json"), []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := NewTokenLoader(dir, logger.Discard())
	tokens, err := l.GetTokens(entity.ChainBase)
	if err != nil {
		t.Fatalf("GetTokens: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Symbol != "ONE" || tokens[0].Chain != entity.ChainBase {
		t.Fatalf("unexpected tokens %+v", tokens)
	}

	// cached: removing the file does not change the answer
	_ = os.Remove(filepath.Join(dir, "base.json"))
	again, _ := l.GetTokens(entity.ChainBase)
	if len(again) != 1 {
		t.Fatalf("expected cached result")
	}
}

func TestGetTokensRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "chia.json"), []byte("{"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewTokenLoader(dir, logger.Discard()).GetTokens(entity.ChainChia); err == nil {
		t.Fatalf("expected parse error")
	}
}
