package main

import (
	"bytes"
	"strings"
	"testing"

	"treasury_checker/internal/domain/entity"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	want := []string{"prices", "wallets", "holdings", "market", "treasury"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	market, _, _ := root.Find([]string{"market"})
	if f := market.Flags().Lookup("sort"); f == nil || f.DefValue != "marketCap" {
		t.Fatalf("market --sort default = %v", f)
	}
}

func TestHoldingsArgs(t *testing.T) {
	cases := []struct {
		chain, address string
		wantErr        string
		wantChain      entity.Chain
	}{
		{"", "", "missing chain", ""},
		{"solana", "x", "invalid chain", ""},
		{"base", " ", "missing address", ""},
		{"BASE", "0xabc", "", entity.ChainBase},
		{"chia", "", "", entity.ChainChia},
	}
	for _, tc := range cases {
		chain, _, err := holdingsArgs(tc.chain, tc.address)
		if tc.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("holdingsArgs(%q, %q) err = %v", tc.chain, tc.address, err)
			}
			continue
		}
		if err != nil || chain != tc.wantChain {
			t.Fatalf("holdingsArgs(%q, %q) = %q, %v", tc.chain, tc.address, chain, err)
		}
	}
}

func TestHoldingsRejectsBadChainBeforeWiring(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"holdings", "--chain", "solana"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected error for invalid chain")
	}
}

func TestWriteJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]int{"total": 3}); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"total\"") || !strings.HasSuffix(buf.String(), "}\n") {
		t.Fatalf("output = %q", buf.String())
	}
}
