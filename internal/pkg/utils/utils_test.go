package utils

import (
	"math/big"
	"reflect"
	"testing"
)

func TestScaleAmount(t *testing.T) {
	raw, _ := new(big.Int).SetString("1234500000000000000", 10)
	if got := ScaleAmount(raw, 18); got != 1.2345 {
		t.Fatalf("ScaleAmount = %v, want 1.2345", got)
	}
	if got := ScaleAmount(nil, 18); got != 0 {
		t.Fatalf("nil amount should scale to 0, got %v", got)
	}
	if got := ScaleAmount(big.NewInt(1000), 0); got != 1000 {
		t.Fatalf("zero decimals = %v", got)
	}
}

func TestFormatBigInt(t *testing.T) {
	raw, _ := new(big.Int).SetString("1234500000000000000", 10)
	if got := FormatBigInt(raw, 18); got != "1.2345" {
		t.Fatalf("FormatBigInt = %q", got)
	}
}

func TestParseBigInt(t *testing.T) {
	cases := map[string]int64{"42": 42, "0x2a": 42, " 7 ": 7, "0x": 0}
	for in, want := range cases {
		if got := ParseBigInt(in); got == nil || got.Int64() != want {
			t.Fatalf("ParseBigInt(%q) = %v, want %d", in, got, want)
		}
	}
	if ParseBigInt("abc") != nil || ParseBigInt("") != nil {
		t.Fatalf("invalid input must yield nil")
	}
}

func TestParseDecimals(t *testing.T) {
	if ParseDecimals("6", 18) != 6 || ParseDecimals("", 18) != 18 || ParseDecimals("999", 18) != 18 {
		t.Fatalf("ParseDecimals fallback mismatch")
	}
}

func TestBatch(t *testing.T) {
	got := Batch([]int{1, 2, 3, 4, 5, 6, 7}, 5)
	want := [][]int{{1, 2, 3, 4, 5}, {6, 7}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Batch = %v, want %v", got, want)
	}
	if len(Batch([]int{}, 5)) != 0 {
		t.Fatalf("empty input should produce no batches")
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" xch1a, ,xch1b ,")
	want := []string{"xch1a", "xch1b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitCSV = %v, want %v", got, want)
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(12.345678, 4); got != 12.3457 {
		t.Fatalf("RoundTo = %v", got)
	}
}

func TestAddressShapes(t *testing.T) {
	chia := map[string]bool{
		"xch10na8nqys9afs0fl74vvd6xl3akgu77p8mvjsp2ywy7rhq2s0jqys3nf7dl": true,
		"xch1a":                  true,
		"xch1":                   false,
		"XCH1abc":                false,
		"xch1%2e%2e":             false,
		"xch1../admin":           false,
		"xch1abc/../../keys":     false,
		"0x8d8cb6D19E32115823Cf": false,
	}
	for in, want := range chia {
		if got := IsChiaAddress(in); got != want {
			t.Fatalf("IsChiaAddress(%q) = %v", in, got)
		}
	}

	evm := map[string]bool{
		"0x8d8cb6D19E32115823Cf0008701A84fB07F43467": true,
		"0x8d8cb6d19e32115823cf0008701a84fb07f43467": true,
		"8d8cb6D19E32115823Cf0008701A84fB07F43467":   false,
		"0x1234": false,
		"0x8d8cb6D19E32115823Cf0008701A84fB07F4346%": false,
	}
	for in, want := range evm {
		if got := IsEVMAddress(in); got != want {
			t.Fatalf("IsEVMAddress(%q) = %v", in, got)
		}
	}
}
