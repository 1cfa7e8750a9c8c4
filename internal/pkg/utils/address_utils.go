package utils

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

var chiaAddressRe = regexp.MustCompile(`^xch1[0-9a-z]+$`)

// IsChiaAddress reports whether s has the shape of a Chia bech32m address.
// Only lowercase alphanumerics may follow the prefix, so the value is always
// safe as a single URL path segment.
func IsChiaAddress(s string) bool {
	return chiaAddressRe.MatchString(s)
}

// IsEVMAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsEVMAddress(s string) bool {
	return len(s) == 42 && common.IsHexAddress(s)
}
