package port

import "treasury_checker/internal/domain/entity"

// WalletProvider defines the interface for fetching treasury wallets.
type WalletProvider interface {
	GetWallets() ([]entity.Wallet, error)
	// GetWalletsByChain returns the addresses tracked on one chain.
	GetWalletsByChain(chain entity.Chain) ([]string, error)
}
