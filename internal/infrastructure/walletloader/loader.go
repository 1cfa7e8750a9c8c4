package walletloader

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/utils"
)

// WalletFileLoader implements the port.WalletProvider interface. Wallets come
// from the configured lists plus an optional file with one address per line.
type WalletFileLoader struct {
	filePath    string
	chiaWallets []string
	baseWallets []string
	logger      port.Logger
}

// NewWalletFileLoader creates a new WalletFileLoader. filePath may be empty.
func NewWalletFileLoader(filePath string, chiaWallets, baseWallets []string, logger port.Logger) port.WalletProvider {
	return &WalletFileLoader{
		filePath:    filePath,
		chiaWallets: chiaWallets,
		baseWallets: baseWallets,
		logger:      logger,
	}
}

// Classify returns the chain an address belongs to.
func Classify(address string) (entity.Chain, bool) {
	switch {
	case utils.IsEVMAddress(address):
		return entity.ChainBase, true
	case utils.IsChiaAddress(address) && len(address) > 10:
		return entity.ChainChia, true
	}
	return "", false
}

// GetWallets returns every configured wallet, deduplicated, configured lists first.
func (l *WalletFileLoader) GetWallets() ([]entity.Wallet, error) {
	var wallets []entity.Wallet
	seen := make(map[string]bool)
	add := func(address, origin string) {
		address = strings.TrimSpace(address)
		chain, ok := Classify(address)
		if !ok {
			l.logger.Warn("Skipping invalid wallet address format", "origin", origin, "address", address)
			return
		}
		key := strings.ToLower(address)
		if seen[key] {
			return
		}
		seen[key] = true
		wallets = append(wallets, entity.Wallet{Address: address, Chain: chain})
	}

	for _, w := range l.chiaWallets {
		add(w, "config")
	}
	for _, w := range l.baseWallets {
		add(w, "config")
	}

	if l.filePath != "" {
		lines, err := readLines(l.filePath)
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			add(line, l.filePath)
		}
	}

	l.logger.Info("Wallets loaded successfully", "count", len(wallets))
	return wallets, nil
}

// GetWalletsByChain returns the addresses of chain.
func (l *WalletFileLoader) GetWalletsByChain(chain entity.Chain) ([]string, error) {
	wallets, err := l.GetWallets()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, w := range wallets {
		if w.Chain == chain {
			out = append(out, w.Address)
		}
	}
	return out, nil
}

// GetWalletByAddress searches for a wallet by its address.
func (l *WalletFileLoader) GetWalletByAddress(address string) (*entity.Wallet, error) {
	wallets, err := l.GetWallets()
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets when searching by address '%s': %w", address, err)
	}
	for _, wallet := range wallets {
		if strings.EqualFold(wallet.Address, address) {
			return &wallet, nil
		}
	}
	return nil, fmt.Errorf("wallet with address %s is not tracked", address)
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet file %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning wallet file %s: %w", path, err)
	}
	return lines, nil
}
