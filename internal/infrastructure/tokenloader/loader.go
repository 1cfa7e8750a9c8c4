package tokenloader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/domain/entity"
	networkdefinition "treasury_checker/internal/infrastructure/network/definition"
	"treasury_checker/internal/pkg/utils"
)

const defaultTokenDirectoryPath = "data/tokens"

// TokenFileLoader implements the port.TokenProvider interface.
// A file <dir>/<chain>.json replaces the built-in list of that chain.
type TokenFileLoader struct {
	tokenDirPath string
	logger       port.Logger

	mu    sync.Mutex
	cache map[entity.Chain][]entity.TokenInfo
}

// NewTokenLoader creates a new TokenFileLoader.
func NewTokenLoader(tokenDirPath string, logger port.Logger) port.TokenProvider {
	if tokenDirPath == "" {
		tokenDirPath = defaultTokenDirectoryPath
	}
	return &TokenFileLoader{
		tokenDirPath: tokenDirPath,
		logger:       logger,
		cache:        make(map[entity.Chain][]entity.TokenInfo),
	}
}

// GetTokens returns the tracked tokens of chain. Results are cached after the first load.
func (l *TokenFileLoader) GetTokens(chain entity.Chain) ([]entity.TokenInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tokens, ok := l.cache[chain]; ok {
		return tokens, nil
	}

	filePath := filepath.Join(l.tokenDirPath, string(chain)+".json")
	tokensInFile, err := utils.LoadJSONFile[[]entity.TokenInfo](filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		builtin, ok := networkdefinition.BuiltinTokens[chain]
		if !ok {
			return nil, fmt.Errorf("no tracked tokens for chain %q", chain)
		}
		l.logger.Debug("Token file not found, using built-in list", "path", filePath, "count", len(builtin))
		l.cache[chain] = builtin
		return builtin, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load token file %s: %w", filePath, err)
	}

	valid := make([]entity.TokenInfo, 0, len(tokensInFile))
	for _, token := range tokensInFile {
		if token.Chain == "" {
			token.Chain = chain
		}
		if token.Chain != chain {
			l.logger.Warn("Token has mismatched chain in file, skipping token.",
				"file", filePath, "token_symbol", token.Symbol, "token_address", token.Address,
				"token_chain", token.Chain, "expected_chain", chain)
			continue
		}
		if strings.TrimSpace(token.Address) == "" {
			l.logger.Warn("Token without address in file, skipping token.", "file", filePath, "token_symbol", token.Symbol)
			continue
		}
		valid = append(valid, token)
	}
	l.logger.Info("Successfully loaded tracked tokens from file", "chain", chain, "file", filePath, "count", len(valid))
	l.cache[chain] = valid
	return valid, nil
}
