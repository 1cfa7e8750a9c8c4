package port

import "treasury_checker/internal/domain/entity"

// TokenProvider defines the interface for fetching tracked token definitions.
type TokenProvider interface {
	// GetTokens returns the tracked tokens of one chain.
	GetTokens(chain entity.Chain) ([]entity.TokenInfo, error)
}
