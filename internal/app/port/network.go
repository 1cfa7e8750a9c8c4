package port

import (
	"context"

	"treasury_checker/internal/domain/entity"
)

// NetworkDefinitionProvider defines the interface for providing network definitions.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network definitions as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDefinition

	// GetNetworkDefinitionByName returns a network by its chain name.
	GetNetworkDefinitionByName(name string) (entity.NetworkDefinition, bool)
}

// PoolStateReader reads two-asset pool state from a chain.
type PoolStateReader interface {
	// ReadPools returns one lookup per pool, keyed by lowercase pool address.
	ReadPools(ctx context.Context, pools []string) map[string]entity.Lookup[entity.PoolState]
}
