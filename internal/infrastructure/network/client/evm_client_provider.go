package client

import (
	"fmt"
	"sync"

	"treasury_checker/internal/domain/entity"

	"go.uber.org/zap"
)

// RPCPoolProvider hands out one RPCPool per network and reuses it.
type RPCPoolProvider struct {
	pools     map[entity.Chain]*RPCPool
	mu        sync.Mutex
	opts      PoolOptions
	overrides map[entity.Chain][]string
	logger    *zap.Logger
}

// NewRPCPoolProvider creates a provider. overrides replaces a network's
// built-in endpoint list when non-empty.
func NewRPCPoolProvider(opts PoolOptions, overrides map[entity.Chain][]string, logger *zap.Logger) *RPCPoolProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCPoolProvider{
		pools:     make(map[entity.Chain]*RPCPool),
		opts:      opts,
		overrides: overrides,
		logger:    logger,
	}
}

// GetPool returns the pool for netDef, creating it on first use.
func (p *RPCPoolProvider) GetPool(netDef entity.NetworkDefinition) (*RPCPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[netDef.Chain]; ok {
		return pool, nil
	}
	endpoints := netDef.RPCURLs
	if o := p.overrides[netDef.Chain]; len(o) > 0 {
		endpoints = o
	}
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("network %s: %w", netDef.Name, ErrNoEndpoints)
	}
	p.logger.Info("Creating RPC pool", zap.String("network", netDef.Name), zap.Strings("endpoints", endpoints))
	pool := NewRPCPool(endpoints, p.opts, p.logger)
	p.pools[netDef.Chain] = pool
	return pool, nil
}

// Close closes every pool.
func (p *RPCPoolProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pool := range p.pools {
		pool.Close()
	}
}
