package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/metrics"
	"treasury_checker/internal/pkg/retry"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// PoolOptions tunes an RPCPool.
type PoolOptions struct {
	CallTimeout   time.Duration
	MaxAttempts   int
	RotationDelay time.Duration
	Sleep         func(ctx context.Context, d time.Duration) error
}

// RPCPool issues batched eth_call requests against a fixed list of endpoints.
// After a failed batch it advances its own rotation cursor and retries on the
// next endpoint.
type RPCPool struct {
	endpoints []string
	opts      PoolOptions
	logger    *zap.Logger

	cursor  atomic.Uint64
	mu      sync.Mutex
	clients map[int]*rpc.Client
}

// ErrNoEndpoints is returned when a pool has nothing to call.
var ErrNoEndpoints = errors.New("no RPC endpoints configured")

// NewRPCPool creates a pool. Endpoints are dialled lazily.
func NewRPCPool(endpoints []string, opts PoolOptions, logger *zap.Logger) *RPCPool {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 6 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Sleep == nil {
		opts.Sleep = retry.SleepContext
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RPCPool{
		endpoints: append([]string(nil), endpoints...),
		opts:      opts,
		logger:    logger.Named("RPCPool"),
		clients:   make(map[int]*rpc.Client),
	}
}

// Endpoints returns the configured endpoint list.
func (p *RPCPool) Endpoints() []string {
	return append([]string(nil), p.endpoints...)
}

// Current returns the endpoint the next batch will use.
func (p *RPCPool) Current() string {
	if len(p.endpoints) == 0 {
		return ""
	}
	return p.endpoints[p.index()]
}

func (p *RPCPool) index() int {
	return int(p.cursor.Load() % uint64(len(p.endpoints)))
}

func (p *RPCPool) rotate() {
	p.cursor.Add(1)
	metrics.RPCRotations.Inc()
}

func (p *RPCPool) client(ctx context.Context, idx int) (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[idx]; ok {
		return c, nil
	}
	c, err := rpc.DialContext(ctx, p.endpoints[idx])
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", p.endpoints[idx], err)
	}
	p.clients[idx] = c
	return c, nil
}

// BatchCall sends every call in one JSON-RPC batch. Per-call failures are
// reported in the results; only transport failure or a batch where every call
// failed counts against the endpoint.
func (p *RPCPool) BatchCall(ctx context.Context, calls []entity.ContractCall) ([]entity.CallResult, error) {
	if len(calls) == 0 {
		return []entity.CallResult{}, nil
	}
	if len(p.endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	var lastErr error
	for attempt := 0; attempt < p.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.opts.Sleep(ctx, p.opts.RotationDelay); err != nil {
				return nil, err
			}
		}
		idx := p.index()
		results, err := p.batchOn(ctx, idx, calls)
		if err == nil {
			return results, nil
		}
		lastErr = err
		p.logger.Warn("RPC batch failed, rotating endpoint",
			zap.String("endpoint", p.endpoints[idx]),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
		p.rotate()
	}
	return nil, fmt.Errorf("RPC batch failed after %d attempts: %w", p.opts.MaxAttempts, lastErr)
}

func (p *RPCPool) batchOn(ctx context.Context, idx int, calls []entity.ContractCall) ([]entity.CallResult, error) {
	c, err := p.client(ctx, idx)
	if err != nil {
		return nil, err
	}

	batchElems := make([]rpc.BatchElem, len(calls))
	for i, call := range calls {
		batchElems[i] = rpc.BatchElem{
			Method: "eth_call",
			Args: []interface{}{map[string]interface{}{
				"to":   common.HexToAddress(call.To),
				"data": hexutil.Bytes(call.Data),
			}, "latest"},
			Result: new(hexutil.Bytes),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.CallTimeout)
	defer cancel()
	if err := c.BatchCallContext(callCtx, batchElems); err != nil {
		return nil, fmt.Errorf("RPC batch call failed: %w", err)
	}

	results := make([]entity.CallResult, len(calls))
	failures := 0
	for i, elem := range batchElems {
		if elem.Error != nil {
			results[i].Err = elem.Error
			failures++
			continue
		}
		if out, ok := elem.Result.(*hexutil.Bytes); ok && out != nil {
			results[i].Data = []byte(*out)
		}
	}
	if failures == len(calls) {
		return nil, fmt.Errorf("all %d calls failed: %w", failures, results[0].Err)
	}
	return results, nil
}

// Close releases every dialled client.
func (p *RPCPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for idx, c := range p.clients {
		c.Close()
		delete(p.clients, idx)
	}
}
