package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/retry"
	"treasury_checker/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Minimal UniswapV2 pair and ERC-20 metadata ABI.
const pairABI = `[
{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"_reserve0","type":"uint112"},{"name":"_reserve1","type":"uint112"},{"name":"_blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"totalSupply","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}
]`

var (
	parsedPairABI  abi.ABI
	parsedPairOnce sync.Once
	selectors      map[string][]byte
)

func initParsedPairABI() {
	parsedPairOnce.Do(func() {
		var err error
		parsedPairABI, err = abi.JSON(strings.NewReader(pairABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse pair ABI: %v", err))
		}
		selectors = make(map[string][]byte, len(parsedPairABI.Methods))
		for name, m := range parsedPairABI.Methods {
			selectors[name] = m.ID
		}
	})
}

// Selector returns the 4-byte method id for a pair/ERC-20 read.
func Selector(method string) []byte {
	initParsedPairABI()
	return selectors[method]
}

const (
	defaultPoolBatchSize  = 5
	defaultPoolBatchDelay = 250 * time.Millisecond
	fallbackDecimals      = 18
)

var errShortReturn = errors.New("short return data")

// BatchCaller executes a batch of read-only contract calls.
type BatchCaller interface {
	BatchCall(ctx context.Context, calls []entity.ContractCall) ([]entity.CallResult, error)
}

// PoolReader reads two-asset pool state with batched eth_call round-trips.
type PoolReader struct {
	caller     BatchCaller
	batchSize  int
	batchDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *zap.Logger
}

// NewPoolReader creates a reader. batchSize pools share one request and
// successive requests are separated by batchDelay.
func NewPoolReader(caller BatchCaller, batchSize int, batchDelay time.Duration, logger *zap.Logger) *PoolReader {
	initParsedPairABI()
	if batchSize <= 0 {
		batchSize = defaultPoolBatchSize
	}
	if batchDelay < 0 {
		batchDelay = defaultPoolBatchDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolReader{
		caller:     caller,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		sleep:      retry.SleepContext,
		logger:     logger.Named("PoolReader"),
	}
}

var poolMethods = []string{"token0", "token1", "getReserves", "totalSupply", "decimals"}

// ReadPools returns the state of every pool, keyed by lowercase address.
// A pool whose reads failed maps to a failed lookup.
func (r *PoolReader) ReadPools(ctx context.Context, pools []string) map[string]entity.Lookup[entity.PoolState] {
	out := make(map[string]entity.Lookup[entity.PoolState], len(pools))
	states := make(map[string]*entity.PoolState, len(pools))

	for i, batch := range utils.Batch(pools, r.batchSize) {
		if i > 0 {
			if err := r.sleep(ctx, r.batchDelay); err != nil {
				break
			}
		}
		calls := make([]entity.ContractCall, 0, len(batch)*len(poolMethods))
		for _, pool := range batch {
			for _, m := range poolMethods {
				calls = append(calls, entity.ContractCall{To: pool, Data: Selector(m)})
			}
		}
		results, err := r.caller.BatchCall(ctx, calls)
		if err != nil {
			for _, pool := range batch {
				out[strings.ToLower(pool)] = entity.Failed[entity.PoolState](err)
			}
			continue
		}
		for j, pool := range batch {
			key := strings.ToLower(pool)
			st, err := decodePoolResults(pool, results[j*len(poolMethods):(j+1)*len(poolMethods)])
			if err != nil {
				r.logger.Debug("Pool decode failed", zap.String("pool", pool), zap.Error(err))
				out[key] = entity.Failed[entity.PoolState](entity.NewFetchError(entity.FailureParse, 0, pool, err))
				continue
			}
			states[key] = st
		}
	}

	r.fillTokenMetadata(ctx, states)
	for key, st := range states {
		out[key] = entity.Found(*st)
	}
	return out
}

func decodePoolResults(pool string, res []entity.CallResult) (*entity.PoolState, error) {
	for i, cr := range res[:4] {
		if cr.Err != nil {
			return nil, fmt.Errorf("%s: %w", poolMethods[i], cr.Err)
		}
	}
	t0, err := DecodeAddress(res[0].Data)
	if err != nil {
		return nil, fmt.Errorf("token0: %w", err)
	}
	t1, err := DecodeAddress(res[1].Data)
	if err != nil {
		return nil, fmt.Errorf("token1: %w", err)
	}
	r0, r1, err := DecodeReserves(res[2].Data)
	if err != nil {
		return nil, fmt.Errorf("getReserves: %w", err)
	}
	ts, err := DecodeUint(res[3].Data)
	if err != nil {
		return nil, fmt.Errorf("totalSupply: %w", err)
	}
	return &entity.PoolState{
		Pool:        pool,
		Token0:      t0.Hex(),
		Token1:      t1.Hex(),
		Reserve0:    r0,
		Reserve1:    r1,
		TotalSupply: ts,
		Decimals:    DecodeDecimals(res[4].Data, res[4].Err),
	}, nil
}

// fillTokenMetadata reads decimals and symbol of every underlying token in a
// second batched round-trip. Unreadable tokens keep 18 decimals and a symbol
// made from the address tail.
func (r *PoolReader) fillTokenMetadata(ctx context.Context, states map[string]*entity.PoolState) {
	type meta struct {
		decimals uint8
		symbol   string
	}
	var tokens []string
	seen := make(map[string]bool)
	for _, st := range states {
		for _, t := range []string{st.Token0, st.Token1} {
			k := strings.ToLower(t)
			if !seen[k] {
				seen[k] = true
				tokens = append(tokens, t)
			}
		}
	}

	metas := make(map[string]meta, len(tokens))
	for _, t := range tokens {
		metas[strings.ToLower(t)] = meta{decimals: fallbackDecimals, symbol: addressTail(t)}
	}

	for i, batch := range utils.Batch(tokens, r.batchSize*2) {
		if i > 0 {
			if err := r.sleep(ctx, r.batchDelay); err != nil {
				break
			}
		}
		calls := make([]entity.ContractCall, 0, len(batch)*2)
		for _, t := range batch {
			calls = append(calls,
				entity.ContractCall{To: t, Data: Selector("decimals")},
				entity.ContractCall{To: t, Data: Selector("symbol")})
		}
		results, err := r.caller.BatchCall(ctx, calls)
		if err != nil {
			r.logger.Warn("Token metadata batch failed", zap.Int("tokens", len(batch)), zap.Error(err))
			continue
		}
		for j, t := range batch {
			m := metas[strings.ToLower(t)]
			m.decimals = DecodeDecimals(results[2*j].Data, results[2*j].Err)
			if results[2*j+1].Err == nil {
				if s := DecodeSymbol(results[2*j+1].Data); s != "" {
					m.symbol = s
				}
			}
			metas[strings.ToLower(t)] = m
		}
	}

	for _, st := range states {
		m0, m1 := metas[strings.ToLower(st.Token0)], metas[strings.ToLower(st.Token1)]
		st.Decimals0, st.Symbol0 = m0.decimals, m0.symbol
		st.Decimals1, st.Symbol1 = m1.decimals, m1.symbol
	}
}

// DecodeAddress takes the low 20 bytes of a right-aligned 32-byte slot.
func DecodeAddress(b []byte) (common.Address, error) {
	if len(b) < 32 {
		return common.Address{}, errShortReturn
	}
	return common.BytesToAddress(b[12:32]), nil
}

// DecodeReserves reads two consecutive 32-byte big-endian slots.
func DecodeReserves(b []byte) (*big.Int, *big.Int, error) {
	if len(b) < 64 {
		return nil, nil, errShortReturn
	}
	return new(big.Int).SetBytes(b[0:32]), new(big.Int).SetBytes(b[32:64]), nil
}

// DecodeUint reads one 32-byte big-endian slot.
func DecodeUint(b []byte) (*big.Int, error) {
	if len(b) < 32 {
		return nil, errShortReturn
	}
	return new(big.Int).SetBytes(b[0:32]), nil
}

// DecodeDecimals reads a uint8 slot, defaulting to 18.
func DecodeDecimals(b []byte, callErr error) uint8 {
	if callErr != nil {
		return fallbackDecimals
	}
	v, err := DecodeUint(b)
	if err != nil || !v.IsUint64() || v.Uint64() > 77 {
		return fallbackDecimals
	}
	return uint8(v.Uint64())
}

// DecodeSymbol reads an ABI string, falling back to the bytes32 encoding some
// older tokens use.
func DecodeSymbol(b []byte) string {
	initParsedPairABI()
	if out, err := parsedPairABI.Unpack("symbol", b); err == nil && len(out) == 1 {
		if s, ok := out[0].(string); ok && s != "" && utf8.ValidString(s) {
			return s
		}
	}
	if len(b) >= 32 {
		s := strings.TrimRight(string(b[:32]), "\x00")
		if s != "" && utf8.ValidString(s) {
			return s
		}
	}
	return ""
}

func addressTail(addr string) string {
	if len(addr) <= 6 {
		return addr
	}
	return addr[len(addr)-6:]
}
