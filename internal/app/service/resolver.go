package service

import (
	"context"

	"treasury_checker/internal/domain/entity"
	"treasury_checker/internal/pkg/metrics"
)

// Source is one entry of a fallback chain.
type Source[T any] struct {
	Name  entity.PriceSource
	Fetch func(ctx context.Context) entity.Lookup[T]
}

// Resolve invokes sources strictly in priority order and returns the first
// found value. When every source misses it returns the zero value, SourceNone
// and false. Callers must read that as unknown, not as a confirmed zero.
func Resolve[T any](ctx context.Context, query string, sources []Source[T]) (T, entity.PriceSource, bool) {
	for _, s := range sources {
		if ctx.Err() != nil {
			break
		}
		if l := s.Fetch(ctx); l.OK {
			metrics.ResolverWins.WithLabelValues(query, string(s.Name)).Inc()
			return l.Value, s.Name, true
		}
	}
	metrics.ResolverWins.WithLabelValues(query, string(entity.SourceNone)).Inc()
	var zero T
	return zero, entity.SourceNone, false
}

// ResolvePrice resolves a quote. A found quote with a non-positive price
// counts as absent; an untagged quote is tagged with its source.
func ResolvePrice(ctx context.Context, query string, sources []Source[entity.PriceQuote]) entity.PriceQuote {
	wrapped := make([]Source[entity.PriceQuote], len(sources))
	for i, s := range sources {
		s := s
		wrapped[i] = Source[entity.PriceQuote]{
			Name: s.Name,
			Fetch: func(ctx context.Context) entity.Lookup[entity.PriceQuote] {
				l := s.Fetch(ctx)
				if !l.OK {
					return l
				}
				if !l.Value.Valid() {
					return entity.Absent[entity.PriceQuote]()
				}
				if l.Value.Source == "" {
					l.Value.Source = s.Name
				}
				return l
			},
		}
	}
	q, _, ok := Resolve(ctx, query, wrapped)
	if !ok {
		return entity.NoPrice()
	}
	return q
}

// staticPrice adapts an already known price into a fallback source.
func staticPrice(name entity.PriceSource, price float64) Source[entity.PriceQuote] {
	return Source[entity.PriceQuote]{
		Name: name,
		Fetch: func(context.Context) entity.Lookup[entity.PriceQuote] {
			if price <= 0 {
				return entity.Absent[entity.PriceQuote]()
			}
			return entity.Found(entity.PriceQuote{Price: price, Source: name})
		},
	}
}
