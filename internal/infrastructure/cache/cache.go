// Package cache is a short-TTL read-through cache. Expiry is checked lazily
// on read; there is no background sweep.
package cache

import (
	"context"
	"time"

	"treasury_checker/internal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
)

// Entry is a cached value with the time it was fetched.
type Entry struct {
	Value     any
	FetchedAt time.Time
}

// TTLCache stores entries without expiry and judges freshness on read.
type TTLCache struct {
	store *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries are fresh for ttl.
func New(ttl time.Duration) *TTLCache {
	return &TTLCache{
		store: gocache.New(gocache.NoExpiration, 0),
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock replaces the time source.
func (c *TTLCache) WithClock(now func() time.Time) *TTLCache {
	c.now = now
	return c
}

// TTL returns the freshness window.
func (c *TTLCache) TTL() time.Duration { return c.ttl }

// Get returns the entry for key and whether it is still fresh.
func (c *TTLCache) Get(key string) (Entry, bool, bool) {
	raw, ok := c.store.Get(key)
	if !ok {
		return Entry{}, false, false
	}
	e, ok := raw.(Entry)
	if !ok {
		return Entry{}, false, false
	}
	return e, c.now().Sub(e.FetchedAt) < c.ttl, true
}

// Set stores value under key, stamped now. Concurrent writers: last one wins.
func (c *TTLCache) Set(key string, value any) {
	c.store.Set(key, Entry{Value: value, FetchedAt: c.now()}, gocache.NoExpiration)
}

// Delete drops key.
func (c *TTLCache) Delete(key string) {
	c.store.Delete(key)
}

// GetOrLoad returns the fresh cached value for key or loads and stores a new one.
// When the loader fails and a stale value exists, the stale value is returned
// with a nil error.
func GetOrLoad[T any](ctx context.Context, c *TTLCache, key string, load func(ctx context.Context) (T, error)) (T, time.Time, error) {
	e, fresh, found := c.Get(key)
	if found && fresh {
		if v, ok := e.Value.(T); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return v, e.FetchedAt, nil
		}
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err := load(ctx)
	if err != nil {
		if found {
			if stale, ok := e.Value.(T); ok {
				metrics.CacheLookups.WithLabelValues("stale").Inc()
				return stale, e.FetchedAt, nil
			}
		}
		var zero T
		return zero, time.Time{}, err
	}
	c.Set(key, v)
	return v, c.now(), nil
}
