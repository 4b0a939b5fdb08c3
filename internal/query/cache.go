package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache keeps fetched results per scope (a browser profile) for a stale
// time. Concurrent fetches of one key share a single backend call. Errors
// are never stored.
type Cache struct {
	mu        sync.Mutex
	scopes    map[string]map[string]entry
	staleTime time.Duration
	group     singleflight.Group
	now       func() time.Time
}

type entry struct {
	value     any
	fetchedAt time.Time
}

func NewCache(staleTime time.Duration) *Cache {
	return &Cache{
		scopes:    make(map[string]map[string]entry),
		staleTime: staleTime,
		now:       time.Now,
	}
}

func (c *Cache) get(scope, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.scopes[scope][key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) put(scope, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.scopes[scope] == nil {
		c.scopes[scope] = make(map[string]entry)
	}
	c.scopes[scope][key] = entry{value: value, fetchedAt: c.now()}
}

// Fetch returns the fresh cached value for key or calls fn. Returned values
// are shared between callers and must be treated as read-only.
func Fetch[T any](ctx context.Context, c *Cache, scope, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.get(scope, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	v, err, _ := c.group.Do(scope+"|"+key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.put(scope, key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops every key of scope equal to a prefix or nested under it
// ("orders" drops "orders"; "order" drops "order/7").
func (c *Cache) Invalidate(scope string, prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.scopes[scope]
	for key := range entries {
		for _, p := range prefixes {
			if key == p || strings.HasPrefix(key, p+"/") {
				delete(entries, key)
				break
			}
		}
	}
}

// Forget drops everything cached for scope
func (c *Cache) Forget(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.scopes, scope)
}

// Sweep removes stale entries and empty scopes
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for scope, entries := range c.scopes {
		for key, e := range entries {
			if now.Sub(e.fetchedAt) >= c.staleTime {
				delete(entries, key)
				removed++
			}
		}
		if len(entries) == 0 {
			delete(c.scopes, scope)
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}
