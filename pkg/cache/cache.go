package cache

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/upgrader/pkg/observability"
	"github.com/matzehuels/upgrader/pkg/versions"
)

// Resolver produces a report for a package and constraint.
// [versions.Resolver] is the production implementation.
type Resolver interface {
	Resolve(ctx context.Context, name, constraint string, onProgress func()) (*versions.Report, bool)
}

// Key returns the cache key for a package and its declared constraint.
func Key(name, constraint string) string {
	return name + "@" + constraint
}

// Cache is a process-lifetime memo of resolved reports with in-flight
// deduplication. It is safe for concurrent use.
type Cache struct {
	resolver Resolver
	logger   *log.Logger

	mu       sync.Mutex
	results  map[string]*versions.Report
	inflight *singleflight.Group
	epoch    uint64 // bumped by Clear
}

// Option configures a [Cache].
type Option func(*Cache)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty Cache in front of r.
func New(r Resolver, opts ...Option) *Cache {
	c := &Cache{
		resolver: r,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		results:  make(map[string]*versions.Report),
		inflight: &singleflight.Group{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the report for name at constraint, resolving it at most once
// per key no matter how many callers ask concurrently.
//
// onProgress is passed to the resolver only when this call starts a new
// resolution; callers that find a stored report or join an in-flight one never
// see it called.
func (c *Cache) Lookup(ctx context.Context, name, constraint string, onProgress func()) (*versions.Report, bool) {
	key := Key(name, constraint)
	hooks := observability.Cache()

	c.mu.Lock()
	if r, ok := c.results[key]; ok {
		c.mu.Unlock()
		hooks.OnCacheHit(ctx, key)
		return r, true
	}
	group, epoch := c.inflight, c.epoch
	c.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (any, error) {
		// A flight for key may have finished between the check above and DoChan.
		if r, ok := c.get(key); ok {
			return r, nil
		}
		hooks.OnCacheMiss(detached, key)
		r, ok := c.resolver.Resolve(detached, name, constraint, onProgress)
		if !ok {
			return nil, nil
		}
		c.store(key, epoch, r)
		return r, nil
	})

	select {
	case <-ctx.Done():
		c.logger.Debug("lookup abandoned", "key", key, "error", ctx.Err())
		return nil, false
	case res := <-ch:
		if res.Shared {
			hooks.OnCacheShared(ctx, key)
		}
		r, _ := res.Val.(*versions.Report)
		return r, r != nil
	}
}

// Clear forgets every stored report and every in-flight resolution.
func (c *Cache) Clear() {
	c.mu.Lock()
	n := len(c.results)
	c.results = make(map[string]*versions.Report)
	c.inflight = &singleflight.Group{}
	c.epoch++
	c.mu.Unlock()

	c.logger.Debug("cache cleared", "entries", n)
	observability.Cache().OnCacheClear(n)
}

// Len returns the number of stored reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func (c *Cache) get(key string) (*versions.Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

// store keeps r unless the cache was cleared after the resolution started.
func (c *Cache) store(key string, epoch uint64, r *versions.Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Debug("discarding stale result", "key", key)
		return
	}
	c.results[key] = r
}
