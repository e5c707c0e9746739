// Package refcache memoizes the scoring service's reference data: the client
// id list and the population statistics. Entries are fetched on first use and
// then served from memory; failed fetches are never stored.
package refcache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/risk-dashboard/internal/model"
	"github.com/sells-group/risk-dashboard/pkg/scoring"
)

// EntryClients is the cache key of the client id list.
const EntryClients = "clients"

// Lookup results reported to the LookupHook.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// LookupHook observes every lookup.
type LookupHook func(entry, result string)

// Option configures a Cache.
type Option func(*Cache)

// WithTTL expires entries after d. Zero keeps them for the life of the process.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithLookupHook registers a callback invoked on every hit and miss.
func WithLookupHook(h LookupHook) Option {
	return func(c *Cache) {
		c.hook = h
	}
}

// Stats is a snapshot of the cache counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

type entry struct {
	value    any
	storedAt time.Time
}

// Cache memoizes reference data in front of a scoring.Client. It is safe for
// concurrent use; concurrent first lookups of one entry share a single
// upstream call.
type Cache struct {
	client scoring.Client
	ttl    time.Duration
	hook   LookupHook

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]entry

	hits   atomic.Int64
	misses atomic.Int64

	nowFunc func() time.Time
}

// New creates a cache in front of client.
func New(client scoring.Client, opts ...Option) *Cache {
	c := &Cache{
		client:  client,
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientIDs returns the memoized client id list.
func (c *Cache) ClientIDs(ctx context.Context) ([]model.ClientID, error) {
	v, err := c.lookup(ctx, EntryClients, func(ctx context.Context) (any, error) {
		return c.client.ClientIDs(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.ClientID), nil
}

// Statistics returns the memoized distribution for kind.
func (c *Cache) Statistics(ctx context.Context, kind model.StatKind) (*model.StatDistribution, error) {
	if !kind.Valid() {
		return nil, eris.Errorf("refcache: unknown statistic %q", string(kind))
	}
	v, err := c.lookup(ctx, string(kind), func(ctx context.Context) (any, error) {
		return c.client.Statistics(ctx, kind)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.StatDistribution), nil
}

// Warm fetches every entry concurrently. It returns the first failure but
// keeps whatever succeeded.
func (c *Cache) Warm(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := c.ClientIDs(gctx)
		return eris.Wrap(err, "warm client ids")
	})
	for _, kind := range model.StatKinds {
		g.Go(func() error {
			_, err := c.Statistics(gctx, kind)
			return eris.Wrapf(err, "warm statistics %s", kind)
		})
	}

	return g.Wait()
}

// Invalidate drops every stored entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: n}
}

func (c *Cache) get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.nowFunc().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) lookup(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.get(key); ok {
		c.record(key, ResultHit)
		return v, nil
	}
	c.record(key, ResultMiss)

	// The shared fetch ignores caller cancellation; each caller stops
	// waiting on its own context.
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.get(key); ok {
			return v, nil
		}
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{value: v, storedAt: c.nowFunc()}
		c.mu.Unlock()
		zap.L().Debug("refcache: stored entry", zap.String("entry", key))
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "refcache: waiting for %s", key)
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}

func (c *Cache) record(key, result string) {
	if result == ResultHit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	if c.hook != nil {
		c.hook(key, result)
	}
}
