// Package freshcache serves the freshest known value for a key.
//
// A value younger than the TTL is returned as is. An older (or missing) value
// is refreshed through a caller-supplied fetcher; when that fetch fails the
// last known value is served flagged as degraded, or the result is marked
// unavailable when nothing was ever fetched for the key. Upstream failures
// never surface as errors from Get.
package freshcache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is the freshness window used when Options.TTL is not set
const DefaultTTL = 60 * time.Second

// Fetcher produces a new value for a key, or fails
type Fetcher[T any] func(ctx context.Context) (T, error)

// Entry is a value accepted into the cache.
// FetchedAt is the time of the fetch that produced Value.
type Entry[T any] struct {
	Key       string
	Value     T
	FetchedAt time.Time
}

// Options configures a Cache
type Options[T any] struct {
	TTL time.Duration
	// Clock defaults to the wall clock
	Clock Clock
	// Persister is optional durable storage consulted on memory misses
	Persister Persister[T]
	// MaxEntries bounds the number of keys kept in memory, 0 means unbounded
	MaxEntries int
}

// Cache is a keyed freshness-gated cache.
// The lock is never held while a fetcher runs: overlapping refreshes of the
// same key run independently and the last one to succeed wins.
type Cache[T any] struct {
	mu        sync.Mutex
	entries   map[string]*Entry[T]
	recency   *lru
	ttl       time.Duration
	clock     Clock
	persister Persister[T]
	counters  counters
}

// New creates a cache
func New[T any](opts Options[T]) *Cache[T] {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	c := &Cache[T]{
		entries:   make(map[string]*Entry[T]),
		ttl:       ttl,
		clock:     clock,
		persister: opts.Persister,
	}
	if opts.MaxEntries > 0 {
		c.recency = newLRU(opts.MaxEntries)
	}
	return c
}

// TTL returns the configured freshness window
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// GetValue is Get with the configured TTL
func (c *Cache[T]) GetValue(ctx context.Context, key string, fetch Fetcher[T]) Result[T] {
	return c.Get(ctx, key, fetch, c.ttl)
}

// Get returns the cached value for key if it is younger than ttl.
// Otherwise it calls fetch once: a success is stored and returned, a failure
// falls back to the previous value (degraded) or to an unavailable result.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch Fetcher[T], ttl time.Duration) Result[T] {
	if entry, ok := c.fresh(key, ttl); ok {
		c.counters.hits.Inc()
		return Result[T]{Key: key, Value: entry.Value, FetchedAt: entry.FetchedAt, Status: StatusFresh}
	}

	value, err := fetch(ctx)
	if err != nil {
		return c.fallback(key, err)
	}

	entry := c.store(key, value)
	c.counters.refreshes.Inc()
	logrus.Debugf("Refreshed %s", key)
	return Result[T]{Key: key, Value: entry.Value, FetchedAt: entry.FetchedAt, Status: StatusRefreshed}
}

// Peek returns the entry for key without fetching, fresh or not
func (c *Cache[T]) Peek(key string) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.lookup(key)
	if entry == nil {
		return Entry[T]{}, false
	}
	return *entry, true
}

// State reports whether key is empty, fresh or stale against the configured TTL
func (c *Cache[T]) State(key string) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.lookup(key)
	switch {
	case entry == nil:
		return StateEmpty
	case c.clock.Now().Sub(entry.FetchedAt) < c.ttl:
		return StateFresh
	default:
		return StateStale
	}
}

// Len returns the number of keys held in memory
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the hit/refresh/fallback counters
func (c *Cache[T]) Stats() Stats {
	return c.counters.snapshot()
}

func (c *Cache[T]) fresh(key string, ttl time.Duration) (Entry[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.lookup(key)
	if entry == nil || c.clock.Now().Sub(entry.FetchedAt) >= ttl {
		return Entry[T]{}, false
	}
	if c.recency != nil {
		c.recency.touch(key)
	}
	return *entry, true
}

func (c *Cache[T]) fallback(key string, err error) Result[T] {
	c.mu.Lock()
	entry := c.lookup(key)
	c.mu.Unlock()

	if entry == nil {
		c.counters.unavailable.Inc()
		logrus.Warnf("Refresh of %s failed and nothing is cached: %v", key, err)
		return Result[T]{Key: key, Status: StatusUnavailable, Err: err}
	}

	c.counters.degraded.Inc()
	logrus.Warnf("Refresh of %s failed, serving value fetched at %s: %v", key, entry.FetchedAt.Format(time.RFC3339), err)
	return Result[T]{Key: key, Value: entry.Value, FetchedAt: entry.FetchedAt, Status: StatusDegraded, Err: err}
}

func (c *Cache[T]) store(key string, value T) Entry[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &Entry[T]{Key: key, Value: value, FetchedAt: c.clock.Now()}
	c.insert(entry)

	if c.persister != nil {
		if err := c.persister.Save(*entry); err != nil {
			logrus.Warnf("Failed to persist %s: %v", key, err)
		}
	}
	return *entry
}

// lookup must be called with mu held
func (c *Cache[T]) lookup(key string) *Entry[T] {
	if entry, ok := c.entries[key]; ok {
		return entry
	}
	if c.persister == nil {
		return nil
	}

	loaded, ok := c.persister.Load(key)
	if !ok {
		return nil
	}
	logrus.Debugf("Loaded persisted %s fetched at %s", key, loaded.FetchedAt.Format(time.RFC3339))
	entry := &loaded
	c.insert(entry)
	return entry
}

// insert must be called with mu held
func (c *Cache[T]) insert(entry *Entry[T]) {
	c.entries[entry.Key] = entry
	if c.recency == nil {
		return
	}

	evicted, ok := c.recency.add(entry.Key)
	if !ok {
		return
	}
	delete(c.entries, evicted)
	c.counters.evictions.Inc()
	if c.persister != nil {
		if err := c.persister.Delete(evicted); err != nil {
			logrus.Warnf("Failed to delete evicted %s: %v", evicted, err)
		}
	}
}
