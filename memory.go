package memocache

import (
	"container/list"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// memoryEntry holds a cached value with its key and expiration time.
type memoryEntry[V any] struct {
	expiresAt time.Time // zero value = never expires
	value     V
	key       string
}

// expired reports whether the entry has passed its expiration time.
func (e *memoryEntry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Memory is an in-memory cache. By default it is unbounded and entries
// live until the cache is closed; TTL expiration and LRU capping are
// opt-in via options.
//
// Lookups go through a hash map; a doubly-linked list keeps recency order
// so eviction under WithMaxEntries is O(1). The most recently used entries
// sit at the front of the list.
type Memory[V any] struct {
	entries map[string]*list.Element
	lru     *list.List
	opts    *memoryOptions
	onEvict func(key string, value V)
	done    chan struct{}
	group   singleflight.Group
	stats   counters
	mu      sync.Mutex
	closed  bool
}

// NewMemory creates a new in-memory cache.
//
// Example:
//
//	c := memocache.NewMemory[string](
//	    memocache.WithDefaultTTL(5 * time.Minute),
//	    memocache.WithCleanupInterval(30 * time.Second),
//	    memocache.WithMaxEntries(10000),
//	)
//	defer c.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Memory[V]{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		opts:    o,
		done:    make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// SetEvictCallback sets a callback invoked whenever an entry leaves the
// cache: LRU eviction, TTL expiration, manual deletion, and clearing.
func (m *Memory[V]) SetEvictCallback(fn func(key string, value V)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvict = fn
}

// Get retrieves a value by key.
// Returns ErrNotFound if the key is absent or has expired.
// A hit marks the entry as recently used.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V

	elem, ok := m.entries[key]
	if !ok {
		m.stats.miss()
		return zero, ErrNotFound
	}

	e := elem.Value.(*memoryEntry[V])
	if e.expired(time.Now()) {
		m.stats.expire()
		m.stats.miss()
		m.remove(elem)
		return zero, ErrNotFound
	}

	m.stats.hit()
	m.lru.MoveToFront(elem)

	return e.value, nil
}

// Set stores a value with the given TTL.
// TTL semantics: positive = expires after duration, zero = use the
// configured default (which itself defaults to never expiring),
// negative = never expires.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	// ttl <= 0: expiresAt stays zero (never expires)

	// Update in place when the key exists; an update refreshes recency
	// but never counts against the entry cap.
	if elem, ok := m.entries[key]; ok {
		e := elem.Value.(*memoryEntry[V])
		e.value = value
		e.expiresAt = expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	if m.opts.maxEntries > 0 && len(m.entries) >= m.opts.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.stats.evict()
			m.remove(oldest)
		}
	}

	e := &memoryEntry[V]{key: key, value: value, expiresAt: expiresAt}
	m.entries[key] = m.lru.PushFront(e)

	return nil
}

// GetOrSet retrieves a value by key, invoking fn to compute and store it
// on a miss. Concurrent callers for the same key share a single fn
// invocation; an existing entry is never overwritten by a fill.
func (m *Memory[V]) GetOrSet(ctx context.Context, key string, fn Fallback[V]) (V, error) {
	return lookupOrFill(ctx, m, &m.group, key, fn)
}

// Delete removes a key from the cache. Deleting an absent key is a no-op.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if elem, ok := m.entries[key]; ok {
		m.remove(elem)
	}

	return nil
}

// Has checks whether a key exists and has not expired.
// Unlike Get it does not refresh recency.
func (m *Memory[V]) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return false, nil
	}

	e := elem.Value.(*memoryEntry[V])
	if e.expired(time.Now()) {
		m.stats.expire()
		m.remove(elem)
		return false, nil
	}

	return true, nil
}

// Clear removes all entries from the cache.
func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if m.onEvict != nil {
		for _, elem := range m.entries {
			e := elem.Value.(*memoryEntry[V])
			m.onEvict(e.key, e.value)
		}
	}

	m.entries = make(map[string]*list.Element)
	m.lru.Init()

	return nil
}

// Close stops the janitor goroutine and marks the cache as closed.
// Close is idempotent. Reads keep working after Close; mutations
// return ErrClosed.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// Stats returns a snapshot of activity counters.
func (m *Memory[V]) Stats() Stats {
	return m.stats.snapshot()
}

// janitor periodically sweeps expired entries.
func (m *Memory[V]) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			if n := m.sweep(); n > 0 {
				m.opts.logger.Debug("memocache: removed expired entries", "count", n)
			}
		}
	}
}

// sweep removes all expired entries, walking recency order back to front,
// and reports how many were removed.
func (m *Memory[V]) sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry[V]).expired(now) {
			m.stats.expire()
			m.remove(elem)
			removed++
		}
		elem = prev
	}

	return removed
}

// remove unlinks an entry and fires the eviction callback.
// Caller must hold the mutex.
func (m *Memory[V]) remove(elem *list.Element) {
	m.lru.Remove(elem)
	e := elem.Value.(*memoryEntry[V])
	delete(m.entries, e.key)

	if m.onEvict != nil {
		m.onEvict(e.key, e.value)
	}
}

var _ Cache[any] = (*Memory[any])(nil)
var _ StatsProvider = (*Memory[any])(nil)
