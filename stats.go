package memocache

import "sync/atomic"

// Stats is a point-in-time snapshot of cache activity counters.
type Stats struct {
	// Hits counts lookups that returned a stored value.
	Hits uint64

	// Misses counts lookups that found no live entry.
	Misses uint64

	// Evictions counts entries removed to make room under a size cap.
	Evictions uint64

	// Expirations counts entries removed because their TTL passed.
	Expirations uint64
}

// StatsProvider is implemented by backends that track activity counters.
type StatsProvider interface {
	Stats() Stats
}

// counters accumulates cache events. Safe for concurrent use.
type counters struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	evictions   atomic.Uint64
	expirations atomic.Uint64
}

func (c *counters) hit()    { c.hits.Add(1) }
func (c *counters) miss()   { c.misses.Add(1) }
func (c *counters) evict()  { c.evictions.Add(1) }
func (c *counters) expire() { c.expirations.Add(1) }

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
	}
}
