package freshcache

import "go.uber.org/atomic"

// Stats is a snapshot of the cache counters
type Stats struct {
	Hits        uint64 `json:"hits"`
	Refreshes   uint64 `json:"refreshes"`
	Degraded    uint64 `json:"degraded"`
	Unavailable uint64 `json:"unavailable"`
	Evictions   uint64 `json:"evictions"`
}

type counters struct {
	hits        atomic.Uint64
	refreshes   atomic.Uint64
	degraded    atomic.Uint64
	unavailable atomic.Uint64
	evictions   atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Refreshes:   c.refreshes.Load(),
		Degraded:    c.degraded.Load(),
		Unavailable: c.unavailable.Load(),
		Evictions:   c.evictions.Load(),
	}
}
