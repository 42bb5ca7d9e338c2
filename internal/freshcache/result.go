package freshcache

import (
	"fmt"
	"time"
)

// Status tells how a Result was produced
type Status int

const (
	// StatusUnavailable: the fetch failed and nothing was cached for the key
	StatusUnavailable Status = iota
	// StatusFresh: served from the cache without calling the fetcher
	StatusFresh
	// StatusRefreshed: the fetcher succeeded and its value was stored
	StatusRefreshed
	// StatusDegraded: the fetch failed and the last known value was served
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusFresh:
		return "fresh"
	case StatusRefreshed:
		return "refreshed"
	case StatusDegraded:
		return "degraded"
	default:
		return "unavailable"
	}
}

// MarshalText renders the status as its name in JSON payloads
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status name written by MarshalText
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusUnavailable, StatusFresh, StatusRefreshed, StatusDegraded} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Result is the outcome of a single Get call.
// Err holds the fetch failure for degraded and unavailable results.
type Result[T any] struct {
	Key       string
	Value     T
	FetchedAt time.Time
	Status    Status
	Err       error
}

// HasValue reports whether Value holds data (fresh, refreshed or stale)
func (r Result[T]) HasValue() bool {
	return r.Status != StatusUnavailable
}

// Degraded reports whether Value may be outdated because a refresh failed
func (r Result[T]) Degraded() bool {
	return r.Status == StatusDegraded
}

// State is the freshness state of a single key
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "empty"
	}
}

// CacheHeader is the X-Cache header value reported for a status
func (s Status) CacheHeader() string {
	switch s {
	case StatusFresh:
		return "HIT"
	case StatusDegraded:
		return "STALE"
	default:
		return "MISS"
	}
}
