package freshcache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = 60000 * time.Millisecond

type quote struct {
	Price float64 `json:"price"`
}

// manualClock is a clock the test moves by hand, in milliseconds since the epoch
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock(ms int64) *manualClock {
	return &manualClock{now: time.UnixMilli(ms)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.UnixMilli(ms)
}

// countingFetcher returns the queued outcomes in order and counts calls
type countingFetcher struct {
	mu       sync.Mutex
	calls    int
	outcomes []outcome
}

type outcome struct {
	value quote
	err   error
}

func (f *countingFetcher) fetch(ctx context.Context) (quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	if len(f.outcomes) == 0 {
		return quote{}, errors.New("no outcome queued")
	}
	next := f.outcomes[0]
	f.outcomes = f.outcomes[1:]
	return next.value, next.err
}

func (f *countingFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func succeed(price float64) outcome { return outcome{value: quote{Price: price}} }

func fail(msg string) outcome { return outcome{err: errors.New(msg)} }

func newTestCache(clock Clock) *Cache[quote] {
	return New(Options[quote]{TTL: testTTL, Clock: clock})
}

func TestFreshHitIdempotence(t *testing.T) {
	for _, key := range []string{"BTC/USDT", "ETH/USDT", ""} {
		t.Run(key, func(t *testing.T) {
			clock := newManualClock(0)
			c := newTestCache(clock)
			fetcher := &countingFetcher{outcomes: []outcome{succeed(42), succeed(43)}}

			first := c.GetValue(context.Background(), key, fetcher.fetch)
			clock.Set(1000)
			second := c.GetValue(context.Background(), key, fetcher.fetch)

			assert.Equal(t, StatusRefreshed, first.Status)
			assert.Equal(t, StatusFresh, second.Status)
			assert.Equal(t, first.Value, second.Value)
			assert.Equal(t, 1, fetcher.Calls())
		})
	}
}

func TestTTLBoundary(t *testing.T) {
	tests := []struct {
		name       string
		at         int64
		wantStatus Status
		wantCalls  int
	}{
		{name: "one millisecond before expiry", at: 60000 - 1, wantStatus: StatusFresh, wantCalls: 1},
		{name: "exactly at expiry", at: 60000, wantStatus: StatusRefreshed, wantCalls: 2},
		{name: "one millisecond after expiry", at: 60000 + 1, wantStatus: StatusRefreshed, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newManualClock(0)
			c := newTestCache(clock)
			fetcher := &countingFetcher{outcomes: []outcome{succeed(1), succeed(2)}}

			c.Get(context.Background(), "BTC/USDT", fetcher.fetch, 60000*time.Millisecond)
			clock.Set(tt.at)
			res := c.Get(context.Background(), "BTC/USDT", fetcher.fetch, 60000*time.Millisecond)

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantCalls, fetcher.Calls())
		})
	}
}

func TestGracefulDegradation(t *testing.T) {
	clock := newManualClock(0)
	c := newTestCache(clock)
	fetcher := &countingFetcher{outcomes: []outcome{succeed(100), fail("rate limited")}}

	c.GetValue(context.Background(), "BTC/USDT", fetcher.fetch)
	clock.Set(testTTL.Milliseconds() + 5000)
	res := c.GetValue(context.Background(), "BTC/USDT", fetcher.fetch)

	assert.Equal(t, StatusDegraded, res.Status)
	assert.True(t, res.Degraded())
	assert.True(t, res.HasValue())
	assert.Equal(t, quote{Price: 100}, res.Value)
	assert.EqualError(t, res.Err, "rate limited")
	assert.Equal(t, time.UnixMilli(0), res.FetchedAt)

	entry, ok := c.Peek("BTC/USDT")
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(0), entry.FetchedAt, "a failed refresh must not touch fetchedAt")
	assert.Equal(t, StateStale, c.State("BTC/USDT"))
}

func TestDegradedWhileFreshUnderShorterTTL(t *testing.T) {
	clock := newManualClock(0)
	c := newTestCache(clock)
	fetcher := &countingFetcher{outcomes: []outcome{succeed(7), fail("boom")}}

	c.GetValue(context.Background(), "k", fetcher.fetch)
	clock.Set(10)
	res := c.Get(context.Background(), "k", fetcher.fetch, time.Millisecond)

	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, quote{Price: 7}, res.Value)
}

func TestColdUnavailable(t *testing.T) {
	c := newTestCache(newManualClock(0))
	fetcher := &countingFetcher{outcomes: []outcome{fail("network down")}}

	res := c.GetValue(context.Background(), "SOL/USDT", fetcher.fetch)

	assert.Equal(t, StatusUnavailable, res.Status)
	assert.False(t, res.HasValue())
	assert.Equal(t, quote{}, res.Value)
	assert.Error(t, res.Err)

	_, ok := c.Peek("SOL/USDT")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, StateEmpty, c.State("SOL/USDT"))
}

func TestLastWriteWinsUnderConcurrentRefresh(t *testing.T) {
	tests := []struct {
		name        string
		finishFirst string
		want        float64
	}{
		{name: "first started finishes last", finishFirst: "second", want: 1},
		{name: "second started finishes last", finishFirst: "first", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCache(newManualClock(0))

			started := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
			release := map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})}
			done := map[string]chan Result[quote]{"first": make(chan Result[quote], 1), "second": make(chan Result[quote], 1)}
			prices := map[string]float64{"first": 1, "second": 2}

			launch := func(name string) {
				go func() {
					done[name] <- c.GetValue(context.Background(), "BTC/USDT", func(ctx context.Context) (quote, error) {
						close(started[name])
						<-release[name]
						return quote{Price: prices[name]}, nil
					})
				}()
				<-started[name]
			}
			launch("first")
			launch("second")

			finishLast := "first"
			if tt.finishFirst == "first" {
				finishLast = "second"
			}
			close(release[tt.finishFirst])
			<-done[tt.finishFirst]
			close(release[finishLast])
			<-done[finishLast]

			entry, ok := c.Peek("BTC/USDT")
			require.True(t, ok)
			assert.Equal(t, tt.want, entry.Value.Price)
		})
	}
}

func TestEndToEndScenario(t *testing.T) {
	clock := newManualClock(0)
	c := New(Options[quote]{TTL: 60000 * time.Millisecond, Clock: clock})
	fetcher := &countingFetcher{outcomes: []outcome{succeed(50000), fail("429 Too Many Requests"), succeed(51000)}}
	ctx := context.Background()
	key := "BTC/USDT"

	// t=0: cold key, fetch succeeds
	res := c.GetValue(ctx, key, fetcher.fetch)
	assert.Equal(t, StatusRefreshed, res.Status)
	entry, _ := c.Peek(key)
	assert.Equal(t, Entry[quote]{Key: key, Value: quote{Price: 50000}, FetchedAt: time.UnixMilli(0)}, entry)

	// t=30000: fresh hit
	clock.Set(30000)
	res = c.GetValue(ctx, key, fetcher.fetch)
	assert.Equal(t, StatusFresh, res.Status)
	assert.Equal(t, quote{Price: 50000}, res.Value)
	assert.Equal(t, 1, fetcher.Calls())

	// t=65000: stale, fetch fails
	clock.Set(65000)
	res = c.GetValue(ctx, key, fetcher.fetch)
	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, quote{Price: 50000}, res.Value)
	assert.Equal(t, 2, fetcher.Calls())
	entry, _ = c.Peek(key)
	assert.Equal(t, time.UnixMilli(0), entry.FetchedAt)

	// t=70000: stale, fetch succeeds
	clock.Set(70000)
	res = c.GetValue(ctx, key, fetcher.fetch)
	assert.Equal(t, StatusRefreshed, res.Status)
	assert.Equal(t, 3, fetcher.Calls())
	entry, _ = c.Peek(key)
	assert.Equal(t, Entry[quote]{Key: key, Value: quote{Price: 51000}, FetchedAt: time.UnixMilli(70000)}, entry)

	assert.Equal(t, Stats{Hits: 1, Refreshes: 2, Degraded: 1}, c.Stats())
}

func TestStateTransitions(t *testing.T) {
	clock := newManualClock(0)
	c := newTestCache(clock)
	fetcher := &countingFetcher{outcomes: []outcome{fail("x"), succeed(1), fail("y"), succeed(2)}}
	ctx := context.Background()

	c.GetValue(ctx, "k", fetcher.fetch)
	assert.Equal(t, StateEmpty, c.State("k"), "failure keeps an empty key empty")

	c.GetValue(ctx, "k", fetcher.fetch)
	assert.Equal(t, StateFresh, c.State("k"))

	clock.Set(testTTL.Milliseconds())
	assert.Equal(t, StateStale, c.State("k"), "elapsed time alone makes the key stale")

	c.GetValue(ctx, "k", fetcher.fetch)
	assert.Equal(t, StateStale, c.State("k"))

	c.GetValue(ctx, "k", fetcher.fetch)
	assert.Equal(t, StateFresh, c.State("k"))
}

func TestDefaults(t *testing.T) {
	c := New(Options[quote]{})

	assert.Equal(t, DefaultTTL, c.TTL())
	res := c.GetValue(context.Background(), "k", func(ctx context.Context) (quote, error) {
		return quote{Price: 1}, nil
	})
	assert.Equal(t, StatusRefreshed, res.Status)
	assert.WithinDuration(t, time.Now(), res.FetchedAt, time.Minute)
}

func TestFetcherReceivesContext(t *testing.T) {
	c := newTestCache(newManualClock(0))
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	var got any
	c.GetValue(ctx, "k", func(ctx context.Context) (quote, error) {
		got = ctx.Value(ctxKey{})
		return quote{}, nil
	})

	assert.Equal(t, "marker", got)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "fresh", StatusFresh.String())
	assert.Equal(t, "refreshed", StatusRefreshed.String())
	assert.Equal(t, "degraded", StatusDegraded.String())
	assert.Equal(t, "unavailable", StatusUnavailable.String())

	text, err := StatusDegraded.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "degraded", string(text))
}

func TestStatusCacheHeader(t *testing.T) {
	assert.Equal(t, "HIT", StatusFresh.CacheHeader())
	assert.Equal(t, "MISS", StatusRefreshed.CacheHeader())
	assert.Equal(t, "STALE", StatusDegraded.CacheHeader())
	assert.Equal(t, "MISS", StatusUnavailable.CacheHeader())
}

func TestStatusUnmarshalText(t *testing.T) {
	var s Status
	require.NoError(t, s.UnmarshalText([]byte("degraded")))
	assert.Equal(t, StatusDegraded, s)
	assert.Error(t, s.UnmarshalText([]byte("sideways")))
}
