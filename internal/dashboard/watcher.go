package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRefreshInterval is how often the selected coin is polled
const DefaultRefreshInterval = 60 * time.Second

// Update is a coin panel produced by the watcher
type Update struct {
	Symbol string
	View   CoinView
}

// Watcher polls the selected coin on a fixed interval.
// Each tick and each selection change starts its own refresh; refreshes are
// neither coalesced nor cancelled, and a result is only delivered while the
// watcher runs and its symbol is still selected.
type Watcher struct {
	service  *Service
	interval time.Duration
	updates  chan Update
	changed  chan struct{}

	mu     sync.Mutex
	symbol string
}

// NewWatcher creates a watcher starting on symbol
func NewWatcher(service *Service, symbol string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Watcher{
		service:  service,
		interval: interval,
		updates:  make(chan Update, 1),
		changed:  make(chan struct{}, 1),
		symbol:   symbol,
	}
}

// Updates delivers the refreshed panels
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Symbol returns the selected symbol
func (w *Watcher) Symbol() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.symbol
}

// Select switches to symbol and triggers an immediate refresh
func (w *Watcher) Select(symbol string) {
	w.mu.Lock()
	w.symbol = symbol
	w.mu.Unlock()

	select {
	case w.changed <- struct{}{}:
	default:
		// a refresh is already pending and will read the new symbol
	}
}

// Run refreshes the selected symbol now and then on every tick, until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	refresh := func() {
		go w.refresh(ctx, w.Symbol())
	}

	logrus.Debugf("Watching %s every %s", w.Symbol(), w.interval)
	refresh()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			refresh()
		case <-w.changed:
			refresh()
		}
	}
}

func (w *Watcher) refresh(ctx context.Context, symbol string) {
	// the fetch outlives the watcher so its result can still land in the cache
	view := w.service.Coin(context.WithoutCancel(ctx), symbol)

	if ctx.Err() != nil {
		logrus.Debugf("Dropping %s refresh, watcher stopped", symbol)
		return
	}
	if w.Symbol() != symbol {
		logrus.Debugf("Dropping %s refresh, %s is selected now", symbol, w.Symbol())
		return
	}

	select {
	case w.updates <- Update{Symbol: symbol, View: view}:
	case <-ctx.Done():
	}
}
