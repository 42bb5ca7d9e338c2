package main

import (
	"fmt"
	"path/filepath"

	"github.com/iTrooz/cryo-dash/internal/cache"
	"github.com/iTrooz/cryo-dash/internal/dashboard"
	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
	"github.com/iTrooz/cryo-dash/internal/market"
)

// newStore opens the durable store under the cache folder, or a memory store when persistence is off
func (a *app) newStore(name string) (cache.GenericCache, error) {
	var store cache.GenericCache = cache.NewMemory()
	if a.cfg.Cache.Persist {
		store = cache.NewDisk(filepath.Join(a.cfg.Cache.Folder, name))
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return store, nil
}

func (a *app) newService() (*dashboard.Service, error) {
	ttl, err := a.cfg.GetCacheTTL()
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}
	marketTimeout, err := a.cfg.GetMarketTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid market timeout: %w", err)
	}
	decisionTimeout, err := a.cfg.GetDecisionTimeout()
	if err != nil {
		return nil, fmt.Errorf("invalid decision timeout: %w", err)
	}

	store, err := a.newStore("market")
	if err != nil {
		return nil, err
	}

	return dashboard.NewService(dashboard.ServiceOptions{
		Coins:    market.NewClient(a.cfg.Market.BaseURL, marketTimeout),
		Analyzer: decision.NewClient(a.cfg.Decision.BaseURL, decisionTimeout),
		CoinCache: freshcache.New(freshcache.Options[market.CoinData]{
			TTL:        ttl,
			Persister:  freshcache.NewStorePersister[market.CoinData](store, "coin_data_"),
			MaxEntries: a.cfg.Cache.MaxEntries,
		}),
		ChartCache: freshcache.New(freshcache.Options[market.ChartData]{
			TTL:        ttl,
			Persister:  freshcache.NewStorePersister[market.ChartData](store, "chart_data_"),
			MaxEntries: a.cfg.Cache.MaxEntries,
		}),
	}), nil
}

// symbolArg resolves an optional positional symbol, falling back to the configured default
func (a *app) symbolArg(args []string) (string, error) {
	if len(args) == 0 {
		return a.cfg.Dashboard.DefaultSymbol, nil
	}
	return market.Resolve(args[0])
}
