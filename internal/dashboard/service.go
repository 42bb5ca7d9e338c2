// Package dashboard turns market data and analysis results into panels.
//
// It owns the freshness-gated caches in front of the market API, the view
// models shown by every front end (terminal and JSON API) and the polling
// loop that keeps the selected coin up to date.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
	"github.com/iTrooz/cryo-dash/internal/market"
)

//go:generate mockgen -source=service.go -destination=../mocks/dashboard_mocks/mock_service.go -package=dashboard_mocks

// CoinSource is the upstream market API
type CoinSource interface {
	CoinData(ctx context.Context, symbol string) (*market.CoinData, error)
	ChartData(ctx context.Context, symbol string, days int) (*market.ChartData, error)
}

// Analyzer is the backend analysis endpoint
type Analyzer interface {
	Analyze(ctx context.Context, req decision.Request) (*decision.AnalysisResult, error)
	Describe(err error) string
}

// AnalysisError carries the message to show for a failed analysis
type AnalysisError struct {
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Service serves the dashboard panels
type Service struct {
	coins    CoinSource
	analyzer Analyzer
	coinData *freshcache.Cache[market.CoinData]
	charts   *freshcache.Cache[market.ChartData]
	clock    freshcache.Clock
}

// ServiceOptions configures a Service. Nil caches get an in-memory cache with the default TTL.
type ServiceOptions struct {
	Coins     CoinSource
	Analyzer  Analyzer
	CoinCache *freshcache.Cache[market.CoinData]
	// ChartCache is keyed by "<symbol>@<days>d"
	ChartCache *freshcache.Cache[market.ChartData]
	Clock      freshcache.Clock
}

// NewService creates a Service
func NewService(opts ServiceOptions) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = freshcache.SystemClock{}
	}
	coinCache := opts.CoinCache
	if coinCache == nil {
		coinCache = freshcache.New(freshcache.Options[market.CoinData]{Clock: clock})
	}
	chartCache := opts.ChartCache
	if chartCache == nil {
		chartCache = freshcache.New(freshcache.Options[market.ChartData]{Clock: clock})
	}

	return &Service{
		coins:    opts.Coins,
		analyzer: opts.Analyzer,
		coinData: coinCache,
		charts:   chartCache,
		clock:    clock,
	}
}

// Now is the time the service's caches use
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// CoinResult returns the cache result for symbol, fetching when it is not fresh
func (s *Service) CoinResult(ctx context.Context, symbol string) freshcache.Result[market.CoinData] {
	return s.coinData.GetValue(ctx, symbol, func(ctx context.Context) (market.CoinData, error) {
		data, err := s.coins.CoinData(ctx, symbol)
		if err != nil {
			return market.CoinData{}, err
		}
		return *data, nil
	})
}

// Coin returns the coin panel for symbol
func (s *Service) Coin(ctx context.Context, symbol string) CoinView {
	return NewCoinView(symbol, s.CoinResult(ctx, symbol))
}

// Chart returns the price history of symbol over the last days
func (s *Service) Chart(ctx context.Context, symbol string, days int) freshcache.Result[market.ChartData] {
	if days <= 0 {
		days = market.DefaultChartDays
	}
	key := fmt.Sprintf("%s@%dd", symbol, days)
	return s.charts.GetValue(ctx, key, func(ctx context.Context) (market.ChartData, error) {
		data, err := s.coins.ChartData(ctx, symbol, days)
		if err != nil {
			return market.ChartData{}, err
		}
		return *data, nil
	})
}

// Analyze calls the backend once. Failures come back as *AnalysisError.
func (s *Service) Analyze(ctx context.Context, symbol string, minutes int) (*AnalysisView, error) {
	result, err := s.analyzer.Analyze(ctx, decision.Request{Symbol: symbol, Minutes: minutes})
	if err != nil {
		return nil, &AnalysisError{Message: s.analyzer.Describe(err), Err: err}
	}
	return NewAnalysisView(result, s.clock.Now()), nil
}

// CoinStats returns the counters of the coin data cache
func (s *Service) CoinStats() freshcache.Stats {
	return s.coinData.Stats()
}

// ChartStats returns the counters of the chart cache
func (s *Service) ChartStats() freshcache.Stats {
	return s.charts.Stats()
}
