package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
	"github.com/iTrooz/cryo-dash/internal/market"
	"github.com/iTrooz/cryo-dash/internal/mocks/dashboard_mocks"
)

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

func TestServiceCoin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoins := dashboard_mocks.NewMockCoinSource(ctrl)
	clock := newManualClock(0)
	service := NewService(ServiceOptions{Coins: mockCoins, Clock: clock})
	btc := sampleCoin(50000)

	gomock.InOrder(
		mockCoins.EXPECT().CoinData(gomock.Any(), "BTC/USDT").Return(&btc, nil),
		mockCoins.EXPECT().CoinData(gomock.Any(), "BTC/USDT").Return(nil, rateLimited()),
	)

	first := service.Coin(context.Background(), "BTC/USDT")
	assert.Equal(t, freshcache.StatusRefreshed, first.Status)
	assert.Equal(t, "$50,000.00", first.Price)

	clock.Set(30000)
	second := service.Coin(context.Background(), "BTC/USDT")
	assert.Equal(t, freshcache.StatusFresh, second.Status)

	clock.Set(65000)
	third := service.Coin(context.Background(), "BTC/USDT")
	assert.Equal(t, freshcache.StatusDegraded, third.Status)
	assert.True(t, third.RateLimited)
	assert.Equal(t, time.UnixMilli(0), third.FetchedAt)
	assert.Equal(t, "$50,000.00", third.Price)

	assert.Equal(t, freshcache.Stats{Hits: 1, Refreshes: 1, Degraded: 1}, service.CoinStats())
}

func TestServiceCoinUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoins := dashboard_mocks.NewMockCoinSource(ctrl)
	service := NewService(ServiceOptions{Coins: mockCoins, Clock: newManualClock(0)})

	mockCoins.EXPECT().
		CoinData(gomock.Any(), "XRP/USDT").
		Return(nil, &market.FetchError{Kind: market.KindUnavailable, Symbol: "XRP/USDT", Err: errors.New("no route to host")})

	view := service.Coin(context.Background(), "XRP/USDT")

	assert.True(t, view.Unavailable)
	assert.Equal(t, freshcache.StatusUnavailable, view.Status)
}

func TestServiceChart(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoins := dashboard_mocks.NewMockCoinSource(ctrl)
	service := NewService(ServiceOptions{Coins: mockCoins, Clock: newManualClock(0)})
	week := &market.ChartData{Prices: [][2]float64{{1, 100}}}
	month := &market.ChartData{Prices: [][2]float64{{1, 90}, {2, 100}}}

	mockCoins.EXPECT().ChartData(gomock.Any(), "ETH/USDT", 7).Return(week, nil).Times(1)
	mockCoins.EXPECT().ChartData(gomock.Any(), "ETH/USDT", 30).Return(month, nil).Times(1)

	res := service.Chart(context.Background(), "ETH/USDT", 0)
	assert.Equal(t, freshcache.StatusRefreshed, res.Status)
	assert.Equal(t, *week, res.Value)

	res = service.Chart(context.Background(), "ETH/USDT", 7)
	assert.Equal(t, freshcache.StatusFresh, res.Status, "0 days means the default week")

	res = service.Chart(context.Background(), "ETH/USDT", 30)
	assert.Equal(t, *month, res.Value)
	assert.Equal(t, uint64(2), service.ChartStats().Refreshes)
}

func TestServiceAnalyze(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := dashboard_mocks.NewMockAnalyzer(ctrl)
	service := NewService(ServiceOptions{Analyzer: mockAnalyzer, Clock: newManualClock(1714564800000)})

	mockAnalyzer.EXPECT().
		Analyze(gomock.Any(), decision.Request{Symbol: "BTC/USDT", Minutes: 240}).
		Return(sampleAnalysis(), nil)

	view, err := service.Analyze(context.Background(), "BTC/USDT", 240)
	require.NoError(t, err)

	assert.Equal(t, decision.SignalBuy, view.Decision.Signal)
	assert.Equal(t, "+0.83%", view.Forecast.PredictedChange)
	assert.Equal(t, "1 hour ago", view.Sentiment.Headlines[0].Ago)
	assert.Equal(t, "BTC/USDT", view.Result.Parameters.Symbol)
}

func TestServiceAnalyzeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAnalyzer := dashboard_mocks.NewMockAnalyzer(ctrl)
	service := NewService(ServiceOptions{Analyzer: mockAnalyzer})
	backendErr := errors.Join(decision.ErrServerUnreachable, errors.New("connection refused"))

	mockAnalyzer.EXPECT().Analyze(gomock.Any(), gomock.Any()).Return(nil, backendErr)
	mockAnalyzer.EXPECT().Describe(backendErr).Return("Unable to connect to the server.")

	view, err := service.Analyze(context.Background(), "BTC/USDT", 60)

	assert.Nil(t, view)
	var analysisErr *AnalysisError
	require.True(t, errors.As(err, &analysisErr))
	assert.Equal(t, "Unable to connect to the server.", analysisErr.Message)
	assert.ErrorIs(t, err, decision.ErrServerUnreachable)
}
