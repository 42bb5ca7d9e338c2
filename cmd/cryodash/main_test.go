package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/iTrooz/cryo-dash/internal/config"
	"github.com/iTrooz/cryo-dash/internal/decision"
)

const analysisJSON = `{
	"signal": "BUY",
	"confidence": "HIGH",
	"summary": "Momentum and sentiment both point up.",
	"timestamp": "2024-05-01T12:00:00Z",
	"parameters": {"symbol": "BTC/USDT", "minutes": 240},
	"quantitativeAnalysis": {
		"historicalData": [{"time": 1000, "price": 60000}, {"time": 2000, "price": 60200}],
		"forecastData": [{"time": 3000, "price": 60500}],
		"metrics": {"predictedChange": 0.83, "predictedPrice": 60500, "currentPrice": 60000}
	},
	"sentimentAnalysis": {
		"marketMoodScore": 3.2,
		"sentimentLabel": "Bullish",
		"topHeadlines": [],
		"statistics": {"totalArticles": 0, "sentimentTrend": "improving"}
	}
}`

// writeConfig points both upstreams at the given URLs and keeps the cache in memory
func writeConfig(t *testing.T, marketURL, decisionURL string) string {
	t.Helper()
	content := fmt.Sprintf(`
market:
  base_url: %s
decision:
  base_url: %s
cache:
  persist: false
`, marketURL, decisionURL)

	path := filepath.Join(t.TempDir(), "cryodash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := loadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = loadConfig(missing, true)
	assert.Error(t, err)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  ttl: forever\n"), 0644))

	_, err := run(t, "--config", path, "symbols")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cache.ttl duration")
}

func TestSymbolsCmd(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"), "symbols")

	require.NoError(t, err)
	assert.Contains(t, out, "* BTC/USDT")
	assert.Contains(t, out, "DOGE/USDT")
	assert.Contains(t, out, "24 Hours")
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "--config", writeConfig(t, "http://market.test", "http://backend.test"), "config")

	require.NoError(t, err)
	assert.Contains(t, out, "base_url: http://market.test")
	assert.Contains(t, out, "persist: false")
	assert.Contains(t, out, "default_symbol: BTC/USDT")
}

func TestCoinCmd(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3000,"market_cap":360000000000,"market_cap_rank":2}]`))
	}))
	defer upstream.Close()
	cfgPath := writeConfig(t, upstream.URL, "http://127.0.0.1:1")

	out, err := run(t, "--config", cfgPath, "coin", "eth", "--json")
	require.NoError(t, err)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "ETH/USDT", view["symbol"])
	assert.Equal(t, "refreshed", view["status"])
	assert.Equal(t, "$3,000.00", view["price"])

	out, err = run(t, "--config", cfgPath, "coin", "eth")
	require.NoError(t, err)
	assert.Contains(t, out, "Ethereum")
	assert.Contains(t, out, "$3,000.00")
}

func TestCoinCmdUnsupportedSymbol(t *testing.T) {
	_, err := run(t, "--config", writeConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"), "coin", "pepe")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported symbol")
}

func TestAnalyzeCmd(t *testing.T) {
	var calls atomic.Int32
	var gotMinutes atomic.String
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Inc()
		gotMinutes.Store(r.URL.Query().Get("minutes"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(analysisJSON))
	}))
	defer backend.Close()
	cfgPath := writeConfig(t, "http://127.0.0.1:1", backend.URL)

	out, err := run(t, "--config", cfgPath, "analyze", "--horizon", "12 Hours")
	require.NoError(t, err)
	assert.Contains(t, out, "BUY")
	assert.Equal(t, "720", gotMinutes.Load())

	out, err = run(t, "--config", cfgPath, "analyze", "--symbol", "btc-usdt", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"signal": "BUY"`)
	assert.Equal(t, "240", gotMinutes.Load())
	assert.Equal(t, int32(2), calls.Load())
}

func TestAnalyzeCmdRejectsBadHorizon(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Inc()
	}))
	defer backend.Close()
	cfgPath := writeConfig(t, "http://127.0.0.1:1", backend.URL)

	_, err := run(t, "--config", cfgPath, "analyze", "--minutes", "10")
	require.Error(t, err)
	assert.Equal(t, "Please enter between 30 and 2880 minutes", err.Error())

	_, err = run(t, "--config", cfgPath, "analyze", "--horizon", "forever")
	require.Error(t, err)
	assert.ErrorIs(t, err, decision.ErrHorizonOutOfRange)
	assert.True(t, strings.HasPrefix(err.Error(), "Please enter between 30 and 2880 minutes"), err.Error())

	assert.Zero(t, calls.Load())
}

func TestAnalyzeCmdBackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	backendURL := backend.URL
	backend.Close()

	_, err := run(t, "--config", writeConfig(t, "http://127.0.0.1:1", backendURL), "analyze")

	require.Error(t, err)
	assert.Equal(t, "Unable to connect to the server. Please ensure the backend is running on "+backendURL, err.Error())
}
