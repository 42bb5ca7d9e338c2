// Package tests holds end-to-end tests of the caching gateway
package tests

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/iTrooz/cryo-dash/internal/config"
	"github.com/iTrooz/cryo-dash/internal/proxy"
)

// upstream is a test origin whose answers can be switched to failures
type upstream struct {
	*httptest.Server
	calls  atomic.Int32
	status atomic.Int32
	body   atomic.String
}

// fixture_upstream creates a test upstream server answering 200 until told otherwise
func fixture_upstream() *upstream {
	u := &upstream{}
	u.status.Store(http.StatusOK)
	u.body.Store("Hello from upstream")
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, requ *http.Request) {
		u.calls.Inc()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(int(u.status.Load()))
		_, _ = w.Write([]byte(`{"message": "` + u.body.Load() + `", "path": "` + requ.URL.Path + `"}`))
	}))
	return u
}

// manualClock is moved by hand to expire cached responses
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1700000000, 0)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixture_config creates a test config caching everything under upstreamURL
func fixture_config(upstreamURL, tempDir string, rules *config.RulesConfig) *config.Config {
	cfg := config.Default()
	cfg.Cache.TTL = "1m"
	cfg.Cache.Folder = tempDir
	cfg.Gateway.Rules = config.RulesConfig{
		Mode:  "whitelist",
		Rules: []config.CacheRule{{BaseURI: upstreamURL, Methods: []string{"GET"}}},
	}

	if rules != nil {
		cfg.Gateway.Rules = *rules
	}

	return cfg
}

// fixture_proxy creates a proxy server with the given config and returns the server, test server, and HTTP client
func fixture_proxy(cfg *config.Config, opts ...proxy.Option) (*proxy.Server, *httptest.Server, *http.Client, error) {
	proxyServer, err := proxy.New(cfg, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	proxyTestServer := httptest.NewServer(proxyServer.GetProxy())

	proxyURL, _ := url.Parse(proxyTestServer.URL)
	client := &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		},
		Timeout: 10 * time.Second,
	}

	return proxyServer, proxyTestServer, client, nil
}
