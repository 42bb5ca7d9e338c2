// Package proxy implements the caching gateway: a forward proxy that serves
// matching upstream responses through a freshness-gated cache, falling back to
// the last stored response when the upstream fails.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/elazarl/goproxy"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iTrooz/cryo-dash/internal/cache"
	"github.com/iTrooz/cryo-dash/internal/config"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
)

const shutdownTimeout = 5 * time.Second

// Server represents the caching proxy server
type Server struct {
	config    *config.Config
	proxy     *goproxy.ProxyHttpServer
	policy    *Policy
	store     cache.GenericCache
	responses *freshcache.Cache[storedResponse]
	certs     *certStore
	clock     freshcache.Clock
}

// Option customizes a Server
type Option func(*Server)

// WithClock replaces the wall clock used for freshness decisions
func WithClock(clock freshcache.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithStore replaces the response store built from the cache configuration
func WithStore(store cache.GenericCache) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a new proxy server
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	cacheTTL, err := cfg.GetCacheTTL()
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}

	s := &Server{
		config: cfg,
		policy: NewPolicy(cfg.Gateway.Rules),
		certs:  newCertStore(),
		clock:  freshcache.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		if cfg.Cache.Persist {
			s.store = cache.NewDisk(filepath.Join(cfg.Cache.Folder, "gateway"))
		} else {
			s.store = cache.NewMemory()
		}
	}
	if err := s.store.Init(); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	s.responses = freshcache.New(freshcache.Options[storedResponse]{
		TTL:        cacheTTL,
		Clock:      s.clock,
		Persister:  freshcache.NewStorePersister[storedResponse](s.store, "response_"),
		MaxEntries: cfg.Cache.MaxEntries,
	})

	s.proxy = goproxy.NewProxyHttpServer()
	s.proxy.Verbose = logrus.IsLevelEnabled(logrus.DebugLevel)
	s.proxy.Logger = logrus.StandardLogger()
	s.proxy.CertStore = s.certs
	s.proxy.NonproxyHandler = http.HandlerFunc(s.handleNonProxy)

	if cfg.Gateway.HTTPS.Enabled {
		if err := s.setupHTTPSProxyHandler(); err != nil {
			return nil, err
		}
	}
	s.proxy.OnRequest().DoFunc(s.handleRequest)

	return s, nil
}

// GetProxy returns the proxy handler
func (s *Server) GetProxy() http.Handler {
	return s.proxy
}

// Stats returns the counters of the response cache
func (s *Server) Stats() freshcache.Stats {
	return s.responses.Stats()
}

// Start serves the proxy, and the transparent HTTPS listener when configured,
// until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	gw := s.config.Gateway
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", gw.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", gw.Port, err)
	}

	logrus.Infof("Starting caching gateway on port %d", gw.Port)
	logrus.Infof("Cache TTL: %s", s.config.Cache.TTL)
	logrus.Infof("Rules mode: %s", gw.Rules.Mode)
	if gw.HTTPS.Enabled {
		logrus.Infof("HTTPS interception enabled")
	}

	srv := &http.Server{
		Handler:           s.proxy,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving gateway: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if gw.TransparentHTTPSPort != 0 {
		tln, err := net.Listen("tcp", fmt.Sprintf(":%d", gw.TransparentHTTPSPort))
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listening for https connections on port %d: %w", gw.TransparentHTTPSPort, err)
		}
		logrus.Infof("Transparent HTTPS listener on port %d", gw.TransparentHTTPSPort)
		g.Go(func() error {
			return s.ServeTransparentHTTPS(gctx, tln)
		})
	}

	return g.Wait()
}

// handleNonProxy answers requests addressed to the gateway itself
func (s *Server) handleNonProxy(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/stats" {
		http.Error(w, "This is a caching proxy, configure it as your HTTP proxy", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"responses":    s.Stats(),
		"certificates": s.certs.Len(),
	}); err != nil {
		logrus.Errorf("Failed to write stats: %v", err)
	}
}
