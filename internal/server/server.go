// Package server exposes the dashboard panels as a JSON API
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iTrooz/cryo-dash/internal/dashboard"
	"github.com/iTrooz/cryo-dash/internal/decision"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
	"github.com/iTrooz/cryo-dash/internal/market"
)

const shutdownTimeout = 5 * time.Second

// Dashboard is what the API serves
type Dashboard interface {
	Coin(ctx context.Context, symbol string) dashboard.CoinView
	Chart(ctx context.Context, symbol string, days int) freshcache.Result[market.ChartData]
	Analyze(ctx context.Context, symbol string, minutes int) (*dashboard.AnalysisView, error)
	CoinStats() freshcache.Stats
	ChartStats() freshcache.Stats
}

// Options configures a Server
type Options struct {
	Port int
	// DefaultSymbol is used when a request names no symbol
	DefaultSymbol  string
	DefaultMinutes int
}

// Server represents the JSON API server
type Server struct {
	opts      Options
	dashboard Dashboard
	mux       *http.ServeMux
}

// New creates a new API server
func New(d Dashboard, opts Options) *Server {
	if opts.DefaultSymbol == "" {
		opts.DefaultSymbol = market.DefaultSymbol
	}
	if opts.DefaultMinutes == 0 {
		opts.DefaultMinutes = decision.DefaultMinutes
	}

	s := &Server{
		opts:      opts,
		dashboard: d,
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	s.mux.HandleFunc("GET /api/horizons", s.handleHorizons)
	s.mux.HandleFunc("GET /api/coin", s.handleCoin)
	s.mux.HandleFunc("GET /api/chart", s.handleChart)
	s.mux.HandleFunc("GET /api/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	return s
}

// Handler returns the API routes wrapped with request logging
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.opts.Port))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", s.opts.Port, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.Infof("Starting API server on %s", ln.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving API: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logrus.Infof("Shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, market.Coins())
}

func (s *Server) handleHorizons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"presets":        decision.Presets(),
		"minMinutes":     decision.MinMinutes,
		"maxMinutes":     decision.MaxMinutes,
		"defaultMinutes": s.opts.DefaultMinutes,
	})
}

func (s *Server) handleCoin(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}

	view := s.dashboard.Coin(r.Context(), symbol)
	w.Header().Set("X-Cache", view.Status.CacheHeader())
	if view.Unavailable {
		writeJSON(w, http.StatusServiceUnavailable, view)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type chartResponse struct {
	Symbol    string            `json:"symbol"`
	Days      int               `json:"days"`
	Status    freshcache.Status `json:"status"`
	Degraded  bool              `json:"degraded"`
	FetchedAt time.Time         `json:"fetchedAt"`
	Data      market.ChartData  `json:"data"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}

	days := market.DefaultChartDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid days %q", raw))
			return
		}
		days = n
	}

	res := s.dashboard.Chart(r.Context(), symbol, days)
	w.Header().Set("X-Cache", res.Status.CacheHeader())
	if !res.HasValue() {
		writeMessage(w, http.StatusBadGateway, "Unable to load chart data")
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{
		Symbol:    symbol,
		Days:      days,
		Status:    res.Status,
		Degraded:  res.Degraded(),
		FetchedAt: res.FetchedAt,
		Data:      res.Value,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	symbol, ok := s.symbol(w, r)
	if !ok {
		return
	}
	minutes, err := s.minutes(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, horizonMessage(err))
		return
	}

	view, err := s.dashboard.Analyze(r.Context(), symbol, minutes)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, decision.ErrInvalidRequest) {
			status = http.StatusBadRequest
		}
		writeMessage(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]freshcache.Stats{
		"coin":  s.dashboard.CoinStats(),
		"chart": s.dashboard.ChartStats(),
	})
}

// symbol resolves the symbol query parameter, answering 400 itself when it is not supported
func (s *Server) symbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := r.URL.Query().Get("symbol")
	if raw == "" {
		return s.opts.DefaultSymbol, true
	}
	symbol, err := market.Resolve(raw)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return symbol, true
}

// minutes reads the horizon from "minutes" or "horizon", in that order
func (s *Server) minutes(r *http.Request) (int, error) {
	q := r.URL.Query()
	if raw := q.Get("minutes"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid minutes %q: %w", raw, decision.ErrHorizonOutOfRange)
		}
		return n, nil
	}
	if raw := q.Get("horizon"); raw != "" {
		return decision.ParseHorizon(raw)
	}
	return s.opts.DefaultMinutes, nil
}

func horizonMessage(err error) string {
	if msg := decision.HorizonMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write response body: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
