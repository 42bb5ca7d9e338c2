package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elazarl/goproxy"
	"github.com/sirupsen/logrus"

	"github.com/iTrooz/cryo-dash/internal/cache/httpcache"
	"github.com/iTrooz/cryo-dash/internal/freshcache"
)

// StaleWarning is set on responses served from an outdated entry
const StaleWarning = `110 - "Response is Stale"`

var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// storedResponse is an upstream response as written by httpcache.Serialize
type storedResponse struct {
	Raw []byte `json:"raw"`
}

// rejectedError is a fetch failure carrying the upstream's own answer
type rejectedError struct {
	statusCode int
	raw        []byte
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("upstream answered %d", e.statusCode)
}

func (s *Server) handleRequest(requ *http.Request, ctx *goproxy.ProxyCtx) (*http.Request, *http.Response) {
	cacheable, accepts := s.policy.Cacheable(requ)
	if !cacheable {
		logrus.Debugf("Not caching %s %s (disabled by rules)", requ.Method, requ.URL)
		return requ, nil
	}

	key, err := httpcache.GenerateKey(requ)
	if err != nil {
		logrus.Errorf("Failed to generate cache key for %s: %v", requ.URL, err)
		return requ, nil
	}

	res := s.responses.GetValue(requ.Context(), key, s.fetcher(requ, accepts))
	logrus.Infof("%s %s -> %s", requ.Method, requ.URL, res.Status)
	return requ, s.respond(requ, res)
}

// fetcher forwards requ upstream. Responses with a status the rule does not
// accept are failures, so a stored response is served instead when there is one.
func (s *Server) fetcher(requ *http.Request, accepts func(int) bool) freshcache.Fetcher[storedResponse] {
	return func(ctx context.Context) (storedResponse, error) {
		out := requ.Clone(ctx)
		out.RequestURI = ""
		for _, h := range hopHeaders {
			out.Header.Del(h)
		}

		resp, err := s.proxy.Tr.RoundTrip(out)
		if err != nil {
			return storedResponse{}, fmt.Errorf("forwarding %s: %w", requ.URL, err)
		}
		defer func() { _ = resp.Body.Close() }()

		raw, err := httpcache.Serialize(resp)
		if err != nil {
			return storedResponse{}, fmt.Errorf("storing response of %s: %w", requ.URL, err)
		}
		if !accepts(resp.StatusCode) {
			return storedResponse{}, &rejectedError{statusCode: resp.StatusCode, raw: raw}
		}
		return storedResponse{Raw: raw}, nil
	}
}

func (s *Server) respond(requ *http.Request, res freshcache.Result[storedResponse]) *http.Response {
	if !res.HasValue() {
		var rejected *rejectedError
		if errors.As(res.Err, &rejected) {
			if resp, err := httpcache.Deserialize(rejected.raw, requ); err == nil {
				resp.Header.Set("X-Cache", res.Status.CacheHeader())
				return resp
			}
		}
		return s.badGateway(requ, fmt.Sprintf("upstream unavailable: %v", res.Err))
	}

	resp, err := httpcache.Deserialize(res.Value.Raw, requ)
	if err != nil {
		logrus.Errorf("Failed to decode cached response for %s: %v", requ.URL, err)
		return s.badGateway(requ, "cached response is corrupt")
	}

	resp.Header.Set("X-Cache", res.Status.CacheHeader())
	if res.Status != freshcache.StatusRefreshed {
		age := s.clock.Now().Sub(res.FetchedAt)
		resp.Header.Set("Age", strconv.Itoa(int(age.Seconds())))
	}
	if res.Degraded() {
		resp.Header.Set("Warning", StaleWarning)
	}
	return resp
}

func (s *Server) badGateway(requ *http.Request, message string) *http.Response {
	resp := goproxy.NewResponse(requ, goproxy.ContentTypeText, http.StatusBadGateway, message+"\n")
	resp.Header.Set("X-Cache", freshcache.StatusUnavailable.CacheHeader())
	return resp
}
