package proxy

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/iTrooz/cryo-dash/internal/config"
)

// defaultStatusPatterns decide which upstream responses count as a successful fetch when a rule names none
var defaultStatusPatterns = []string{"2xx"}

// Rule matches requests against a caching rule
type Rule interface {
	Match(targetURL, method string) bool
	AcceptsStatus(statusCode int) bool
}

// ConfigRule implements Rule interface for config-based rules
type ConfigRule struct {
	config.CacheRule
}

// Match checks if a request matches this rule
func (r *ConfigRule) Match(targetURL, method string) bool {
	if !strings.HasPrefix(targetURL, r.BaseURI) {
		return false
	}
	// no methods listed means any method
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// AcceptsStatus reports whether an upstream response with statusCode may be cached
func (r *ConfigRule) AcceptsStatus(statusCode int) bool {
	patterns := r.StatusCodes
	if len(patterns) == 0 {
		patterns = defaultStatusPatterns
	}
	return matchesAnyStatus(statusCode, patterns)
}

func matchesAnyStatus(statusCode int, patterns []string) bool {
	for _, p := range patterns {
		if MatchesStatusCode(statusCode, p) {
			return true
		}
	}
	return false
}

// MatchesStatusCode checks a status code against "404" or "4xx" style patterns
func MatchesStatusCode(statusCode int, pattern string) bool {
	pattern = strings.ToLower(pattern)
	if strings.HasSuffix(pattern, "xx") && len(pattern) == 3 {
		return strconv.Itoa(statusCode/100) == pattern[:1]
	}
	return strconv.Itoa(statusCode) == pattern
}

// Policy applies the whitelist or blacklist rules of the gateway
type Policy struct {
	mode  string
	rules []Rule
}

// NewPolicy builds a Policy from configuration
func NewPolicy(cfg config.RulesConfig) *Policy {
	rules := make([]Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, &ConfigRule{CacheRule: r})
	}
	return &Policy{mode: cfg.Mode, rules: rules}
}

// Cacheable reports whether requ goes through the cache, and which statuses
// the upstream must answer with for its response to be stored
func (p *Policy) Cacheable(requ *http.Request) (bool, func(int) bool) {
	targetURL := getTargetURL(requ)

	var matched Rule
	for _, rule := range p.rules {
		if rule.Match(targetURL, requ.Method) {
			matched = rule
			break
		}
	}

	if p.mode == "whitelist" {
		if matched == nil {
			return false, nil
		}
		return true, matched.AcceptsStatus
	}
	if matched != nil {
		return false, nil
	}
	return true, func(code int) bool { return matchesAnyStatus(code, defaultStatusPatterns) }
}

func getTargetURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}

	// Reconstruct URL from Host header
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s%s", scheme, r.Host, r.URL.String())
}
