package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/iTrooz/cryo-dash/internal/market"
)

// DefaultPath is read when no --config flag is given. A missing file there means defaults.
const DefaultPath = "configs/cryodash.yaml"

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Market    UpstreamConfig  `yaml:"market"`
	Decision  UpstreamConfig  `yaml:"decision"`
	Cache     CacheConfig     `yaml:"cache"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig contains JSON API server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

// UpstreamConfig locates an HTTP service we call
type UpstreamConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	Timeout string `yaml:"timeout" validate:"required,duration"`
}

// CacheConfig contains cache-related configuration
type CacheConfig struct {
	TTL     string `yaml:"ttl" validate:"required,duration"`
	Folder  string `yaml:"folder" validate:"required_if=Persist true"`
	Persist bool   `yaml:"persist"`
	// MaxEntries bounds the keys kept per cache, 0 means unbounded
	MaxEntries int `yaml:"max_entries" validate:"min=0"`
}

// DashboardConfig contains the terminal dashboard configuration
type DashboardConfig struct {
	RefreshInterval string `yaml:"refresh_interval" validate:"required,duration"`
	DefaultSymbol   string `yaml:"default_symbol" validate:"required,symbol"`
	DefaultMinutes  int    `yaml:"default_minutes" validate:"min=30,max=2880"`
}

// GatewayConfig contains the caching gateway configuration
type GatewayConfig struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
	// TransparentHTTPSPort enables the SNI listener when non-zero
	TransparentHTTPSPort int         `yaml:"transparent_https_port" validate:"min=0,max=65535"`
	HTTPS                HTTPSConfig `yaml:"https"`
	Rules                RulesConfig `yaml:"rules"`
}

// HTTPSConfig enables HTTPS interception with a local CA
type HTTPSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	CACertFile string `yaml:"ca_cert_file" validate:"required_if=Enabled true"`
	CAKeyFile  string `yaml:"ca_key_file" validate:"required_if=Enabled true"`
}

// RulesConfig contains caching rules configuration
type RulesConfig struct {
	Mode  string      `yaml:"mode" validate:"oneof=whitelist blacklist"`
	Rules []CacheRule `yaml:"rules" validate:"dive"`
}

// CacheRule defines a caching rule
type CacheRule struct {
	BaseURI string   `yaml:"base_uri" validate:"required"`
	Methods []string `yaml:"methods"`
	// StatusCodes are patterns like "200" or "2xx" of upstream responses worth caching
	StatusCodes []string `yaml:"status_codes" validate:"dive,status_pattern"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used for everything a file leaves out
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Market: UpstreamConfig{
			BaseURL: market.DefaultBaseURL,
			Timeout: "10s",
		},
		Decision: UpstreamConfig{
			BaseURL: "http://localhost:8080",
			Timeout: "60s",
		},
		Cache: CacheConfig{
			TTL:     "60s",
			Folder:  ".cryodash/cache",
			Persist: true,
		},
		Dashboard: DashboardConfig{
			RefreshInterval: "60s",
			DefaultSymbol:   market.DefaultSymbol,
			DefaultMinutes:  240,
		},
		Gateway: GatewayConfig{
			Port: 8081,
			Rules: RulesConfig{
				Mode: "whitelist",
				Rules: []CacheRule{
					{BaseURI: "https://api.coingecko.com", Methods: []string{"GET"}, StatusCodes: []string{"2xx"}},
				},
			},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load loads configuration from a YAML file on top of the defaults
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	return config, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// GetCacheTTL parses and returns the cache TTL duration
func (c *Config) GetCacheTTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// GetMarketTimeout parses and returns the market API request timeout
func (c *Config) GetMarketTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Market.Timeout)
}

// GetDecisionTimeout parses and returns the analysis request timeout
func (c *Config) GetDecisionTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Decision.Timeout)
}

// GetRefreshInterval parses and returns the dashboard polling interval
func (c *Config) GetRefreshInterval() (time.Duration, error) {
	return time.ParseDuration(c.Dashboard.RefreshInterval)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their YAML names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		d, err := time.ParseDuration(fl.Field().String())
		return err == nil && d > 0
	})
	_ = v.RegisterValidation("status_pattern", func(fl validator.FieldLevel) bool {
		return ValidStatusPattern(fl.Field().String())
	})
	_ = v.RegisterValidation("symbol", func(fl validator.FieldLevel) bool {
		_, ok := market.Lookup(fl.Field().String())
		return ok
	})
	return v
}

// ValidStatusPattern reports whether p is a status code ("404") or a class ("2xx")
func ValidStatusPattern(p string) bool {
	if len(p) != 3 || p[0] < '1' || p[0] > '5' {
		return false
	}
	rest := strings.ToLower(p[1:])
	if rest == "xx" {
		return true
	}
	return rest[0] >= '0' && rest[0] <= '9' && rest[1] >= '0' && rest[1] <= '9'
}

// Validate validates the configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "duration":
		return fmt.Sprintf("invalid %s duration: %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got: %v", field, fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("invalid %s: %v", field, fe.Value())
	case "symbol":
		return fmt.Sprintf("%s: unsupported symbol %q", field, fe.Value())
	case "status_pattern":
		return fmt.Sprintf("%s: invalid status pattern %q", field, fe.Value())
	default:
		return fmt.Sprintf("%s fails %s validation", field, fe.Tag())
	}
}
