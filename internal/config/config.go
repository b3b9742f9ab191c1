package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// PlacesConfig holds the external places provider credentials. API picks the
// provider generation ("v1" or "legacy") and an empty BaseURL keeps its public
// endpoint.
type PlacesConfig struct {
	API     string
	APIKey  string
	BaseURL string
}

// SearchConfig tunes the nearby search pipeline.
type SearchConfig struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	ResultCap       int
	InternalTimeout time.Duration
	ExternalTimeout time.Duration
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string
	Format string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL        string
	JWTSecret          string
	Port               string
	TokenTTL           time.Duration
	Places             PlacesConfig
	Search             SearchConfig
	RateLimitReviews   RateLimitConfig
	TrustedProxies     []*net.IPNet
	DefaultPhoneRegion string
	Log                LogConfig
}

var defaults = map[string]any{
	"jwt_secret":           "dev-secret",
	"jwt_ttl":              "24h",
	"port":                 "8080",
	"places_api":           "v1",
	"default_radius_km":    5.0,
	"max_radius_km":        50.0,
	"result_cap":           50,
	"internal_timeout":     "3s",
	"external_timeout":     "4s",
	"rate_limit_reviews":   "10/min",
	"default_phone_region": "IN",
	"log_level":            "info",
	"log_format":           "text",
}

// Load reads configuration from environment variables, optionally layered over
// the file named by CONFIG_FILE, and applies sane defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.BindEnv("database_url")
	v.BindEnv("places_api_key")
	v.BindEnv("config_file")
	v.BindEnv("trusted_proxies")
	v.BindEnv("places_base_url")

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		DatabaseURL:        v.GetString("database_url"),
		JWTSecret:          v.GetString("jwt_secret"),
		Port:               v.GetString("port"),
		TokenTTL:           parseDuration(v.GetString("jwt_ttl")),
		DefaultPhoneRegion: strings.ToUpper(strings.TrimSpace(v.GetString("default_phone_region"))),
		Places: PlacesConfig{
			API:     strings.ToLower(strings.TrimSpace(v.GetString("places_api"))),
			APIKey:  strings.TrimSpace(v.GetString("places_api_key")),
			BaseURL: strings.TrimSpace(v.GetString("places_base_url")),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
	}

	switch cfg.Places.API {
	case "v1", "legacy":
	default:
		return nil, fmt.Errorf("invalid PLACES_API value %q: expected v1 or legacy", cfg.Places.API)
	}

	search, err := loadSearch(v)
	if err != nil {
		return nil, err
	}
	cfg.Search = search

	rl, err := parseRateLimit(v.GetString("rate_limit_reviews"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REVIEWS value: %w", err)
	}
	cfg.RateLimitReviews = rl

	proxies, err := parseTrustedProxies(v.GetString("trusted_proxies"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES value: %w", err)
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

func loadSearch(v *viper.Viper) (SearchConfig, error) {
	var cfg SearchConfig
	var err error

	if cfg.DefaultRadiusKm, err = positiveFloat(v, "default_radius_km"); err != nil {
		return cfg, err
	}
	if cfg.MaxRadiusKm, err = positiveFloat(v, "max_radius_km"); err != nil {
		return cfg, err
	}
	if cfg.DefaultRadiusKm > cfg.MaxRadiusKm {
		return cfg, fmt.Errorf("DEFAULT_RADIUS_KM (%v) exceeds MAX_RADIUS_KM (%v)", cfg.DefaultRadiusKm, cfg.MaxRadiusKm)
	}

	resultCap, err := strconv.Atoi(strings.TrimSpace(v.GetString("result_cap")))
	if err != nil || resultCap <= 0 {
		return cfg, fmt.Errorf("invalid RESULT_CAP value: %q", v.GetString("result_cap"))
	}
	cfg.ResultCap = resultCap

	if cfg.InternalTimeout, err = positiveDuration(v, "internal_timeout"); err != nil {
		return cfg, err
	}
	if cfg.ExternalTimeout, err = positiveDuration(v, "external_timeout"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func positiveFloat(v *viper.Viper, key string) (float64, error) {
	raw := strings.TrimSpace(v.GetString(key))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", strings.ToUpper(key), raw)
	}
	return value, nil
}

func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s value: %q", strings.ToUpper(key), raw)
	}
	return d, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

// parseTrustedProxies reads a comma separated list of CIDRs or bare IPs.
func parseTrustedProxies(value string) ([]*net.IPNet, error) {
	var networks []*net.IPNet
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("not an ip or cidr: %q", part)
			}
			bits := 128
			if ip.To4() != nil {
				ip = ip.To4()
				bits = 32
			}
			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(part)
		if err != nil {
			return nil, err
		}
		networks = append(networks, network)
	}
	return networks, nil
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}
