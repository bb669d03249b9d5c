package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingBrandDevAPIKey is returned when BRANDDEV_API_KEY is unset.
	ErrMissingBrandDevAPIKey = errors.New("BRANDDEV_API_KEY must be set")
	// ErrMissingJWTSecret is returned when JWT_SECRET is unset.
	ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// BrandDevConfig holds the brand.dev provider settings.
type BrandDevConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	Port            string
	BrandDev        BrandDevConfig
	RateLimitEnrich RateLimitConfig
	TokenTTL        time.Duration
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Port:        getEnv("PORT", "8080"),
		BrandDev: BrandDevConfig{
			APIKey:  strings.TrimSpace(os.Getenv("BRANDDEV_API_KEY")),
			BaseURL: getEnv("BRANDDEV_BASE_URL", "https://api.brand.dev/v1/brand/retrieve"),
			Timeout: parseDuration(getEnv("BRANDDEV_TIMEOUT", "10s"), 10*time.Second),
		},
		TokenTTL: parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),
	}

	if cfg.BrandDev.APIKey == "" {
		return nil, ErrMissingBrandDevAPIKey
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_ENRICH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENRICH value: %w", err)
	}
	cfg.RateLimitEnrich = rl

	return cfg, nil
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

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
