package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultBazaarURL     = "https://api.hypixel.net/v2/skyblock/bazaar"
	DefaultRecipesSource = "data/InternalNameMappings.json"
)

// Config holds process settings: where data comes from and how the fetcher and
// server behave. Ranking knobs are not here; see RankOptions.
type Config struct {
	BazaarURL             string        `json:"bazaar_url" validate:"required,url"`
	APIKey                string        `json:"-"` // passed through to the bazaar as-is
	RecipesSource         string        `json:"recipes_source" validate:"required"`
	HTTPTimeout           time.Duration `json:"http_timeout" validate:"gt=0"`
	SnapshotTTL           time.Duration `json:"snapshot_ttl" validate:"gte=0"`
	RateLimitPerMinute    int           `json:"rate_limit_per_minute" validate:"gte=0"` // 0 = unlimited
	MaxConcurrentRequests int           `json:"max_concurrent_requests" validate:"gte=1"`
	ListenAddr            string        `json:"listen_addr" validate:"required,hostname_port"`
	ResultCacheSize       int           `json:"result_cache_size" validate:"gte=1"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BazaarURL:             DefaultBazaarURL,
		RecipesSource:         DefaultRecipesSource,
		HTTPTimeout:           15 * time.Second,
		SnapshotTTL:           30 * time.Second,
		RateLimitPerMinute:    100,
		MaxConcurrentRequests: 4,
		ListenAddr:            "127.0.0.1:13380",
		ResultCacheSize:       64,
	}
}

// Load reads a .env file if one exists, then overlays environment variables on
// top of Default and validates the result.
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	cfg := Default()
	cfg.BazaarURL = getEnv("BAZAAR_URL", cfg.BazaarURL)
	cfg.APIKey = getEnv("BAZAAR_API_KEY", "")
	cfg.RecipesSource = getEnv("RECIPES_SOURCE", cfg.RecipesSource)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)

	var err error
	if cfg.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.SnapshotTTL, err = getEnvDuration("SNAPSHOT_TTL", cfg.SnapshotTTL); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentRequests, err = getEnvInt("MAX_CONCURRENT_REQUESTS", cfg.MaxConcurrentRequests); err != nil {
		return nil, err
	}
	if cfg.ResultCacheSize, err = getEnvInt("RESULT_CACHE_SIZE", cfg.ResultCacheSize); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	return validateStruct("config", c)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

var validate = validator.New()

// validateStruct runs tag validation and flattens the failures into one error
// naming each offending field.
func validateStruct(what string, s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", e.Field(), e.Tag(), e.Param(), e.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s (got %v)", e.Field(), e.Tag(), e.Value()))
		}
	}
	return fmt.Errorf("invalid %s: %s", what, strings.Join(msgs, "; "))
}
