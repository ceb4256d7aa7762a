package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Values(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Equal(t, DefaultBazaarURL, c.BazaarURL)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, 30*time.Second, c.SnapshotTTL)
	assert.Equal(t, 4, c.MaxConcurrentRequests)
	assert.NoError(t, c.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BAZAAR_URL", "http://localhost:9999/bazaar")
	t.Setenv("BAZAAR_API_KEY", "secret-token")
	t.Setenv("RECIPES_SOURCE", "/tmp/recipes.json")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("SNAPSHOT_TTL", "1m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("MAX_CONCURRENT_REQUESTS", "2")
	t.Setenv("LISTEN_ADDR", ":8088")
	t.Setenv("RESULT_CACHE_SIZE", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999/bazaar", cfg.BazaarURL)
	assert.Equal(t, "secret-token", cfg.APIKey)
	assert.Equal(t, "/tmp/recipes.json", cfg.RecipesSource)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.SnapshotTTL)
	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, 2, cfg.MaxConcurrentRequests)
	assert.Equal(t, ":8088", cfg.ListenAddr)
	assert.Equal(t, 8, cfg.ResultCacheSize)
}

func TestLoad_BadNumbers(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "timeout not a duration", key: "HTTP_TIMEOUT", value: "soon"},
		{name: "ttl not a duration", key: "SNAPSHOT_TTL", value: "10"},
		{name: "rate not an int", key: "RATE_LIMIT_PER_MINUTE", value: "fast"},
		{name: "concurrency not an int", key: "MAX_CONCURRENT_REQUESTS", value: "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestValidate_RejectsBadValues(t *testing.T) {
	c := Default()
	c.BazaarURL = "not a url"
	c.MaxConcurrentRequests = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BazaarURL")
	assert.Contains(t, err.Error(), "MaxConcurrentRequests")
}

func TestAPIKeyNotSerialized(t *testing.T) {
	c := Default()
	c.APIKey = "secret"
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
}

func TestRankOptions(t *testing.T) {
	def := DefaultRankOptions()
	assert.Equal(t, BasisInstant, def.CostBasis)
	assert.Equal(t, BasisStanding, def.RevenueBasis)
	assert.Equal(t, int64(0), def.MinBuyVolume)
	assert.Equal(t, 10, def.TopN)
	assert.NoError(t, def.Validate())

	tests := []struct {
		name   string
		mutate func(*RankOptions)
		field  string
	}{
		{name: "unknown cost basis", mutate: func(o *RankOptions) { o.CostBasis = "cheap" }, field: "CostBasis"},
		{name: "unknown revenue basis", mutate: func(o *RankOptions) { o.RevenueBasis = "" }, field: "RevenueBasis"},
		{name: "negative volume", mutate: func(o *RankOptions) { o.MinBuyVolume = -1 }, field: "MinBuyVolume"},
		{name: "negative top", mutate: func(o *RankOptions) { o.TopN = -3 }, field: "TopN"},
		{name: "too many workers", mutate: func(o *RankOptions) { o.Workers = 1000 }, field: "Workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultRankOptions()
			tt.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}
