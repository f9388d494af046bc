package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetCacheConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"CACHE_BACKEND",
		"CACHE_LRU_ENABLED",
		"CACHE_LRU_SIZE",
		"CACHE_LRU_TTL_MINUTES",
		"CACHE_DYNAMO_TABLE",
		"CACHE_BATCH_SIZE",
		"CACHE_MAX_BATCH_RETRIES",
		"CACHE_S3_BUCKET",
		"CACHE_S3_KEY",
	} {
		t.Setenv(k, "")
	}

	cfg := GetCacheConfig()

	// empty strings are treated as unset by the string helpers only
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, defaultDynamoTable, cfg.DynamoTable)
	assert.Equal(t, defaultS3Key, cfg.S3Key)
	assert.Equal(t, "", cfg.S3Bucket)
}

func TestGetCacheConfigFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *CacheConfig)
	}{
		{
			name: "custom values",
			envVars: map[string]string{
				"CACHE_BACKEND":           "dynamo",
				"CACHE_LRU_ENABLED":       "false",
				"CACHE_LRU_SIZE":          "64",
				"CACHE_LRU_TTL_MINUTES":   "30",
				"CACHE_DYNAMO_TABLE":      "stations-test",
				"CACHE_BATCH_SIZE":        "10",
				"CACHE_MAX_BATCH_RETRIES": "5",
			},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, BackendDynamo, cfg.Backend)
				assert.False(t, cfg.EnableLRUCache)
				assert.Equal(t, 64, cfg.LRUSize)
				assert.Equal(t, 30*time.Minute, cfg.GetLRUTTL())
				assert.Equal(t, "stations-test", cfg.DynamoTable)
				assert.Equal(t, 10, cfg.BatchSize)
				assert.Equal(t, 5, cfg.MaxBatchRetries)
			},
		},
		{
			name: "invalid integers fall back to defaults",
			envVars: map[string]string{
				"CACHE_LRU_SIZE":   "many",
				"CACHE_BATCH_SIZE": "",
			},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, defaultLRUSize, cfg.LRUSize)
				assert.Equal(t, defaultBatchSize, cfg.BatchSize)
			},
		},
		{
			name: "s3 bucket",
			envVars: map[string]string{
				"CACHE_BACKEND":   "s3",
				"CACHE_S3_BUCKET": "stations-bucket",
				"CACHE_S3_KEY":    "cache/stations.json",
			},
			validate: func(t *testing.T, cfg *CacheConfig) {
				assert.Equal(t, BackendS3, cfg.Backend)
				assert.Equal(t, "stations-bucket", cfg.S3Bucket)
				assert.Equal(t, "cache/stations.json", cfg.S3Key)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.validate(t, GetCacheConfig())
		})
	}
}

func TestCacheConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*CacheConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*CacheConfig) {}},
		{name: "postgres", mutate: func(c *CacheConfig) { c.Backend = BackendPostgres }},
		{name: "unknown backend", mutate: func(c *CacheConfig) { c.Backend = "redis" }, wantErr: true},
		{name: "s3 without bucket", mutate: func(c *CacheConfig) { c.Backend = BackendS3 }, wantErr: true},
		{name: "s3 with bucket", mutate: func(c *CacheConfig) { c.Backend = BackendS3; c.S3Bucket = "b" }},
		{name: "dynamo batch too large", mutate: func(c *CacheConfig) { c.Backend = BackendDynamo; c.BatchSize = 26 }, wantErr: true},
		{name: "dynamo without table", mutate: func(c *CacheConfig) { c.Backend = BackendDynamo; c.DynamoTable = "" }, wantErr: true},
		{name: "zero lru size", mutate: func(c *CacheConfig) { c.LRUSize = 0 }, wantErr: true},
		{name: "zero lru size when disabled", mutate: func(c *CacheConfig) { c.LRUSize = 0; c.EnableLRUCache = false }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultCacheConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
