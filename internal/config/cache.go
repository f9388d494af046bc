package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Backend selects where the station list is persisted.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendDynamo   Backend = "dynamo"
	BackendS3       Backend = "s3"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	Backend Backend

	// LRU read-through layer
	EnableLRUCache bool
	LRUSize        int
	LRUTTLMinutes  int

	// DynamoDB settings
	DynamoTable     string
	BatchSize       int
	MaxBatchRetries int

	// S3 settings
	S3Bucket string
	S3Key    string
}

const (
	defaultLRUSize         = 16
	defaultLRUTTLMinutes   = 15
	defaultDynamoTable     = "service-stations"
	defaultBatchSize       = 25
	defaultMaxBatchRetries = 3
	defaultS3Key           = "stations.json"
)

func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Backend:         BackendMemory,
		EnableLRUCache:  true,
		LRUSize:         defaultLRUSize,
		LRUTTLMinutes:   defaultLRUTTLMinutes,
		DynamoTable:     defaultDynamoTable,
		BatchSize:       defaultBatchSize,
		MaxBatchRetries: defaultMaxBatchRetries,
		S3Key:           defaultS3Key,
	}
}

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		Backend:         Backend(getEnvOrDefault("CACHE_BACKEND", string(BackendMemory))),
		EnableLRUCache:  getEnvBool("CACHE_LRU_ENABLED", true),
		LRUSize:         getEnvInt("CACHE_LRU_SIZE", defaultLRUSize),
		LRUTTLMinutes:   getEnvInt("CACHE_LRU_TTL_MINUTES", defaultLRUTTLMinutes),
		DynamoTable:     getEnvOrDefault("CACHE_DYNAMO_TABLE", defaultDynamoTable),
		BatchSize:       getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries: getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		S3Bucket:        os.Getenv("CACHE_S3_BUCKET"),
		S3Key:           getEnvOrDefault("CACHE_S3_KEY", defaultS3Key),
	}

	log.Debug().
		Str("Backend", string(config.Backend)).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Int("LRUSize", config.LRUSize).
		Int("LRUTTLMinutes", config.LRUTTLMinutes).
		Str("DynamoTable", config.DynamoTable).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Str("S3Bucket", config.S3Bucket).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetLRUTTL() time.Duration {
	return time.Duration(c.LRUTTLMinutes) * time.Minute
}

// Validate checks that the selected backend has what it needs.
func (c *CacheConfig) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendPostgres:
	case BackendDynamo:
		if c.DynamoTable == "" {
			return fmt.Errorf("dynamo backend requires CACHE_DYNAMO_TABLE")
		}
		if c.BatchSize < 1 || c.BatchSize > 25 {
			return fmt.Errorf("CACHE_BATCH_SIZE must be between 1 and 25, got %d", c.BatchSize)
		}
	case BackendS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("s3 backend requires CACHE_S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Backend)
	}
	if c.EnableLRUCache && c.LRUSize <= 0 {
		return fmt.Errorf("CACHE_LRU_SIZE must be positive, got %d", c.LRUSize)
	}
	return nil
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, exists := os.LookupEnv(key); exists {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
