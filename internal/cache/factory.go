package cache

import (
	"context"
	"fmt"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/rs/zerolog/log"
)

// NewStationStore builds the configured backend, wrapped in the LRU layer
// when it is enabled. The memory backend is never wrapped.
func NewStationStore(ctx context.Context, cfg *config.Config) (StationStore, error) {
	cacheCfg := cfg.Cache
	if err := cacheCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache configuration: %w", err)
	}

	var store StationStore
	switch cacheCfg.Backend {
	case config.BackendMemory:
		log.Info().Msg("Using in-memory station store")
		return NewMemoryStationStore(), nil
	case config.BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres backend requires DATABASE_URL")
		}
		db, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store = NewPostgresStationStore(db)
	case config.BackendDynamo:
		client, err := NewDynamoClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating DynamoDB client: %w", err)
		}
		store = NewDynamoStationStore(client, cacheCfg)
	case config.BackendS3:
		client, err := NewS3Client(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating S3 client: %w", err)
		}
		store = NewS3StationStore(client, cacheCfg.S3Bucket, cacheCfg.S3Key)
	}

	log.Info().
		Str("backend", string(cacheCfg.Backend)).
		Bool("lru", cacheCfg.EnableLRUCache).
		Msg("Using persistent station store")

	if !cacheCfg.EnableLRUCache {
		return store, nil
	}
	layered, err := NewLayeredStore(store, cacheCfg)
	if err != nil {
		return nil, err
	}
	return layered, nil
}
