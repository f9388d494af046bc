package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const snapshotKey = "stations"

// LRUCacheEntry wraps the cached data with metadata
type LRUCacheEntry struct {
	Data      []models.Station
	ExpiresAt time.Time
}

// LayeredStore keeps recently read station lists in an LRU in front of a
// slower backing store. Writes go to the backing store first.
type LayeredStore struct {
	lru     *lru.Cache[string, *LRUCacheEntry]
	backing StationStore
	ttl     time.Duration
	clock   clock

	mu           sync.Mutex
	hits         uint64
	misses       uint64
	backingReads uint64

	// generation moves on every write. A read only fills the LRU if no
	// ReplaceAll or Clear happened while it was at the backing store.
	generation uint64
}

func NewLayeredStore(backing StationStore, cfg *config.CacheConfig) (*LayeredStore, error) {
	lruCache, err := lru.New[string, *LRUCacheEntry](cfg.LRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &LayeredStore{
		lru:     lruCache,
		backing: backing,
		ttl:     cfg.GetLRUTTL(),
		clock:   systemClock{},
	}, nil
}

func (c *LayeredStore) ReadAll(ctx context.Context) ([]models.Station, error) {
	if entry, ok := c.lru.Get(snapshotKey); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.count(&c.hits)
			return cloneStations(entry.Data), nil
		}
		c.lru.Remove(snapshotKey)
	}
	c.mu.Lock()
	c.misses++
	generation := c.generation
	c.mu.Unlock()

	log.Debug().Msg("LRU MISS for station list, reading backing store")
	stations, err := c.backing.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading backing store: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.backingReads++
	if c.generation != generation {
		log.Debug().Msg("Station list replaced during read, not caching")
		return stations, nil
	}
	c.lru.Add(snapshotKey, &LRUCacheEntry{
		Data:      cloneStations(stations),
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
	return stations, nil
}

func (c *LayeredStore) ReplaceAll(ctx context.Context, stations []models.Station) error {
	err := c.backing.ReplaceAll(ctx, stations)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	if err != nil {
		// the backing store may be in either state now
		c.lru.Purge()
		return fmt.Errorf("replacing stations in backing store: %w", err)
	}

	c.lru.Add(snapshotKey, &LRUCacheEntry{
		Data:      models.DedupeByID(stations),
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
	return nil
}

func (c *LayeredStore) Clear(ctx context.Context) error {
	c.invalidate()
	err := c.backing.Clear(ctx)
	c.invalidate()
	if err != nil {
		return fmt.Errorf("clearing backing store: %w", err)
	}
	return nil
}

func (c *LayeredStore) invalidate() {
	c.mu.Lock()
	c.generation++
	c.lru.Purge()
	c.mu.Unlock()
}

// GetCacheStats returns statistics about cache hits and misses
func (c *LayeredStore) GetCacheStats() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return map[string]uint64{
		"lru_hits":      c.hits,
		"lru_misses":    c.misses,
		"backing_reads": c.backingReads,
	}
}

func (c *LayeredStore) count(counter *uint64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}

func cloneStations(stations []models.Station) []models.Station {
	out := make([]models.Station, len(stations))
	copy(out, stations)
	return out
}
