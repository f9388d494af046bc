package cache

import (
	"context"
	"sync"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
)

// MemoryStationStore keeps the station list in process memory.
type MemoryStationStore struct {
	stations []models.Station
	mu       sync.RWMutex
}

func NewMemoryStationStore() *MemoryStationStore {
	return &MemoryStationStore{
		stations: make([]models.Station, 0),
	}
}

func (c *MemoryStationStore) ReadAll(_ context.Context) ([]models.Station, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Station, len(c.stations))
	copy(out, c.stations)
	return out, nil
}

// ReplaceAll swaps the whole list under the write lock, so readers see either
// the old list or the new one.
func (c *MemoryStationStore) ReplaceAll(_ context.Context, stations []models.Station) error {
	next := models.DedupeByID(stations)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stations = next
	return nil
}

func (c *MemoryStationStore) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stations = make([]models.Station, 0)
	return nil
}
