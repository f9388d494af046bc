package cache

import (
	"context"
	"time"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
)

// StationStore persists the last successfully fetched station list.
//
// ReadAll returns an empty list, not an error, when nothing has been stored.
// ReplaceAll drops every stored station and stores the given list; station ID
// is the conflict key, so a repeated ID keeps the later record.
type StationStore interface {
	ReadAll(ctx context.Context) ([]models.Station, error)
	ReplaceAll(ctx context.Context, stations []models.Station) error
	Clear(ctx context.Context) error
}

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
