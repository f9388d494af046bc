// Package controller owns the station filter and the visible result state.
// It loads stations cache-first, falls back to the remote feed when the
// cache is empty, and recomputes the visible list whenever the filter moves.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/cache"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/filter"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/observable"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/station"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned for operations submitted after Close.
var ErrClosed = errors.New("station controller closed")

const unknownErrorMessage = "Unknown error"

type task struct {
	run    func(ctx context.Context) error
	ctx    context.Context
	result chan error
}

// Controller serializes every operation on one worker goroutine, so the
// filter and state cells only ever have one writer.
type Controller struct {
	source station.Source
	store  cache.StationStore
	logger zerolog.Logger

	filter *observable.Value[models.Filter]
	state  *observable.Value[models.ResultState]

	tasks    chan task
	lifetime context.Context
	cancel   context.CancelFunc
	done     chan struct{}

	closeOnce sync.Once
}

type Option func(*Controller)

// WithFilter sets the filter the controller starts with.
func WithFilter(f models.Filter) Option {
	return func(c *Controller) {
		c.filter = observable.New("filter", f)
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New starts the worker. Callers must Close the controller when done.
func New(source station.Source, store cache.StationStore, opts ...Option) *Controller {
	lifetime, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:   source,
		store:    store,
		logger:   log.With().Str("component", "station_controller").Logger(),
		filter:   observable.New("filter", models.DefaultFilter()),
		state:    observable.New("state", models.Loading()),
		tasks:    make(chan task),
		lifetime: lifetime,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	go c.work()
	return c
}

// Filter is the read-only view of the current filter.
func (c *Controller) Filter() observable.Reader[models.Filter] {
	return c.filter
}

// State is the read-only view of the visible result.
func (c *Controller) State() observable.Reader[models.ResultState] {
	return c.state
}

// Load shows cached stations when there are any. Only an empty cache goes
// to the network; a populated cache is never refreshed here, even if stale.
//
// Fetch failures end up in the Error state rather than the returned error.
// Load returns an error only when the controller is closed or ctx ends.
func (c *Controller) Load(ctx context.Context) error {
	return c.submit(ctx, func(ctx context.Context) error {
		cached := c.readCache(ctx)
		if len(cached) > 0 {
			c.logger.Debug().Int("station_count", len(cached)).Msg("Serving stations from cache")
			c.publish(filter.Result(cached, c.filter.Get()))
			return nil
		}

		c.logger.Debug().Msg("Cache empty, fetching stations")
		return c.fetch(ctx, false)
	})
}

// Refresh always fetches. When the fetch fails and stations are already
// shown they stay shown; otherwise the state becomes Error.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.submit(ctx, func(ctx context.Context) error {
		return c.fetch(ctx, true)
	})
}

// UpdateFilter replaces the whole filter and recomputes against the cache.
func (c *Controller) UpdateFilter(ctx context.Context, f models.Filter) error {
	return c.changeFilter(ctx, func(models.Filter) models.Filter { return f })
}

func (c *Controller) SetRadius(ctx context.Context, radius float64) error {
	return c.changeFilter(ctx, func(f models.Filter) models.Filter { return f.WithRadius(radius) })
}

func (c *Controller) SetIsOpen24Hours(ctx context.Context, v bool) error {
	return c.changeFilter(ctx, func(f models.Filter) models.Filter { return f.WithOpen24Hours(v) })
}

func (c *Controller) SetHasConvenienceStore(ctx context.Context, v bool) error {
	return c.changeFilter(ctx, func(f models.Filter) models.Filter { return f.WithConvenienceStore(v) })
}

func (c *Controller) SetHasHotFood(ctx context.Context, v bool) error {
	return c.changeFilter(ctx, func(f models.Filter) models.Filter { return f.WithHotFood(v) })
}

func (c *Controller) SetAcceptsBpFuelCards(ctx context.Context, v bool) error {
	return c.changeFilter(ctx, func(f models.Filter) models.Filter { return f.WithBpFuelCards(v) })
}

// ClearCache empties the local cache. The visible state is left alone.
func (c *Controller) ClearCache(ctx context.Context) error {
	return c.submit(ctx, func(ctx context.Context) error {
		if err := c.store.Clear(ctx); err != nil {
			return fmt.Errorf("clearing station cache: %w", err)
		}
		c.logger.Info().Msg("Station cache cleared")
		return nil
	})
}

// Close stops the worker and closes both cells. It does not wait for an
// in-flight operation; whatever that operation would have published is
// dropped.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.filter.Close()
		c.state.Close()
		c.logger.Debug().Msg("Station controller closed")
	})
}

// Done is closed once the worker goroutine has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) work() {
	defer close(c.done)
	for {
		select {
		case <-c.lifetime.Done():
			return
		case t := <-c.tasks:
			t.result <- c.runTask(t)
		}
	}
}

func (c *Controller) runTask(t task) error {
	if c.lifetime.Err() != nil {
		return ErrClosed
	}
	if err := t.ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.lifetime)
	defer cancel()
	stop := context.AfterFunc(t.ctx, cancel)
	defer stop()

	err := t.run(ctx)
	if c.lifetime.Err() != nil {
		return ErrClosed
	}
	return err
}

func (c *Controller) submit(ctx context.Context, run func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := task{run: run, ctx: ctx, result: make(chan error, 1)}

	select {
	case <-c.lifetime.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case c.tasks <- t:
	}

	select {
	case err := <-t.result:
		return err
	case <-c.lifetime.Done():
		return ErrClosed
	}
}

func (c *Controller) changeFilter(ctx context.Context, change func(models.Filter) models.Filter) error {
	return c.submit(ctx, func(ctx context.Context) error {
		next := change(c.filter.Get())
		cached := c.readCache(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.guarded(func() bool { return c.filter.Set(next) }) {
			return nil
		}

		result := filter.Result(cached, next)
		c.logger.Debug().
			Float64("radius", next.Radius).
			Str("state", string(result.Kind)).
			Int("station_count", len(result.Stations)).
			Msg("Filter changed")
		c.publish(result)
		return nil
	})
}

// fetch pulls the full list from the remote feed, replaces the cache with it
// and publishes the filtered result. On failure the state becomes Error,
// unless keepShown is set and stations are already shown.
func (c *Controller) fetch(ctx context.Context, keepShown bool) error {
	if !c.state.Get().HasData() {
		c.publish(models.Loading())
	}

	stations, err := c.source.FetchAll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if keepShown && c.state.Get().HasData() {
			c.logger.Warn().Err(err).Msg("Station fetch failed, keeping shown stations")
			return nil
		}

		c.logger.Error().Err(err).Msg("Station fetch failed")
		c.publish(models.Failed(errorMessage(err)))
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := c.store.ReplaceAll(ctx, stations); err != nil {
		c.logger.Error().Err(err).Msg("Could not cache fetched stations")
	}

	c.publish(filter.Result(stations, c.filter.Get()))
	return nil
}

// readCache treats a failed read as an empty cache.
func (c *Controller) readCache(ctx context.Context) []models.Station {
	stations, err := c.store.ReadAll(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Could not read station cache")
		return nil
	}
	return stations
}

func (c *Controller) publish(state models.ResultState) {
	if c.guarded(func() bool { return c.state.Set(state) }) {
		c.logger.Debug().Str("state", string(state.Kind)).Int("station_count", len(state.Stations)).Msg("State published")
	}
}

// guarded runs set unless the controller has been torn down.
func (c *Controller) guarded(set func() bool) bool {
	if c.lifetime.Err() != nil {
		return false
	}
	return set()
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
