// Package app wires configuration, the station store, the remote source and
// the controller into a ready handler. Both entry points share it.
package app

import (
	"context"
	"fmt"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/cache"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/controller"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/handler"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/station"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

type App struct {
	Config     *config.Config
	Store      cache.StationStore
	Controller *controller.Controller
	Handler    *handler.StationsHandler
}

// New builds the application and runs the initial load. A failed fetch is
// not an error here; it shows up as the controller's Error state.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := cache.NewStationStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating station store: %w", err)
	}

	httpClient := client.New(client.Options{
		Timeout: cfg.HTTPTimeout,
		BaseURL: cfg.StationsBaseURL,
	})
	source := station.NewJSONSource(httpClient, cfg.StationsPath)

	ctrl := controller.New(source, store)
	if err := ctrl.Load(ctx); err != nil {
		ctrl.Close()
		return nil, fmt.Errorf("initial station load: %w", err)
	}

	state := ctrl.State().Get()
	log.Info().
		Str("state", string(state.Kind)).
		Int("station_count", len(state.Stations)).
		Msg("Initial station load finished")

	return &App{
		Config:     cfg,
		Store:      store,
		Controller: ctrl,
		Handler:    handler.NewStationsHandler(ctrl, store),
	}, nil
}

func (a *App) Close() {
	a.Controller.Close()
}
