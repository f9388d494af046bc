package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/api"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/cache"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/controller"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/observable"
	"github.com/rs/zerolog/log"
)

// StationController is the part of controller.Controller the handlers drive.
type StationController interface {
	Filter() observable.Reader[models.Filter]
	State() observable.Reader[models.ResultState]
	Load(ctx context.Context) error
	Refresh(ctx context.Context) error
	UpdateFilter(ctx context.Context, f models.Filter) error
	ClearCache(ctx context.Context) error
}

// cacheStatser is implemented by stores that count cache hits.
type cacheStatser interface {
	GetCacheStats() map[string]uint64
}

type StationsHandler struct {
	controller StationController
	stats      cacheStatser
}

// NewStationsHandler serves the controller's state. store is only used for
// health reporting and may be nil.
func NewStationsHandler(ctrl StationController, store cache.StationStore) *StationsHandler {
	h := &StationsHandler{controller: ctrl}
	if s, ok := store.(cacheStatser); ok {
		h.stats = s
	}
	return h
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var err error
	switch {
	case request.HTTPMethod == http.MethodPost && strings.HasSuffix(request.Path, "/refresh"):
		err = h.controller.Refresh(ctx)
	case request.HTTPMethod == http.MethodDelete && strings.HasSuffix(request.Path, "/cache"):
		err = h.controller.ClearCache(ctx)
	case request.HTTPMethod == http.MethodGet || request.HTTPMethod == "":
		err = h.query(ctx, request.QueryStringParameters)
	default:
		return api.Error("Method not allowed", http.StatusMethodNotAllowed)
	}

	if err != nil {
		message, status := errorStatus(err)
		return api.Error(message, status)
	}
	return api.Success(h.response())
}

// NewRouter exposes the handler over plain HTTP.
func NewRouter(h *StationsHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/stations", h.getStations).Methods(http.MethodGet)
	router.HandleFunc("/stations/refresh", h.refresh).Methods(http.MethodPost)
	router.HandleFunc("/stations/cache", h.clearCache).Methods(http.MethodDelete)
	router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	return router
}

func (h *StationsHandler) getStations(w http.ResponseWriter, r *http.Request) {
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	h.respond(w, h.query(r.Context(), params))
}

func (h *StationsHandler) refresh(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.controller.Refresh(r.Context()))
}

func (h *StationsHandler) clearCache(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.controller.ClearCache(r.Context()))
}

func (h *StationsHandler) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]interface{}{
		"status": "ok",
		"state":  h.controller.State().Get().Kind,
	}
	if h.stats != nil {
		body["cache"] = h.stats.GetCacheStats()
	}
	api.WriteJSON(w, http.StatusOK, body)
}

func (h *StationsHandler) respond(w http.ResponseWriter, err error) {
	if err != nil {
		message, status := errorStatus(err)
		api.WriteError(w, message, status)
		return
	}
	api.WriteJSON(w, http.StatusOK, h.response())
}

// query applies any filter parameters, then loads stations while nothing has
// been shown yet.
func (h *StationsHandler) query(ctx context.Context, params map[string]string) error {
	hasFilter := api.HasFilterParams(params)
	var f models.Filter
	if hasFilter {
		var err error
		if f, err = api.ParseFilter(params, h.controller.Filter().Get()); err != nil {
			return err
		}
	}

	shown := h.controller.State().Get().HasData()
	if hasFilter {
		if err := h.controller.UpdateFilter(ctx, f); err != nil {
			return err
		}
	}

	// Load runs last so a fetch error is not replaced by the filter's result.
	if !shown {
		return h.controller.Load(ctx)
	}
	return nil
}

func (h *StationsHandler) response() *api.StationsResponse {
	return api.NewStationsResponse(h.controller.State().Get(), h.controller.Filter().Get())
}

func errorStatus(err error) (string, int) {
	var invalid api.InvalidFilterError
	switch {
	case errors.As(err, &invalid):
		return invalid.Error(), http.StatusBadRequest
	case errors.Is(err, controller.ErrClosed):
		return "Service is shutting down", http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Request cancelled", http.StatusServiceUnavailable
	default:
		log.Error().Err(err).Msg("Station request failed")
		return "Internal Server Error", http.StatusInternalServerError
	}
}
