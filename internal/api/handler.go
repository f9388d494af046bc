package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// Query parameters accepted by ParseFilter.
const (
	ParamRadius           = "radius"
	ParamOpen24Hours      = "open24Hours"
	ParamConvenienceStore = "convenienceStore"
	ParamHotFood          = "hotFood"
	ParamBpFuelCards      = "bpFuelCards"
)

var filterParams = []string{
	ParamRadius,
	ParamOpen24Hours,
	ParamConvenienceStore,
	ParamHotFood,
	ParamBpFuelCards,
}

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	State    models.StateKind `json:"state"`
	Stations []models.Station `json:"stations"`
	Message  string           `json:"message,omitempty"`
	Filter   models.Filter    `json:"filter"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

// NewStationsResponse flattens a result state and the filter that produced
// it. Stations is always a list, empty unless the state is Success.
func NewStationsResponse(state models.ResultState, filter models.Filter) *StationsResponse {
	stations := state.Stations
	if stations == nil {
		stations = []models.Station{}
	}
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		State:       state.Kind,
		Stations:    stations,
		Message:     state.Message,
		Filter:      filter,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

var defaultHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

func headers() map[string]string {
	h := make(map[string]string, len(defaultHeaders))
	for k, v := range defaultHeaders {
		h[k] = v
	}
	return h
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers(),
		Body:       string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers(),
		Body:       string(body),
	}, nil
}

// WriteJSON is the net/http counterpart of Success.
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	for k, v := range defaultHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Error writing response body")
	}
}

// WriteError is the net/http counterpart of Error.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteJSON(w, statusCode, NewErrorResponse(message))
}

// HasFilterParams reports whether any filter parameter is present.
func HasFilterParams(params map[string]string) bool {
	for _, p := range filterParams {
		if _, ok := params[p]; ok {
			return true
		}
	}
	return false
}

// ParseFilter applies the filter parameters present in params on top of
// base. Missing parameters keep the base value.
func ParseFilter(params map[string]string, base models.Filter) (models.Filter, error) {
	f := base

	if raw, ok := params[ParamRadius]; ok {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil || radius < 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
			return base, InvalidFilterError{Param: ParamRadius, Value: raw}
		}
		f.Radius = radius
	}

	flags := []struct {
		param string
		set   func(bool)
	}{
		{ParamOpen24Hours, func(v bool) { f.IsOpen24Hours = v }},
		{ParamConvenienceStore, func(v bool) { f.HasConvenienceStore = v }},
		{ParamHotFood, func(v bool) { f.HasHotFood = v }},
		{ParamBpFuelCards, func(v bool) { f.AcceptsBpFuelCards = v }},
	}
	for _, flag := range flags {
		raw, ok := params[flag.param]
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return base, InvalidFilterError{Param: flag.param, Value: raw}
		}
		flag.set(v)
	}

	return f, nil
}

type InvalidFilterError struct {
	Param string
	Value string
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("Invalid value %q for %s", e.Value, e.Param)
}
