package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name     string
		response interface{}
		wantType string
	}{
		{
			name:     "stations response",
			response: NewStationsResponse(models.Success([]models.Station{{ID: "1"}}), models.DefaultFilter()),
			wantType: "stations",
		},
		{
			name:     "error response",
			response: NewErrorResponse("test error"),
			wantType: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success(tt.response)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, got.StatusCode)

			var resp APIResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, tt.wantType, resp.ResponseType)

			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestSuccessUnencodableBody(t *testing.T) {
	got, err := Success(map[string]interface{}{"bad": make(chan int)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
}

func TestError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
	}{
		{name: "basic error", message: "test error", statusCode: http.StatusBadRequest},
		{name: "server error", message: "internal server error", statusCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Error(tt.message, tt.statusCode)
			require.NoError(t, err)
			assert.Equal(t, tt.statusCode, got.StatusCode)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, "error", resp.ResponseType)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestNewStationsResponse(t *testing.T) {
	filter := models.DefaultFilter().WithHotFood(true)

	tests := []struct {
		name      string
		state     models.ResultState
		wantState string
		wantCount int
		wantMsg   string
	}{
		{name: "success", state: models.Success([]models.Station{{ID: "1"}, {ID: "2"}}), wantState: "SUCCESS", wantCount: 2},
		{name: "empty", state: models.Empty(), wantState: "EMPTY"},
		{name: "loading", state: models.Loading(), wantState: "LOADING"},
		{name: "error", state: models.Failed("Network error"), wantState: "ERROR", wantMsg: "Network error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(NewStationsResponse(tt.state, filter))
			require.NoError(t, err)

			var decoded struct {
				ResponseType string            `json:"responseType"`
				State        string            `json:"state"`
				Stations     []json.RawMessage `json:"stations"`
				Message      string            `json:"message"`
				Filter       models.Filter     `json:"filter"`
			}
			require.NoError(t, json.Unmarshal(body, &decoded))

			assert.Equal(t, "stations", decoded.ResponseType)
			assert.Equal(t, tt.wantState, decoded.State)
			assert.NotNil(t, decoded.Stations, "stations is always a list")
			assert.Len(t, decoded.Stations, tt.wantCount)
			assert.Equal(t, tt.wantMsg, decoded.Message)
			assert.Equal(t, filter, decoded.Filter)
		})
	}
}

func TestParseFilter(t *testing.T) {
	base := models.DefaultFilter()

	tests := []struct {
		name      string
		params    map[string]string
		want      models.Filter
		wantParam string
	}{
		{name: "no params keeps base", params: map[string]string{}, want: base},
		{
			name:   "radius only",
			params: map[string]string{"radius": "10"},
			want:   base.WithRadius(10),
		},
		{
			name: "all flags",
			params: map[string]string{
				"radius":           "2.5",
				"open24Hours":      "true",
				"convenienceStore": "1",
				"hotFood":          "false",
				"bpFuelCards":      "TRUE",
			},
			want: models.Filter{
				Radius:              2.5,
				IsOpen24Hours:       true,
				HasConvenienceStore: true,
				AcceptsBpFuelCards:  true,
			},
		},
		{name: "zero radius is allowed", params: map[string]string{"radius": "0"}, want: base.WithRadius(0)},
		{name: "negative radius", params: map[string]string{"radius": "-1"}, wantParam: "radius"},
		{name: "non numeric radius", params: map[string]string{"radius": "far"}, wantParam: "radius"},
		{name: "NaN radius", params: map[string]string{"radius": "NaN"}, wantParam: "radius"},
		{name: "infinite radius", params: map[string]string{"radius": "+Inf"}, wantParam: "radius"},
		{name: "bad flag", params: map[string]string{"hotFood": "yes please"}, wantParam: "hotFood"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.params, base)
			if tt.wantParam != "" {
				var invalid InvalidFilterError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, tt.wantParam, invalid.Param)
				assert.Equal(t, base, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilterKeepsUnsetFields(t *testing.T) {
	base := models.DefaultFilter().WithHotFood(true).WithRadius(20)

	got, err := ParseFilter(map[string]string{"open24Hours": "true"}, base)
	require.NoError(t, err)
	assert.True(t, got.HasHotFood)
	assert.True(t, got.IsOpen24Hours)
	assert.Equal(t, 20.0, got.Radius)
}

func TestHasFilterParams(t *testing.T) {
	assert.False(t, HasFilterParams(nil))
	assert.False(t, HasFilterParams(map[string]string{"other": "1"}))
	assert.True(t, HasFilterParams(map[string]string{"hotFood": "true"}))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, "Station controller unavailable", http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Station controller unavailable", resp.Error)
}
