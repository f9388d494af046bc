package station

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoStations = `{
	"service-station": [
		{"id": "1", "name": "Station 1", "address": "Addr 1", "latitude": 0, "longitude": 0,
		 "distanceMiles": 1.0, "isOpen24Hours": true, "hasConvenienceStore": true,
		 "hasHotFood": false, "acceptsBpFuelCards": true, "imageUrl": null},
		{"id": "2", "name": "Station 2", "address": "Addr 2", "latitude": 0, "longitude": 0,
		 "distanceMiles": 6.0, "isOpen24Hours": false, "hasConvenienceStore": false,
		 "hasHotFood": true, "acceptsBpFuelCards": false, "imageUrl": "https://example.com/2.png"}
	]
}`

// stubClient answers every Get with a canned response.
type stubClient struct {
	resp  *client.Response
	err   error
	paths []string
}

func (s *stubClient) Get(_ context.Context, path string) (*client.Response, error) {
	s.paths = append(s.paths, path)
	return s.resp, s.err
}

func TestJSONSourceFetchAll(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/b/6873fd525fdad557dbe11283", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("meta"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoStations))
	}))
	defer srv.Close()

	source := NewJSONSource(client.New(client.Options{
		BaseURL: srv.URL,
		Timeout: 5 * time.Second,
	}), "")

	got, err := source.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "1", got[0].ID)
	assert.True(t, got[0].IsOpen24Hours)
	assert.Nil(t, got[0].ImageURL)
	assert.Equal(t, "2", got[1].ID)
	assert.True(t, got[1].HasHotFood)
	require.NotNil(t, got[1].ImageURL)
}

func TestJSONSourceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		resp        *client.Response
		err         error
		wantNetwork bool
		wantParse   bool
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "transport failure",
			err:         errors.New("Network error"),
			wantNetwork: true,
			wantMessage: "Network error",
		},
		{
			name:        "server error",
			resp:        &client.Response{StatusCode: http.StatusInternalServerError},
			wantNetwork: true,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "unexpected status 500 from stations endpoint",
		},
		{
			name:      "malformed body",
			resp:      &client.Response{StatusCode: http.StatusOK, Body: []byte(`{not json`)},
			wantParse: true,
		},
		{
			name:      "missing list",
			resp:      &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"stations": []}`)},
			wantParse: true,
		},
		{
			name:      "wrong list type",
			resp:      &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"service-station": {"id": "1"}}`)},
			wantParse: true,
		},
		{
			name:      "station without id",
			resp:      &client.Response{StatusCode: http.StatusOK, Body: []byte(`{"service-station": [{"name": "x"}]}`)},
			wantParse: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := NewJSONSource(&stubClient{resp: tt.resp, err: tt.err}, "/stations")
			got, err := source.FetchAll(context.Background())
			require.Error(t, err)
			assert.Nil(t, got)

			var netErr *NetworkError
			var parseErr *ParseError
			assert.Equal(t, tt.wantNetwork, errors.As(err, &netErr))
			assert.Equal(t, tt.wantParse, errors.As(err, &parseErr))
			if tt.wantNetwork {
				assert.Equal(t, tt.wantStatus, netErr.StatusCode)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, err.Error())
			}
		})
	}
}

func TestJSONSourceEmptyAndDuplicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantIDs []string
	}{
		{
			name:    "empty list",
			body:    `{"service-station": []}`,
			wantIDs: []string{},
		},
		{
			name:    "null list",
			body:    `{"service-station": null}`,
			wantIDs: []string{},
		},
		{
			name:    "duplicate ids keep the last record",
			body:    `{"service-station": [{"id": "a", "name": "old"}, {"id": "b"}, {"id": "a", "name": "new"}]}`,
			wantIDs: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stub := &stubClient{resp: &client.Response{StatusCode: http.StatusOK, Body: []byte(tt.body)}}
			got, err := NewJSONSource(stub, "/custom").FetchAll(context.Background())
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, []string{"/custom"}, stub.paths)

			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			if len(got) > 0 && got[0].ID == "a" && got[0].Name != "" {
				assert.Equal(t, "new", got[0].Name)
			}
		})
	}
}

var _ Source = (*JSONSource)(nil)
