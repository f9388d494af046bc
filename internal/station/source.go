package station

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/pkg/http/client"
	"github.com/rs/zerolog/log"
)

// DefaultPath is the published bin holding the station list.
const DefaultPath = "/v3/b/6873fd525fdad557dbe11283?meta=false"

// Source fetches the full station list from the remote feed.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Station, error)
}

// JSONSource reads the station list from a JSON endpoint. It never retries.
type JSONSource struct {
	httpClient client.Interface
	path       string
}

func NewJSONSource(httpClient client.Interface, path string) *JSONSource {
	if path == "" {
		path = DefaultPath
	}
	return &JSONSource{
		httpClient: httpClient,
		path:       path,
	}
}

func (s *JSONSource) FetchAll(ctx context.Context) ([]models.Station, error) {
	resp, err := s.httpClient.Get(ctx, s.path)
	if err != nil {
		return nil, NewNetworkError(0, err)
	}
	if !resp.OK() {
		log.Warn().Int("status", resp.StatusCode).Str("path", s.path).Msg("Stations endpoint returned non-success status")
		return nil, NewNetworkError(resp.StatusCode, nil)
	}

	stations, err := decodeStations(resp.Body)
	if err != nil {
		return nil, err
	}

	deduped := models.DedupeByID(stations)
	if dropped := len(stations) - len(deduped); dropped > 0 {
		log.Warn().Int("duplicates", dropped).Msg("Stations feed contained duplicate IDs")
	}

	log.Debug().Int("station_count", len(deduped)).Msg("Fetched stations from remote feed")
	return deduped, nil
}

func decodeStations(body []byte) ([]models.Station, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewParseError("decoding stations response", err)
	}
	list, ok := raw["service-station"]
	if !ok {
		return nil, NewParseError("stations response has no service-station list", nil)
	}

	var stations []models.Station
	dec := json.NewDecoder(bytes.NewReader(list))
	if err := dec.Decode(&stations); err != nil {
		return nil, NewParseError("decoding service-station list", err)
	}
	for i, st := range stations {
		if st.ID == "" {
			return nil, NewParseError(fmt.Sprintf("station without id at index %d", i), nil)
		}
	}
	if stations == nil {
		stations = []models.Station{}
	}
	return stations, nil
}
