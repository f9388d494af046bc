package models

// Station is a single fuel service station as served by the remote feed.
type Station struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	DistanceMiles       float64 `json:"distanceMiles"`
	IsOpen24Hours       bool    `json:"isOpen24Hours"`
	HasConvenienceStore bool    `json:"hasConvenienceStore"`
	HasHotFood          bool    `json:"hasHotFood"`
	AcceptsBpFuelCards  bool    `json:"acceptsBpFuelCards"`
	ImageURL            *string `json:"imageUrl"`
}

// ImageOrDefault returns the station image, or placeholder when the feed has none.
func (s Station) ImageOrDefault(placeholder string) string {
	if s.ImageURL == nil || *s.ImageURL == "" {
		return placeholder
	}
	return *s.ImageURL
}

// StationsEnvelope is the body returned by the stations endpoint.
type StationsEnvelope struct {
	Stations []Station `json:"service-station"`
}

// DedupeByID keeps one station per ID. A later record replaces an earlier
// one but keeps the earlier position.
func DedupeByID(stations []Station) []Station {
	index := make(map[string]int, len(stations))
	out := make([]Station, 0, len(stations))
	for _, s := range stations {
		if i, ok := index[s.ID]; ok {
			out[i] = s
			continue
		}
		index[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}
