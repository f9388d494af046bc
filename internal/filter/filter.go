// Package filter narrows a station list down to what a Filter allows.
package filter

import "github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"

// Matches reports whether s is within the radius and offers every amenity f requires.
func Matches(s models.Station, f models.Filter) bool {
	return s.DistanceMiles <= f.Radius &&
		(!f.IsOpen24Hours || s.IsOpen24Hours) &&
		(!f.HasConvenienceStore || s.HasConvenienceStore) &&
		(!f.HasHotFood || s.HasHotFood) &&
		(!f.AcceptsBpFuelCards || s.AcceptsBpFuelCards)
}

// Apply returns the matching stations in their original order.
func Apply(stations []models.Station, f models.Filter) []models.Station {
	out := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		if Matches(s, f) {
			out = append(out, s)
		}
	}
	return out
}

// Result filters stations and wraps the outcome as Success or Empty.
func Result(stations []models.Station, f models.Filter) models.ResultState {
	matched := Apply(stations, f)
	if len(matched) == 0 {
		return models.Empty()
	}
	return models.Success(matched)
}
