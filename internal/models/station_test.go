package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestStationsEnvelopeDecoding(t *testing.T) {
	t.Parallel()

	body := `{
		"service-station": [
			{
				"id": "1",
				"name": "BP Marylebone",
				"address": "1 Baker St",
				"latitude": 51.52,
				"longitude": -0.15,
				"distanceMiles": 1.2,
				"isOpen24Hours": true,
				"hasConvenienceStore": true,
				"hasHotFood": false,
				"acceptsBpFuelCards": true,
				"imageUrl": null
			},
			{
				"id": "2",
				"name": "BP Camden",
				"address": "2 High St",
				"latitude": 51.54,
				"longitude": -0.14,
				"distanceMiles": 6.4,
				"isOpen24Hours": false,
				"hasConvenienceStore": false,
				"hasHotFood": true,
				"acceptsBpFuelCards": false,
				"imageUrl": "https://example.com/camden.png"
			}
		]
	}`

	var env StationsEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.Len(t, env.Stations, 2)

	assert.Equal(t, "1", env.Stations[0].ID)
	assert.Nil(t, env.Stations[0].ImageURL)
	assert.True(t, env.Stations[0].AcceptsBpFuelCards)
	assert.InDelta(t, 6.4, env.Stations[1].DistanceMiles, 1e-9)
	require.NotNil(t, env.Stations[1].ImageURL)
	assert.Equal(t, "https://example.com/camden.png", *env.Stations[1].ImageURL)
}

func TestImageOrDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		image *string
		want  string
	}{
		{name: "missing image", image: nil, want: "placeholder.png"},
		{name: "empty image", image: stringPtr(""), want: "placeholder.png"},
		{name: "image present", image: stringPtr("https://example.com/a.png"), want: "https://example.com/a.png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := Station{ID: "1", ImageURL: tt.image}
			assert.Equal(t, tt.want, s.ImageOrDefault("placeholder.png"))
		})
	}
}

func TestDedupeByID(t *testing.T) {
	t.Parallel()

	in := []Station{
		{ID: "1", Name: "first"},
		{ID: "2", Name: "second"},
		{ID: "1", Name: "first updated"},
	}

	got := DedupeByID(in)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "first updated", got[0].Name)
	assert.Equal(t, "2", got[1].ID)
}

func TestDefaultFilter(t *testing.T) {
	t.Parallel()

	f := DefaultFilter()
	assert.Equal(t, 5.0, f.Radius)
	assert.False(t, f.IsOpen24Hours)
	assert.False(t, f.HasConvenienceStore)
	assert.False(t, f.HasHotFood)
	assert.False(t, f.AcceptsBpFuelCards)

	changed := f.WithRadius(10).WithHotFood(true)
	assert.Equal(t, 10.0, changed.Radius)
	assert.True(t, changed.HasHotFood)
	// value receiver, original untouched
	assert.Equal(t, 5.0, f.Radius)
	assert.False(t, f.HasHotFood)
}

func TestResultStateHasData(t *testing.T) {
	t.Parallel()

	assert.False(t, Loading().HasData())
	assert.False(t, Failed("boom").HasData())
	assert.True(t, Empty().HasData())
	assert.True(t, Success([]Station{{ID: "1"}}).HasData())
	assert.Equal(t, "boom", Failed("boom").Message)
}
