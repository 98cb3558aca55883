package geo_test

import (
	"math"
	"testing"

	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/geo"
	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func chapterAt(id int64, lat, lon float64) domain.Chapter {
	return domain.Chapter{ID: id, Latitude: ptr(lat), Longitude: ptr(lon)}
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon *float64
		want     bool
	}{
		{"mexico city", ptr(19.4326), ptr(-99.1332), true},
		{"equator and meridian", ptr(0), ptr(0), true},
		{"poles", ptr(90), ptr(-180), true},
		{"nil latitude", nil, ptr(-99.1), false},
		{"nil longitude", ptr(19.4), nil, false},
		{"latitude out of range", ptr(91), ptr(0), false},
		{"longitude out of range", ptr(0), ptr(181), false},
		{"NaN latitude", ptr(math.NaN()), ptr(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, geo.ValidCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Zero(t, geo.Distance(19.4326, -99.1332, 19.4326, -99.1332))
	})

	t.Run("mexico city to guadalajara", func(t *testing.T) {
		// Roughly 460 km as the crow flies.
		d := geo.Distance(19.4326, -99.1332, 20.6597, -103.3496)
		assert.InDelta(t, 460, d, 10)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := geo.Distance(19.4326, -99.1332, 25.6866, -100.3161)
		b := geo.Distance(25.6866, -100.3161, 19.4326, -99.1332)
		assert.InDelta(t, a, b, 1e-9)
	})
}

func TestNearbyChapters(t *testing.T) {
	chapters := []domain.Chapter{
		chapterAt(1, 19.4326, -99.1332),  // Mexico City
		chapterAt(2, 19.50, -99.20),      // a few km away
		chapterAt(3, 20.6597, -103.3496), // Guadalajara, far
		{ID: 4},                          // no coordinates
	}

	nearby := geo.NearbyChapters(19.4326, -99.1332, chapters, geo.DefaultRadiusKm)

	ids := make([]int64, 0, len(nearby))
	for _, ch := range nearby {
		ids = append(ids, ch.ID)
	}
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestMapBounds(t *testing.T) {
	t.Run("no chapters falls back to country view", func(t *testing.T) {
		b := geo.MapBounds(nil)
		assert.InDelta(t, 23.6345, b.CenterLat, 1e-9)
		assert.InDelta(t, -102.5528, b.CenterLon, 1e-9)
		assert.Equal(t, 6, b.Zoom)
	})

	t.Run("chapters without coordinates fall back too", func(t *testing.T) {
		b := geo.MapBounds([]domain.Chapter{{ID: 1}, {ID: 2}})
		assert.Equal(t, 6, b.Zoom)
	})

	t.Run("single chapter centers on it", func(t *testing.T) {
		b := geo.MapBounds([]domain.Chapter{chapterAt(1, 19.4326, -99.1332)})
		assert.InDelta(t, 19.4326, b.CenterLat, 1e-9)
		assert.InDelta(t, -99.1332, b.CenterLon, 1e-9)
		assert.Equal(t, 10, b.Zoom)
	})

	t.Run("zoom follows the spread", func(t *testing.T) {
		tests := []struct {
			name   string
			spread float64
			zoom   int
		}{
			{"country-wide", 12, 5},
			{"region", 6, 6},
			{"several states", 3, 7},
			{"state", 1.5, 8},
			{"metro area", 0.7, 9},
			{"city", 0.2, 10},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := geo.MapBounds([]domain.Chapter{
					chapterAt(1, 20, -100),
					chapterAt(2, 20+tt.spread, -100),
				})
				assert.Equal(t, tt.zoom, b.Zoom)
				assert.InDelta(t, 20+tt.spread/2, b.CenterLat, 1e-9)
			})
		}
	})
}
