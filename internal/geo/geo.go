// Package geo holds the pure helpers behind the chapter discovery map.
package geo

import (
	"math"

	"github.com/ruta66/motoclub/internal/domain"
)

const earthRadiusKm = 6371

// DefaultRadiusKm is the nearby-chapter search radius.
const DefaultRadiusKm = 50

// ValidCoordinates reports whether a latitude/longitude pair can be placed on
// the map.
func ValidCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	if math.IsNaN(*lat) || math.IsNaN(*lon) {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}

// Distance returns the great-circle distance between two points in kilometers
// (Haversine formula).
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// NearbyChapters filters chapters to those within radiusKm of the given point.
// Chapters without valid coordinates never match.
func NearbyChapters(lat, lon float64, chapters []domain.Chapter, radiusKm float64) []domain.Chapter {
	var out []domain.Chapter
	for _, ch := range chapters {
		if !ValidCoordinates(ch.Latitude, ch.Longitude) {
			continue
		}
		if Distance(lat, lon, *ch.Latitude, *ch.Longitude) <= radiusKm {
			out = append(out, ch)
		}
	}
	return out
}

// Bounds is a map viewport: center point plus zoom level.
type Bounds struct {
	CenterLat float64 `json:"centerLat"`
	CenterLon float64 `json:"centerLon"`
	Zoom      int     `json:"zoom"`
}

// MapBounds computes the viewport that shows every chapter with valid
// coordinates. With no mappable chapters it falls back to a country-level view
// centered on Mexico.
func MapBounds(chapters []domain.Chapter) Bounds {
	var valid []domain.Chapter
	for _, ch := range chapters {
		if ValidCoordinates(ch.Latitude, ch.Longitude) {
			valid = append(valid, ch)
		}
	}

	if len(valid) == 0 {
		return Bounds{CenterLat: 23.6345, CenterLon: -102.5528, Zoom: 6}
	}
	if len(valid) == 1 {
		return Bounds{CenterLat: *valid[0].Latitude, CenterLon: *valid[0].Longitude, Zoom: 10}
	}

	minLat, maxLat := *valid[0].Latitude, *valid[0].Latitude
	minLon, maxLon := *valid[0].Longitude, *valid[0].Longitude
	for _, ch := range valid[1:] {
		minLat = math.Min(minLat, *ch.Latitude)
		maxLat = math.Max(maxLat, *ch.Latitude)
		minLon = math.Min(minLon, *ch.Longitude)
		maxLon = math.Max(maxLon, *ch.Longitude)
	}

	maxDiff := math.Max(maxLat-minLat, maxLon-minLon)

	zoom := 10
	switch {
	case maxDiff > 10:
		zoom = 5
	case maxDiff > 5:
		zoom = 6
	case maxDiff > 2:
		zoom = 7
	case maxDiff > 1:
		zoom = 8
	case maxDiff > 0.5:
		zoom = 9
	}

	return Bounds{
		CenterLat: (minLat + maxLat) / 2,
		CenterLon: (minLon + maxLon) / 2,
		Zoom:      zoom,
	}
}
