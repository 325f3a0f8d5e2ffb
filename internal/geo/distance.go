// Package geo provides great-circle distance math for area matching.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in meters between two
// coordinates given in decimal degrees.
//
// a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
// d = 2R ⋅ asin(√a)
//
// NaN inputs propagate as NaN; the function itself has no failure modes.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := radians(lat1)
	lon1r := radians(lon1)
	lat2r := radians(lat2)
	lon2r := radians(lon2)

	sinLat := math.Sin((lat2r - lat1r) / 2)
	sinLon := math.Sin((lon2r - lon1r) / 2)

	a := sinLat*sinLat + math.Cos(lat1r)*math.Cos(lat2r)*sinLon*sinLon

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a)) * 1000
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
