// Package assignment tags points with the configured area they fall into.
package assignment

import (
	"location-visits/internal/domain"
	"location-visits/internal/geo"
)

// AssignAreas matches each point against the configured areas using
// first-match semantics: areas are tested in configuration order, and a
// point inside an earlier area's radius is never reconsidered for a later
// one, even when the later center is closer. Later area passes must
// observe the assignments left by earlier ones, so the outer loop stays
// sequential.
//
// A point matches an area when its distance to the center is strictly
// less than the radius. Points matching no area end with InArea=false,
// which is not an error.
func AssignAreas(points []*domain.Point, areas []domain.Area) {
	for _, area := range areas {
		for _, p := range points {
			if p.InArea {
				continue
			}
			dist := geo.Haversine(p.Lat, p.Lng, area.Lat, area.Lng)
			if dist < area.RadiusM {
				p.Area = area.Tag
				p.DistanceM = dist
				p.InArea = true
			}
		}
	}
}

// InArea returns the subsequence of points that matched an area,
// preserving input order.
func InArea(points []*domain.Point) []*domain.Point {
	var in []*domain.Point
	for _, p := range points {
		if p.InArea {
			in = append(in, p)
		}
	}
	return in
}
