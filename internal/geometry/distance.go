package geometry

import "github.com/golang/geo/s2"

// earthRadiusMeters matches the teacher's geo package constant (mean earth
// radius), kept as the single conversion factor so projection, arc length,
// and slicing all agree on the same metric per spec.
const earthRadiusMeters = 6371007.0

// DistanceMeters returns the great-circle distance between two coordinates
// using the haversine formula (s2's LatLng.Distance), the same metric
// used throughout projection, arc-length measurement, and slicing.
func DistanceMeters(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * earthRadiusMeters
}
