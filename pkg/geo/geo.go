package geo

import (
	"math"
)

// EarthRadiusMeters is the mean radius of the Earth. The Earth is not a
// perfect sphere, so distances computed against this radius are within
// roughly 0.3% of the true ellipsoidal distance.
const EarthRadiusMeters = 6371000.0

// Distance calculates the great-circle distance between two geographic
// points using the Haversine formula.
// Parameters: lat1, lon1, lat2, lon2 in decimal degrees (WGS84)
// Returns: distance in meters
//
// Inputs are not validated; callers are responsible for range checks.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degToRad(lat1)
	lon1Rad := degToRad(lon1)
	lat2Rad := degToRad(lat2)
	lon2Rad := degToRad(lon2)

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// InBoundingBox reports whether a point lies within the axis-aligned
// rectangle defined by its southwest and northeast corners. All four edges
// are inclusive.
//
// The test is a naive degree-space comparison: a box that straddles the
// antimeridian (swLon > neLon) is never satisfied. Callers must reject or
// split such boxes before calling.
func InBoundingBox(pointLat, pointLon, swLat, swLon, neLat, neLon float64) bool {
	return pointLat >= swLat && pointLat <= neLat &&
		pointLon >= swLon && pointLon <= neLon
}

// degToRad converts degrees to radians
func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
