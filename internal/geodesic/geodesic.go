// package geodesic is for distances between points on the Earth.
package geodesic

import (
	"math"

	"github.com/GeoNet/kit/wgs84"
)

// Point is a location.  Latitude and Longitude are in degrees, Elevation is in km.
type Point struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

/*
DegreesDistance returns the great-circle angular distance in degrees between
lat1 lon1 and lat2 lon2 (all in degrees).

Uses the atan2 form of the spherical distance which stays accurate for
coincident and antipodal points.
*/
func DegreesDistance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1 = deg2rad(lat1)
	lat2 = deg2rad(lat2)
	lon1 = deg2rad(lon1)
	lon2 = deg2rad(lon2)

	dLon := math.Abs(lon2 - lon1)

	a := math.Cos(lat2) * math.Sin(dLon)
	b := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	c := math.Sin(lat1)*math.Sin(lat2) + math.Cos(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return rad2deg(math.Atan2(math.Sqrt(a*a+b*b), c))
}

// Degrees returns the angular distance between a and b.  Elevation is ignored.
func Degrees(a, b Point) float64 {
	return DegreesDistance(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Kilometres returns the distance in km between a and b on the WGS84 ellipsoid.
// Elevation is ignored.
func Kilometres(a, b Point) (float64, error) {
	d, _, err := wgs84.DistanceBearing(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return d, err
}

func deg2rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func rad2deg(r float64) float64 {
	return r * 180.0 / math.Pi
}
