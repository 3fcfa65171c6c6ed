package geodesic_test

import (
	"math"
	"testing"

	"github.com/GeoNet/seismoviz/internal/geodesic"
)

const tolerance = 1e-9

func TestDegreesDistance(t *testing.T) {
	var results = []struct {
		id                     string
		lat1, lon1, lat2, lon2 float64
		exp                    float64
	}{
		{id: "quarter equator", lat1: 0, lon1: 0, lat2: 0, lon2: 90, exp: 90},
		{id: "pole to equator", lat1: 90, lon1: 0, lat2: 0, lon2: 123, exp: 90},
		{id: "same point", lat1: -41.3, lon1: 174.8, lat2: -41.3, lon2: 174.8, exp: 0},
		{id: "antipodes equator", lat1: 0, lon1: 0, lat2: 0, lon2: 180, exp: 180},
		{id: "antipodes", lat1: 34.9459, lon1: -106.4572, lat2: -34.9459, lon2: 73.5428, exp: 180},
		{id: "poles", lat1: 90, lon1: 0, lat2: -90, lon2: 0, exp: 180},
		{id: "meridian", lat1: 10, lon1: 20, lat2: 40, lon2: 20, exp: 30},
		{id: "dateline", lat1: 0, lon1: 179, lat2: 0, lon2: -179, exp: 2},
	}

	for _, r := range results {
		d := geodesic.DegreesDistance(r.lat1, r.lon1, r.lat2, r.lon2)
		if math.Abs(d-r.exp) > tolerance {
			t.Errorf("%s: expected %g got %g", r.id, r.exp, d)
		}
	}
}

func TestDegreesDistanceSymmetric(t *testing.T) {
	pts := []geodesic.Point{
		{Latitude: 34.9459, Longitude: -106.4572}, // ANMO
		{Latitude: 14.782, Longitude: -92.371},
		{Latitude: -41.2865, Longitude: 174.7762},
		{Latitude: 89.9, Longitude: 12},
		{Latitude: -60, Longitude: -170},
		{Latitude: 0, Longitude: 0},
	}

	for _, a := range pts {
		for _, b := range pts {
			ab := geodesic.Degrees(a, b)
			ba := geodesic.Degrees(b, a)
			if math.Abs(ab-ba) > tolerance {
				t.Errorf("%+v %+v: distance not symmetric %g != %g", a, b, ab, ba)
			}
			if ab < 0 || ab > 180 {
				t.Errorf("%+v %+v: distance out of range %g", a, b, ab)
			}
		}
		if d := geodesic.Degrees(a, a); math.Abs(d) > tolerance {
			t.Errorf("%+v: expected 0 to itself got %g", a, d)
		}
	}
}

func TestDegreesIgnoresElevation(t *testing.T) {
	a := geodesic.Point{Latitude: 34.9459, Longitude: -106.4572, Elevation: 1.85}
	b := geodesic.Point{Latitude: 14.782, Longitude: -92.371}

	c := a
	c.Elevation = 0

	if geodesic.Degrees(a, b) != geodesic.Degrees(c, b) {
		t.Error("elevation changed the angular distance")
	}
}

func TestKilometres(t *testing.T) {
	a := geodesic.Point{Latitude: 0, Longitude: 0}
	b := geodesic.Point{Latitude: 0, Longitude: 1}

	d, err := geodesic.Kilometres(a, b)
	if err != nil {
		t.Fatal(err)
	}

	// one degree of longitude on the WGS84 equator.
	if math.Abs(d-111.319) > 0.01 {
		t.Errorf("expected ~111.319 km got %g", d)
	}
}
