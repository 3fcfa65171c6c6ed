// package traveltime is for seismic phase arrival times at a station.
package traveltime

import (
	"context"
	"fmt"
	"sort"

	"github.com/GeoNet/seismoviz/internal/geodesic"
)

// Arrival is a phase and its travel time in seconds since the origin time.
type Arrival struct {
	Phase string
	Time  float64
}

// Hypocentre is an earthquake location.  Depth is in km.
type Hypocentre struct {
	geodesic.Point
	Depth float64
}

// Model is a travel-time model.
type Model interface {
	// Arrivals returns the phase arrivals for a source at depth (km) observed
	// distance (degrees) away.  Order is the model's order.
	Arrivals(ctx context.Context, distance, depth float64) ([]Arrival, error)
}

// Table maps phase name to arrival time in seconds since the origin time.
// A Table is read only once built.
type Table map[string]float64

// Fold builds a Table from arrivals.  When a phase name appears more than once
// the last arrival in a wins.
func Fold(a []Arrival) Table {
	t := make(Table, len(a))

	for _, v := range a {
		t[v.Phase] = v.Time
	}

	return t
}

// Lookup returns the Table for quake observed at station.  Station elevation is not used.
func Lookup(ctx context.Context, m Model, station geodesic.Point, quake Hypocentre) (Table, error) {
	d := geodesic.Degrees(station, quake.Point)

	a, err := m.Arrivals(ctx, d, quake.Depth)
	if err != nil {
		return nil, fmt.Errorf("travel times for %.3f degrees %.1f km: %w", d, quake.Depth, err)
	}

	return Fold(a), nil
}

// Arrival returns the arrival time for phase.  ok is false if the phase is not in t.
func (t Table) Arrival(phase string) (float64, bool) {
	v, ok := t[phase]
	return v, ok
}

// Phases returns the phase names in t ordered by arrival time.
func (t Table) Phases() []string {
	var p []string

	for k := range t {
		p = append(p, k)
	}

	sort.Slice(p, func(i, j int) bool {
		if t[p[i]] == t[p[j]] {
			return p[i] < p[j]
		}
		return t[p[i]] < t[p[j]]
	})

	return p
}

// Marker is a phase annotation on a seismogram.
type Marker struct {
	Phase string
	Time  float64 // arrival, seconds since origin.
	Alpha float64 // opacity 0-1.
}

// Mark returns the Marker for phase at elapsed time t (seconds since origin).
// The marker is fully opaque once t has reached the arrival and has opacity
// reduced before that.  ok is false, and no marker should be drawn, if phase is not in table.
func Mark(t float64, phase string, table Table, reduced float64) (m Marker, ok bool) {
	arr, ok := table.Arrival(phase)
	if !ok {
		return Marker{}, false
	}

	m = Marker{Phase: phase, Time: arr, Alpha: reduced}
	if t >= arr {
		m.Alpha = 1.0
	}

	return m, true
}
