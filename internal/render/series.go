// package render is for drawing ground motion animation frames.
package render

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var ErrSeries = errors.New("invalid series")

// Vec3 is a ground displacement.  X is north-south, Y is east-west and Z is up-down (mm).
type Vec3 struct {
	X, Y, Z float64
}

/*
Series is three component displacement prepared for drawing.

Each component is padded at the start with Trail-1 zeros.  Time is seconds since the
origin for each padded sample so the padding has negative times and the first real
sample is at 0.
*/
type Series struct {
	Rate, Trail int
	Time        []float64
	N, E, Z     []float64
}

// Frame is the state drawn in one animation frame.
type Frame struct {
	// Index is the frame number and also the elapsed seconds since the origin.
	Index int
	// Trail is the displacement at one second spacing ending at Index, oldest first.
	Trail []Vec3
	// Azimuth is the camera azimuth for the 3D panel in degrees.
	Azimuth float64
}

// NewSeries returns a Series for the n, e, z displacements sampled at rate.
func NewSeries(n, e, z []float64, rate, trail int) (Series, error) {
	switch {
	case rate < 1:
		return Series{}, fmt.Errorf("%w: rate %d must be at least 1", ErrSeries, rate)
	case trail < 1:
		return Series{}, fmt.Errorf("%w: trail %d must be at least 1", ErrSeries, trail)
	case len(n) != len(e) || len(n) != len(z):
		return Series{}, fmt.Errorf("%w: component lengths %d %d %d differ", ErrSeries, len(n), len(e), len(z))
	case len(n) == 0:
		return Series{}, fmt.Errorf("%w: no samples", ErrSeries)
	}

	pad := trail - 1
	l := len(n) + pad

	s := Series{
		Rate:  rate,
		Trail: trail,
		Time:  make([]float64, l),
		N:     make([]float64, l),
		E:     make([]float64, l),
		Z:     make([]float64, l),
	}

	for k := range s.Time {
		s.Time[k] = float64(k-pad) / float64(rate)
	}

	copy(s.N[pad:], n)
	copy(s.E[pad:], e)
	copy(s.Z[pad:], z)

	return s, nil
}

// Offset is the vertical spacing that stacks N, E and Z without overlap.
func (s Series) Offset() float64 {
	o1 := floats.Max(s.N) + math.Abs(floats.Min(s.E))*1.1
	o2 := floats.Max(s.E) + math.Abs(floats.Min(s.Z))*1.1

	return math.Max(o1, o2)
}

// AxisLimit is the half width of the 3D panel cube.  All axes use the same limit.
func (s Series) AxisLimit() float64 {
	var l float64

	for _, c := range [][]float64{s.N, s.E, s.Z} {
		l = math.Max(l, math.Max(math.Abs(floats.Min(c))*0.8, floats.Max(c)*1.2))
	}

	return l
}

// Frames is the number of frames, one per whole second of data.
func (s Series) Frames() int {
	samples := len(s.N) - (s.Trail - 1)
	if samples < 1 {
		return 0
	}

	return (samples-1)/s.Rate + 1
}

// Frame returns frame i.  The camera starts at azimuth and turns rotation degrees per frame.
func (s Series) Frame(i int, azimuth, rotation float64) Frame {
	f := Frame{
		Index:   i,
		Trail:   make([]Vec3, s.Trail),
		Azimuth: azimuth + float64(i)*rotation,
	}

	for k := range f.Trail {
		f.Trail[k] = s.At(i - (s.Trail - 1) + k)
	}

	return f
}

// At returns the displacement at second since the origin.  Seconds before the
// data are zero and seconds after the data are the last sample.
func (s Series) At(second int) Vec3 {
	if second < 0 {
		return Vec3{}
	}

	k := s.Trail - 1 + second*s.Rate
	if k > len(s.N)-1 {
		k = len(s.N) - 1
	}

	return Vec3{X: s.N[k], Y: s.E[k], Z: s.Z[k]}
}

// OrderOfMagnitude returns the power of ten at or below x, 0 if x <= 0.
func OrderOfMagnitude(x float64) float64 {
	if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	return math.Pow(10, math.Floor(math.Log10(x)))
}

// Project returns the orthographic projection of p for a camera at azimuth and
// elevation (degrees).  u is to the right and v is up on the screen.
func Project(p Vec3, azimuth, elevation float64) (u, v float64) {
	az := azimuth * math.Pi / 180.0
	el := elevation * math.Pi / 180.0

	u = -p.X*math.Sin(az) + p.Y*math.Cos(az)
	v = -(p.X*math.Cos(az)+p.Y*math.Sin(az))*math.Sin(el) + p.Z*math.Cos(el)

	return u, v
}
