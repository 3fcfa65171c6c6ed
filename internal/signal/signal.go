// package signal converts seismometer velocity samples into ground displacement.
package signal

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MillimetresPerMetre scales integrated metres to millimetres.
const MillimetresPerMetre = 1000.0

var ErrInvalidSampleRate = errors.New("sample rate must be a positive integer")

/*
Process detrends, demeans, integrates and scales samples.

samples must be ground velocity in metres/second (instrument response already
removed).  The result is displacement in millimetres with the same length as
samples and a value of 0 at the first sample.  samples is not modified.
*/
func Process(samples []float64, rate int) ([]float64, error) {
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	if len(samples) == 0 {
		return []float64{}, nil
	}

	d := CumTrapz(Demean(Detrend(samples)), 1.0/float64(rate))
	Scale(d, MillimetresPerMetre)

	return d, nil
}

// Detrend returns samples with the least-squares straight line through them removed.
// The fit is against sample index.
func Detrend(samples []float64) []float64 {
	d := make([]float64, len(samples))

	// a line through a single point leaves no residual.
	if len(samples) < 2 {
		return d
	}

	x := make([]float64, len(samples))
	floats.Span(x, 0, float64(len(samples)-1))

	alpha, beta := stat.LinearRegression(x, samples, nil, false)

	for i, v := range samples {
		d[i] = v - (alpha + beta*x[i])
	}

	return d
}

// Demean returns samples with their arithmetic mean subtracted.
func Demean(samples []float64) []float64 {
	d := make([]float64, len(samples))

	if len(samples) == 0 {
		return d
	}

	m := stat.Mean(samples, nil)

	for i, v := range samples {
		d[i] = v - m
	}

	return d
}

// CumTrapz returns the cumulative trapezoidal integral of samples with step dx.
// Element k is the integral from sample 0 to sample k, element 0 is 0.
func CumTrapz(samples []float64, dx float64) []float64 {
	d := make([]float64, len(samples))

	for i := 1; i < len(samples); i++ {
		d[i] = d[i-1] + (samples[i-1]+samples[i])*dx/2.0
	}

	return d
}

// Scale multiplies samples by s in place.
func Scale(samples []float64, s float64) {
	floats.Scale(s, samples)
}

// Differentiate is the backward difference of displacement in millimetres
// scaled back to velocity in metres/second.  Element 0 is 0.
func Differentiate(disp []float64, rate int) ([]float64, error) {
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	d := make([]float64, len(disp))

	for i := 1; i < len(disp); i++ {
		d[i] = (disp[i] - disp[i-1]) * float64(rate) / MillimetresPerMetre
	}

	return d, nil
}
