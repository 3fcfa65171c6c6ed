// package trace is for single component seismic waveforms.
package trace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrMisaligned = errors.New("traces are not aligned")
	ErrNoData     = errors.New("no data")
)

// Trace is a single component waveform.  Samples are evenly spaced at SampleRate
// (samples/second) from Start.  The number of samples is fixed once created.
type Trace struct {
	Network, Station, Location, Channel string
	Start                               time.Time
	SampleRate                          float64
	Samples                             []float64
}

// Query selects a window of data for one channel.
type Query struct {
	Network, Station, Location, Channel string
	Start, End                          time.Time
}

// Source provides waveforms.
type Source interface {
	Fetch(ctx context.Context, q Query) (Trace, error)
}

// ID returns the stream identifier e.g., IU.ANMO.10.BHZ
func (t Trace) ID() string {
	return fmt.Sprintf("%s.%s.%s.%s", t.Network, t.Station, t.Location, t.Channel)
}

// Period is the time between samples, 0 if the sample rate is not set.
func (t Trace) Period() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second)/t.SampleRate + 0.5)
}

// End returns the time of the last sample.
func (t Trace) End() time.Time {
	if len(t.Samples) == 0 {
		return t.Start
	}
	return t.Start.Add(t.offset(len(t.Samples) - 1))
}

// IntegerRate returns the sample rate truncated to whole samples per second.
func (t Trace) IntegerRate() (int, error) {
	r := int(t.SampleRate)
	if r < 1 {
		return 0, fmt.Errorf("%s: sample rate %g Hz is below 1 Hz", t.ID(), t.SampleRate)
	}
	return r, nil
}

// Trim returns a Trace with the samples from start to end inclusive.
// The returned Trace shares storage with t.
func (t Trace) Trim(start, end time.Time) Trace {
	if t.SampleRate <= 0 || len(t.Samples) == 0 {
		return t
	}

	first := int(math.Ceil(start.Sub(t.Start).Seconds()*t.SampleRate - 1e-6))
	last := int(math.Floor(end.Sub(t.Start).Seconds()*t.SampleRate + 1e-6))

	if first < 0 {
		first = 0
	}
	if last > len(t.Samples)-1 {
		last = len(t.Samples) - 1
	}

	tr := t
	if first > last {
		tr.Samples = t.Samples[:0]
		return tr
	}

	tr.Start = t.Start.Add(t.offset(first))
	tr.Samples = t.Samples[first : last+1]

	return tr
}

func (t Trace) offset(n int) time.Duration {
	return time.Duration(float64(n)/t.SampleRate*float64(time.Second) + 0.5)
}

// Select returns the first trace in traces for channel.
func Select(traces []Trace, channel string) (Trace, error) {
	for _, v := range traces {
		if v.Channel == channel {
			return v, nil
		}
	}

	return Trace{}, fmt.Errorf("channel %s: %w", channel, ErrNoData)
}

/*
Align trims traces to their common window.  All traces must have the same sample rate.
The returned traces start at the latest start time and have the length of the
shortest remaining trace.
*/
func Align(traces ...Trace) ([]Trace, error) {
	if len(traces) == 0 {
		return nil, nil
	}

	start := traces[0].Start
	for _, v := range traces[1:] {
		if v.SampleRate != traces[0].SampleRate {
			return nil, fmt.Errorf("%s %g Hz and %s %g Hz: %w", traces[0].ID(), traces[0].SampleRate, v.ID(), v.SampleRate, ErrMisaligned)
		}
		if v.Start.After(start) {
			start = v.Start
		}
	}

	out := make([]Trace, len(traces))
	n := math.MaxInt

	for i, v := range traces {
		skip := 0
		if v.SampleRate > 0 {
			skip = int(math.Round(start.Sub(v.Start).Seconds() * v.SampleRate))
		}
		if skip > len(v.Samples) {
			skip = len(v.Samples)
		}

		out[i] = v
		out[i].Start = v.Start.Add(v.offset(skip))
		out[i].Samples = v.Samples[skip:]

		if len(out[i].Samples) < n {
			n = len(out[i].Samples)
		}
	}

	for i := range out {
		out[i].Samples = out[i].Samples[:n]
	}

	return out, nil
}

// CheckAligned returns an error wrapping ErrMisaligned unless all traces have
// the same number of samples and the same sample rate.
func CheckAligned(traces ...Trace) error {
	for _, v := range traces {
		if v.SampleRate != traces[0].SampleRate {
			return fmt.Errorf("%s %g Hz and %s %g Hz: %w", traces[0].ID(), traces[0].SampleRate, v.ID(), v.SampleRate, ErrMisaligned)
		}
		if len(v.Samples) != len(traces[0].Samples) {
			return fmt.Errorf("%s %d samples and %s %d samples: %w", traces[0].ID(), len(traces[0].Samples), v.ID(), len(v.Samples), ErrMisaligned)
		}
	}

	return nil
}
