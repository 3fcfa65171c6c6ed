// package app runs the seismoviz pipeline from station lookup to video.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/GeoNet/seismoviz/internal/config"
	"github.com/GeoNet/seismoviz/internal/fdsn"
	"github.com/GeoNet/seismoviz/internal/geodesic"
	"github.com/GeoNet/seismoviz/internal/metrics"
	"github.com/GeoNet/seismoviz/internal/render"
	"github.com/GeoNet/seismoviz/internal/signal"
	"github.com/GeoNet/seismoviz/internal/trace"
	"github.com/GeoNet/seismoviz/internal/traveltime"
	"github.com/GeoNet/seismoviz/internal/video"
)

// EventWindow is searched either side of the requested time for an earthquake when
// no hypocentre is given.
const EventWindow = 5 * time.Minute

// frames are logged at this interval.
const logEvery = 60

var ErrRequest = errors.New("invalid request")

// StationLocator finds station coordinates.
type StationLocator interface {
	StationLocation(ctx context.Context, network, station string, start, end time.Time) (geodesic.Point, error)
}

// EventFinder finds the earthquake for a request without a hypocentre.
type EventFinder interface {
	LargestEvent(ctx context.Context, start, end time.Time, minMagnitude float64) (fdsn.Event, error)
}

// Encoder assembles frames into a video.
type Encoder interface {
	Encode(ctx context.Context, dir, out string) error
	Clean(dir string) (int, error)
}

// Request is one station and earthquake to visualize.
type Request struct {
	Network, Station, Location string
	// Channels are the north, east and vertical channel codes.
	Channels [3]string
	// Origin is the start of the data, usually the earthquake origin time.
	Origin   time.Time
	Duration time.Duration
	// Quake is the hypocentre.  If nil the largest event near Origin is used.
	Quake        *traveltime.Hypocentre
	MinMagnitude float64
	// Frames limits the number of frames drawn, 0 for all of the data.
	Frames int
	// Output is the video file name.  If empty a name is made from the station and time.
	Output string
}

// Validate returns an error wrapping ErrRequest for an incomplete request.
func (r Request) Validate() error {
	switch {
	case r.Network == "" || r.Station == "":
		return fmt.Errorf("%w: network and station are required", ErrRequest)
	case r.Channels[0] == "" || r.Channels[1] == "" || r.Channels[2] == "":
		return fmt.Errorf("%w: three channels are required", ErrRequest)
	case r.Origin.IsZero():
		return fmt.Errorf("%w: time is required", ErrRequest)
	case r.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrRequest)
	case r.Frames < 0:
		return fmt.Errorf("%w: frames must not be negative", ErrRequest)
	}

	return nil
}

// App holds the collaborators for a run.
type App struct {
	Config    config.Config
	Stations  StationLocator
	Events    EventFinder
	Waveforms trace.Source
	Model     traveltime.Model
	Encoder   Encoder
}

// Prepared is the processed data for a request, ready for drawing.
type Prepared struct {
	Station    geodesic.Point
	Quake      traveltime.Hypocentre
	Degrees    float64
	Kilometres float64
	Table      traveltime.Table
	Traces     [3]trace.Trace
	// Displacement is north, east and vertical displacement in mm.
	Displacement [3][]float64
	Rate         int
}

// Prepare finds the station and earthquake, looks up travel times and processes the waveforms.
func (a *App) Prepare(ctx context.Context, req Request) (Prepared, error) {
	var p Prepared

	if err := req.Validate(); err != nil {
		return p, err
	}

	end := req.Origin.Add(req.Duration)

	tm := metrics.Start()
	st, err := a.Stations.StationLocation(ctx, req.Network, req.Station, req.Origin, end)
	if err != nil {
		return p, fmt.Errorf("station %s.%s: %w", req.Network, req.Station, err)
	}
	tm.Track("station")

	p.Station = st

	switch req.Quake {
	case nil:
		if a.Events == nil {
			return p, fmt.Errorf("%w: no hypocentre given and no event service", ErrRequest)
		}

		tm = metrics.Start()
		e, err := a.Events.LargestEvent(ctx, req.Origin.Add(-EventWindow), req.Origin.Add(EventWindow), req.MinMagnitude)
		if err != nil {
			return p, fmt.Errorf("finding earthquake near %s: %w", req.Origin.Format(time.RFC3339), err)
		}
		tm.Track("event")

		log.Printf("using event %s M%.1f %s at %s", e.ID, e.Magnitude, e.Location, e.Time.Format(time.RFC3339))
		p.Quake = e.Hypocentre()
	default:
		p.Quake = *req.Quake
	}

	p.Degrees = geodesic.Degrees(p.Station, p.Quake.Point)

	if p.Kilometres, err = geodesic.Kilometres(p.Station, p.Quake.Point); err != nil {
		return p, err
	}

	tm = metrics.Start()
	if p.Table, err = traveltime.Lookup(ctx, a.Model, p.Station, p.Quake); err != nil {
		return p, err
	}
	tm.Track("traveltime")

	tm = metrics.Start()
	var traces []trace.Trace
	for _, c := range req.Channels {
		t, err := a.Waveforms.Fetch(ctx, trace.Query{
			Network:  req.Network,
			Station:  req.Station,
			Location: req.Location,
			Channel:  c,
			Start:    req.Origin,
			End:      end,
		})
		if err != nil {
			return p, fmt.Errorf("waveform %s.%s.%s.%s: %w", req.Network, req.Station, req.Location, c, err)
		}

		traces = append(traces, t)
	}
	tm.Track("waveform")

	if traces, err = trace.Align(traces...); err != nil {
		return p, err
	}

	if err := trace.CheckAligned(traces...); err != nil {
		return p, err
	}

	if len(traces[0].Samples) == 0 {
		return p, fmt.Errorf("%s: no overlapping samples: %w", req.Station, trace.ErrNoData)
	}

	if p.Rate, err = traces[0].IntegerRate(); err != nil {
		return p, err
	}

	tm = metrics.Start()
	for i, t := range traces {
		p.Traces[i] = t

		if p.Displacement[i], err = signal.Process(t.Samples, p.Rate); err != nil {
			return p, fmt.Errorf("%s: %w", t.ID(), err)
		}
	}
	tm.Track("process")

	return p, nil
}

// Run prepares req, draws the frames and encodes them.  The video path is returned.
func (a *App) Run(ctx context.Context, req Request) (string, error) {
	p, err := a.Prepare(ctx, req)
	if err != nil {
		return "", err
	}

	log.Printf("%s.%s %.2f° (%.0f km) from the earthquake, %d samples at %d Hz", req.Network, req.Station, p.Degrees, p.Kilometres, len(p.Displacement[0]), p.Rate)

	for _, ph := range p.Table.Phases() {
		t, _ := p.Table.Arrival(ph)
		log.Printf("phase %s %.2f s", ph, t)
	}

	n, err := a.Frames(ctx, req, p)
	if err != nil {
		return "", err
	}

	log.Printf("wrote %d frames to %s", n, a.Config.Video.FrameDir)

	out := req.Output
	if out == "" {
		out = video.Name(req.Network, req.Station, req.Origin)
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(a.Config.Video.OutDir, out)
	}

	tm := metrics.Start()
	if err := a.Encoder.Encode(ctx, a.Config.Video.FrameDir, out); err != nil {
		return "", err
	}
	tm.Track("encode")

	if !a.Config.Video.KeepFrames {
		if _, err := a.Encoder.Clean(a.Config.Video.FrameDir); err != nil {
			return "", err
		}
	}

	return out, nil
}

// Frames draws the frames for p to the frame directory, removing frames left by earlier runs first.
// It returns the number of frames written.
func (a *App) Frames(ctx context.Context, req Request, p Prepared) (int, error) {
	cfg := a.Config.Render

	s, err := render.NewSeries(p.Displacement[0], p.Displacement[1], p.Displacement[2], p.Rate, cfg.Trail)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(a.Config.Video.FrameDir, 0755); err != nil {
		return 0, err
	}

	// the encoder reads every frame in the directory.
	if _, err := a.Encoder.Clean(a.Config.Video.FrameDir); err != nil {
		return 0, err
	}

	r := render.NewRenderer(cfg, s, p.Table, render.Station{
		Code:       req.Station,
		Degrees:    p.Degrees,
		Kilometres: p.Kilometres,
	})

	n := s.Frames()
	if req.Frames > 0 && req.Frames < n {
		n = req.Frames
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		tm := metrics.Start()
		if _, err := r.WriteFrame(a.Config.Video.FrameDir, s.Frame(i, cfg.Azimuth, cfg.Rotation)); err != nil {
			return i, err
		}
		tm.Track("frame")
		metrics.Frame()

		if i%logEvery == 0 {
			log.Printf("frame %d of %d", i, n)
		}
	}

	return n, nil
}
