package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/GeoNet/seismoviz/internal/app"
	"github.com/GeoNet/seismoviz/internal/fdsn"
	"github.com/GeoNet/seismoviz/internal/geodesic"
	"github.com/GeoNet/seismoviz/internal/traveltime"
)

// options are the command line flags that shape a request.
type options struct {
	lat, lon, depth float64
	latSet, lonSet  bool
	minMagnitude    float64
	out             string
	frames          int
	keepFrames      bool
}

// parseRequest parses NETWORK STATION LOCATION CHN CHE CHZ TIME DURATION.
// DURATION is whole minutes.  A location of "--" is the empty location code.
func parseRequest(args []string, o options) (app.Request, error) {
	if len(args) != 8 {
		return app.Request{}, fmt.Errorf("expected %s got %d arguments", usage, len(args))
	}

	origin, err := fdsn.ParseTime(args[6])
	if err != nil {
		return app.Request{}, fmt.Errorf("TIME: %w", err)
	}

	minutes, err := strconv.Atoi(args[7])
	if err != nil {
		return app.Request{}, fmt.Errorf("DURATION must be whole minutes: %w", err)
	}

	loc := args[2]
	if loc == "--" {
		loc = ""
	}

	req := app.Request{
		Network:      args[0],
		Station:      args[1],
		Location:     loc,
		Channels:     [3]string{args[3], args[4], args[5]},
		Origin:       origin,
		Duration:     time.Duration(minutes) * time.Minute,
		MinMagnitude: o.minMagnitude,
		Frames:       o.frames,
		Output:       o.out,
	}

	switch {
	case o.latSet && o.lonSet:
		if o.lat < -90 || o.lat > 90 || o.lon < -180 || o.lon > 360 {
			return app.Request{}, fmt.Errorf("event location %f %f out of range", o.lat, o.lon)
		}
		if o.depth < 0 {
			return app.Request{}, fmt.Errorf("event depth %f must not be negative", o.depth)
		}
		req.Quake = &traveltime.Hypocentre{
			Point: geodesic.Point{Latitude: o.lat, Longitude: o.lon},
			Depth: o.depth,
		}
	case o.latSet || o.lonSet:
		return app.Request{}, fmt.Errorf("both --event-lat and --event-lon are needed for an explicit earthquake")
	}

	return req, req.Validate()
}
