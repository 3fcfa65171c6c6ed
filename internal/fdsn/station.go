package fdsn

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/GeoNet/seismoviz/internal/geodesic"
)

const stationPath = "/fdsnws/station/1/query"

// StationQuery is the query for the station service at station level.
type StationQuery struct {
	Network   string    `schema:"network"`
	Station   string    `schema:"station"`
	Level     string    `schema:"level"`
	StartTime time.Time `schema:"starttime"`
	EndTime   time.Time `schema:"endtime"`
	NoData    int       `schema:"nodata"`
}

// StationLocation returns the location of network.station operating between start and end.
// Elevation is returned in km.
func (c *Client) StationLocation(ctx context.Context, network, station string, start, end time.Time) (geodesic.Point, error) {
	if err := ValidCode("network", network); err != nil {
		return geodesic.Point{}, err
	}
	if err := ValidCode("station", station); err != nil {
		return geodesic.Point{}, err
	}

	q := StationQuery{
		Network:   network,
		Station:   station,
		Level:     "station",
		StartTime: start,
		EndTime:   end,
		NoData:    204,
	}

	b, err := c.get(ctx, stationPath, q)
	if err != nil {
		return geodesic.Point{}, err
	}

	s, err := FirstStation(b)
	if err != nil {
		return geodesic.Point{}, fmt.Errorf("%s.%s: %w", network, station, err)
	}

	return geodesic.Point{
		Latitude:  s.Latitude.Value,
		Longitude: s.Longitude.Value,
		Elevation: s.Elevation.Value / 1000.0,
	}, nil
}

// FirstStation returns the first station in the first network of the StationXML in b.
func FirstStation(b []byte) (StationType, error) {
	var f FDSNStationXML

	if err := xml.NewDecoder(bytes.NewReader(b)).Decode(&f); err != nil {
		return StationType{}, fmt.Errorf("decoding StationXML: %w", err)
	}

	if len(f.Network) == 0 || len(f.Network[0].Station) == 0 {
		return StationType{}, ErrNoData
	}

	return f.Network[0].Station[0], nil
}
