package fdsn

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GeoNet/seismoviz/internal/geodesic"
	"github.com/GeoNet/seismoviz/internal/traveltime"
)

const eventPath = "/fdsnws/event/1/query"

// EventQuery is the query for the event service.  Results are requested in the text format.
type EventQuery struct {
	StartTime    time.Time `schema:"starttime"`
	EndTime      time.Time `schema:"endtime"`
	MinMagnitude float64   `schema:"minmagnitude,omitempty"`
	OrderBy      string    `schema:"orderby,omitempty"`
	Limit        int       `schema:"limit,omitempty"`
	Format       string    `schema:"format"`
	NoData       int       `schema:"nodata"`
}

// Event is one row of an FDSN event text response.
type Event struct {
	ID            string
	Time          time.Time
	Latitude      float64
	Longitude     float64
	Depth         float64 // km
	Author        string
	Catalog       string
	Contributor   string
	ContributorID string
	MagType       string
	Magnitude     float64
	MagAuthor     string
	Location      string
}

// Hypocentre returns the event location for travel time lookups.
func (e Event) Hypocentre() traveltime.Hypocentre {
	return traveltime.Hypocentre{
		Point: geodesic.Point{Latitude: e.Latitude, Longitude: e.Longitude},
		Depth: e.Depth,
	}
}

// Events returns the events in the query window ordered as the service returns them.
func (c *Client) Events(ctx context.Context, q EventQuery) ([]Event, error) {
	q.Format = "text"
	if q.NoData == 0 {
		q.NoData = 204
	}

	if !q.EndTime.After(q.StartTime) {
		return nil, fmt.Errorf("endtime %s must be after starttime %s", q.EndTime.Format(WsMarshalTimeFormat), q.StartTime.Format(WsMarshalTimeFormat))
	}

	b, err := c.get(ctx, eventPath, q)
	if err != nil {
		return nil, err
	}

	return ParseEvents(bytes.NewReader(b))
}

// LargestEvent returns the largest event with origin time between start and end and magnitude
// at least minMagnitude.  ErrNoData is returned if there are no events.
func (c *Client) LargestEvent(ctx context.Context, start, end time.Time, minMagnitude float64) (Event, error) {
	e, err := c.Events(ctx, EventQuery{
		StartTime:    start,
		EndTime:      end,
		MinMagnitude: minMagnitude,
		OrderBy:      "magnitude",
	})
	if err != nil {
		return Event{}, err
	}

	return Largest(e)
}

// Largest returns the event with the largest magnitude.  Ties are broken by the earliest origin time.
func Largest(events []Event) (Event, error) {
	if len(events) == 0 {
		return Event{}, ErrNoData
	}

	e := make([]Event, len(events))
	copy(e, events)

	sort.SliceStable(e, func(i, j int) bool {
		if e[i].Magnitude != e[j].Magnitude {
			return e[i].Magnitude > e[j].Magnitude
		}
		return e[i].Time.Before(e[j].Time)
	})

	return e[0], nil
}

// ParseEvents parses the FDSN event text format.  Lines starting with '#' are skipped.
//
//	EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
func ParseEvents(r io.Reader) ([]Event, error) {
	var events []Event

	s := bufio.NewScanner(r)
	line := 0

	for s.Scan() {
		line++

		l := strings.TrimSpace(s.Text())
		if l == "" || strings.HasPrefix(l, "#") {
			continue
		}

		f := strings.Split(l, "|")
		if len(f) < 11 {
			return nil, fmt.Errorf("line %d: expected at least 11 fields got %d", line, len(f))
		}

		for i := range f {
			f[i] = strings.TrimSpace(f[i])
		}

		var e Event
		var err error

		e.ID = f[0]

		if e.Time, err = ParseTime(f[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if e.Latitude, err = strconv.ParseFloat(f[2], 64); err != nil {
			return nil, fmt.Errorf("line %d: latitude: %w", line, err)
		}

		if e.Longitude, err = strconv.ParseFloat(f[3], 64); err != nil {
			return nil, fmt.Errorf("line %d: longitude: %w", line, err)
		}

		if e.Depth, err = strconv.ParseFloat(f[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: depth: %w", line, err)
		}

		e.Author = f[5]
		e.Catalog = f[6]
		e.Contributor = f[7]
		e.ContributorID = f[8]
		e.MagType = f[9]

		if f[10] != "" {
			if e.Magnitude, err = strconv.ParseFloat(f[10], 64); err != nil {
				return nil, fmt.Errorf("line %d: magnitude: %w", line, err)
			}
		}

		if len(f) > 11 {
			e.MagAuthor = f[11]
		}
		if len(f) > 12 {
			e.Location = f[12]
		}

		events = append(events, e)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
