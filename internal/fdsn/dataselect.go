package fdsn

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/GeoNet/seismoviz/internal/trace"
)

const dataselectPath = "/fdsnws/dataselect/1/query"

// nslcReg: FDSN spec allows all ascii, we only query single streams so allow alpha, number, _ and "--" (exactly 2 hyphens only)
var nslcReg = regexp.MustCompile(`^(\w+|--)$`)

// DataSelect is the query for the dataselect service.
type DataSelect struct {
	Network   string    `schema:"network"`
	Station   string    `schema:"station"`
	Location  string    `schema:"location"`
	Channel   string    `schema:"channel"`
	StartTime time.Time `schema:"starttime"`
	EndTime   time.Time `schema:"endtime"`
	NoData    int       `schema:"nodata"`
}

// ValidCode returns an error if code is not a single network, station, location
// or channel code.  name is used in the error message.
func ValidCode(name, code string) error {
	if !nslcReg.MatchString(code) {
		return fmt.Errorf("invalid %s code: '%s'", name, code)
	}
	return nil
}

// NewDataSelect returns a DataSelect for q.  An empty location is queried as "--".
func NewDataSelect(q trace.Query) (DataSelect, error) {
	d := DataSelect{
		Network:   q.Network,
		Station:   q.Station,
		Location:  q.Location,
		Channel:   q.Channel,
		StartTime: q.Start,
		EndTime:   q.End,
		NoData:    204,
	}

	if d.Location == "" {
		d.Location = "--"
	}

	for _, v := range []struct{ name, code string }{
		{"network", d.Network},
		{"station", d.Station},
		{"location", d.Location},
		{"channel", d.Channel},
	} {
		if err := ValidCode(v.name, v.code); err != nil {
			return DataSelect{}, err
		}
	}

	if !d.EndTime.After(d.StartTime) {
		return DataSelect{}, fmt.Errorf("endtime %s must be after starttime %s", d.EndTime.Format(WsMarshalTimeFormat), d.StartTime.Format(WsMarshalTimeFormat))
	}

	return d, nil
}

// Fetch implements trace.Source with the dataselect service.  The first continuous segment
// for the channel is returned trimmed to the query window.
func (c *Client) Fetch(ctx context.Context, q trace.Query) (trace.Trace, error) {
	d, err := NewDataSelect(q)
	if err != nil {
		return trace.Trace{}, err
	}

	b, err := c.get(ctx, dataselectPath, d)
	if err != nil {
		return trace.Trace{}, err
	}

	traces, err := trace.Read(bytes.NewReader(b))
	if err != nil {
		return trace.Trace{}, err
	}

	t, err := trace.Select(traces, q.Channel)
	if err != nil {
		return trace.Trace{}, err
	}

	t = t.Trim(q.Start, q.End)
	if len(t.Samples) == 0 {
		return trace.Trace{}, fmt.Errorf("%s: %w", t.ID(), ErrNoData)
	}

	return t, nil
}
