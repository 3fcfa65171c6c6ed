package traveltime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
)

// DefaultTravelTimeURL is the IRIS traveltime web service.
const DefaultTravelTimeURL = "https://service.iris.edu/irisws/traveltime/1/query"

var encoder = schema.NewEncoder()

// IRISModel is a Model backed by the IRIS traveltime web service (TauP).
type IRISModel struct {
	URL    string       // service query URL, DefaultTravelTimeURL if empty.
	Model  string       // earth model e.g., iasp91, ak135, prem.
	Phases []string     // phases to request, the service default if empty.
	Client *http.Client // http.DefaultClient if nil.
}

type travelTimeQuery struct {
	Distance float64 `schema:"distdeg"`
	Depth    float64 `schema:"evdepth"`
	Model    string  `schema:"model,omitempty"`
	Phases   string  `schema:"phases,omitempty"`
	NoHeader bool    `schema:"noheader"`
}

// Arrivals implements Model.
func (m IRISModel) Arrivals(ctx context.Context, distance, depth float64) ([]Arrival, error) {
	u := m.URL
	if u == "" {
		u = DefaultTravelTimeURL
	}

	q := travelTimeQuery{
		Distance: distance,
		Depth:    depth,
		Model:    m.Model,
		Phases:   strings.Join(m.Phases, ","),
		NoHeader: true,
	}

	v := url.Values{}
	if err := encoder.Encode(q, v); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}

	c := m.Client
	if c == nil {
		c = http.DefaultClient
	}

	res, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("traveltime service returned %s: %s", res.Status, strings.TrimSpace(string(b)))
	}

	return ParseArrivals(res.Body)
}

/*
ParseArrivals reads the text table returned by the traveltime service:

	Distance   Depth   Phase   Travel    Ray Param  Takeoff  Incident  Purist    Purist
	  (deg)     (km)   Name    Time (s)  p (s/deg)   (deg)    (deg)   Distance   Name
	-----------------------------------------------------------------------------------
	   49.35    92.0   P        514.28     7.433    29.94    24.61    49.35   = P

Header lines, if present, are skipped.  Row order is preserved.
*/
func ParseArrivals(r io.Reader) ([]Arrival, error) {
	var a []Arrival

	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		// header, units and separator lines don't start with a number.
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			continue
		}

		if len(fields) < 4 {
			return nil, fmt.Errorf("incorrect number of fields in travel time row, expected at least 4 but observed: %d", len(fields))
		}

		t, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid travel time for phase %s: %w", fields[2], err)
		}

		a = append(a, Arrival{Phase: fields[2], Time: t})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return a, nil
}
