package traveltime_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/GeoNet/seismoviz/internal/geodesic"
	"github.com/GeoNet/seismoviz/internal/traveltime"
)

// fixedModel is a traveltime.Model for testing that records the query it was given.
type fixedModel struct {
	arrivals        []traveltime.Arrival
	err             error
	distance, depth float64
}

func (f *fixedModel) Arrivals(ctx context.Context, distance, depth float64) ([]traveltime.Arrival, error) {
	f.distance = distance
	f.depth = depth
	return f.arrivals, f.err
}

func TestFoldLastWriteWins(t *testing.T) {
	tt := traveltime.Fold([]traveltime.Arrival{
		{Phase: "P", Time: 120.5},
		{Phase: "S", Time: 220.1},
		{Phase: "P", Time: 121.0},
	})

	exp := traveltime.Table{"P": 121.0, "S": 220.1}

	if !reflect.DeepEqual(tt, exp) {
		t.Errorf("expected %v got %v", exp, tt)
	}
}

func TestFoldEmpty(t *testing.T) {
	tt := traveltime.Fold(nil)
	if tt == nil || len(tt) != 0 {
		t.Errorf("expected empty table got %v", tt)
	}

	if _, ok := tt.Arrival("P"); ok {
		t.Error("expected no P arrival in an empty table")
	}
}

func TestLookup(t *testing.T) {
	m := &fixedModel{arrivals: []traveltime.Arrival{
		{Phase: "P", Time: 466.7},
		{Phase: "pP", Time: 480.2},
		{Phase: "S", Time: 840.1},
		{Phase: "P", Time: 470.0},
	}}

	station := geodesic.Point{Latitude: 0, Longitude: 0, Elevation: 1.2}
	quake := traveltime.Hypocentre{Point: geodesic.Point{Latitude: 0, Longitude: 90}, Depth: 92}

	tt, err := traveltime.Lookup(context.Background(), m, station, quake)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(m.distance-90) > 1e-9 {
		t.Errorf("expected model queried at 90 degrees got %g", m.distance)
	}
	if m.depth != 92 {
		t.Errorf("expected model queried at 92 km got %g", m.depth)
	}

	exp := traveltime.Table{"P": 470.0, "pP": 480.2, "S": 840.1}
	if !reflect.DeepEqual(tt, exp) {
		t.Errorf("expected %v got %v", exp, tt)
	}

	if p := tt.Phases(); !reflect.DeepEqual(p, []string{"P", "pP", "S"}) {
		t.Errorf("unexpected phase order %v", p)
	}
}

func TestLookupError(t *testing.T) {
	e := errors.New("service down")
	m := &fixedModel{err: e}

	_, err := traveltime.Lookup(context.Background(), m, geodesic.Point{}, traveltime.Hypocentre{})
	if !errors.Is(err, e) {
		t.Errorf("expected wrapped model error got %v", err)
	}
}

func TestMark(t *testing.T) {
	table := traveltime.Table{"P": 100.0}

	var results = []struct {
		id    string
		t     float64
		phase string
		ok    bool
		alpha float64
	}{
		{id: "before arrival", t: 99.9, phase: "P", ok: true, alpha: 0.3},
		{id: "at arrival", t: 100.0, phase: "P", ok: true, alpha: 1.0},
		{id: "after arrival", t: 250.0, phase: "P", ok: true, alpha: 1.0},
		{id: "absent phase", t: 500.0, phase: "X", ok: false},
	}

	for _, r := range results {
		m, ok := traveltime.Mark(r.t, r.phase, table, 0.3)
		if ok != r.ok {
			t.Errorf("%s: expected ok %t got %t", r.id, r.ok, ok)
			continue
		}
		if !ok {
			if m != (traveltime.Marker{}) {
				t.Errorf("%s: expected zero marker got %+v", r.id, m)
			}
			continue
		}
		if m.Alpha != r.alpha {
			t.Errorf("%s: expected alpha %g got %g", r.id, r.alpha, m.Alpha)
		}
		if m.Time != 100.0 || m.Phase != r.phase {
			t.Errorf("%s: unexpected marker %+v", r.id, m)
		}
	}
}

const irisBody = `   49.35    92.0   P        514.28     7.433    29.94    24.61    49.35   = P
   49.35    92.0   pP       536.87     7.447   150.00    24.66    49.35   = pP
   49.35    92.0   S        930.16    13.792    31.12    26.12    49.35   = S
   49.35    92.0   P        515.00     7.433    29.94    24.61    49.35   = P
`

func TestIRISModel(t *testing.T) {
	var query string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(irisBody))
	}))
	defer ts.Close()

	m := traveltime.IRISModel{URL: ts.URL, Model: "iasp91", Phases: []string{"P", "S"}, Client: ts.Client()}

	a, err := m.Arrivals(context.Background(), 49.35, 92)
	if err != nil {
		t.Fatal(err)
	}

	exp := []traveltime.Arrival{
		{Phase: "P", Time: 514.28},
		{Phase: "pP", Time: 536.87},
		{Phase: "S", Time: 930.16},
		{Phase: "P", Time: 515.00},
	}

	if !reflect.DeepEqual(a, exp) {
		t.Errorf("expected %v got %v", exp, a)
	}

	for _, s := range []string{"distdeg=49.35", "evdepth=92", "model=iasp91", "phases=P%2CS", "noheader=true"} {
		if !strings.Contains(query, s) {
			t.Errorf("expected %s in query %s", s, query)
		}
	}

	if tt := traveltime.Fold(a); tt["P"] != 515.00 {
		t.Errorf("expected last P arrival to win got %g", tt["P"])
	}
}

func TestIRISModelAllPhases(t *testing.T) {
	var query string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		w.Write([]byte(irisBody))
	}))
	defer ts.Close()

	m := traveltime.IRISModel{URL: ts.URL, Model: "iasp91", Client: ts.Client()}

	a, err := m.Arrivals(context.Background(), 49.35, 92)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(query, "phases") {
		t.Errorf("expected no phases in query %s", query)
	}

	// every phase the service returns, not only the marked ones.
	if tt := traveltime.Fold(a); len(tt) != 3 {
		t.Errorf("expected 3 phases got %v", tt)
	}
}

func TestIRISModelError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad distance", http.StatusBadRequest)
	}))
	defer ts.Close()

	m := traveltime.IRISModel{URL: ts.URL, Client: ts.Client()}

	if _, err := m.Arrivals(context.Background(), 200, 10); err == nil {
		t.Error("expected an error for a 400 response")
	}
}

func TestParseArrivals(t *testing.T) {
	in := `Model: iasp91
Distance   Depth   Phase   Travel    Ray Param  Takeoff  Incident  Purist    Purist
  (deg)     (km)   Name    Time (s)  p (s/deg)   (deg)    (deg)   Distance   Name
-----------------------------------------------------------------------------------
   30.00    10.0   P        369.94     8.876    30.93    28.58    30.00   = P

   30.00    10.0   S        667.93    16.131    32.65    29.74    30.00   = S
`
	a, err := traveltime.ParseArrivals(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}

	exp := []traveltime.Arrival{{Phase: "P", Time: 369.94}, {Phase: "S", Time: 667.93}}
	if !reflect.DeepEqual(a, exp) {
		t.Errorf("expected %v got %v", exp, a)
	}

	if _, err := traveltime.ParseArrivals(strings.NewReader("30.00 10.0 P abc 8.8")); err == nil {
		t.Error("expected an error for an invalid travel time")
	}

	if _, err := traveltime.ParseArrivals(strings.NewReader("30.00 10.0")); err == nil {
		t.Error("expected an error for a short row")
	}
}
