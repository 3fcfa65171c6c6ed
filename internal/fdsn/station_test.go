package fdsn_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GeoNet/seismoviz/internal/fdsn"
)

const anmo = `<?xml version="1.0" encoding="ISO-8859-1"?>
<FDSNStationXML xmlns="http://www.fdsn.org/xml/station/1" schemaVersion="1.1">
 <Source>IRIS-DMC</Source>
 <Sender>IRIS-DMC</Sender>
 <Created>2021-03-05T00:00:00.0000</Created>
 <Network code="IU" startDate="1988-01-01T00:00:00.0000" restrictedStatus="open">
  <Description>Global Seismograph Network - IRIS/USGS (GSN)</Description>
  <Station code="ANMO" startDate="2008-06-30T20:00:00.0000" restrictedStatus="open">
   <Latitude unit="DEGREES">34.945981</Latitude>
   <Longitude unit="DEGREES">-106.457133</Longitude>
   <Elevation>1671</Elevation>
   <Site>
    <Name>Albuquerque, New Mexico, USA</Name>
   </Site>
  </Station>
  <Station code="ANMO" startDate="2002-11-19T21:07:00.0000">
   <Latitude unit="DEGREES">34.94591</Latitude>
   <Longitude unit="DEGREES">-106.4572</Longitude>
   <Elevation>1820</Elevation>
   <Site>
    <Name>Albuquerque, New Mexico, USA</Name>
   </Site>
  </Station>
 </Network>
</FDSNStationXML>`

func TestStationLocation(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fdsnws/station/1/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		q := r.URL.Query()
		for k, v := range map[string]string{
			"network":   "IU",
			"station":   "ANMO",
			"level":     "station",
			"starttime": "2021-03-04T13:27:36",
		} {
			if q.Get(k) != v {
				t.Errorf("expected %s=%s got %s", k, v, q.Get(k))
			}
		}

		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(anmo))
	}))
	defer ts.Close()

	c := fdsn.NewClient(ts.URL, ts.Client(), fdsn.DefaultCacheBytes)

	p, err := c.StationLocation(context.Background(), "IU", "ANMO", start, start.Add(3600e9))
	if err != nil {
		t.Fatal(err)
	}

	if p.Latitude != 34.945981 {
		t.Errorf("expected latitude 34.945981 got %f", p.Latitude)
	}

	if p.Longitude != -106.457133 {
		t.Errorf("expected longitude -106.457133 got %f", p.Longitude)
	}

	if math.Abs(p.Elevation-1.671) > 1e-9 {
		t.Errorf("expected elevation 1.671 km got %f", p.Elevation)
	}
}

func TestStationLocationNoData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := fdsn.NewClient(ts.URL, ts.Client(), fdsn.DefaultCacheBytes)

	if _, err := c.StationLocation(context.Background(), "IU", "ANMO", start, start.Add(3600e9)); !errors.Is(err, fdsn.ErrNoData) {
		t.Errorf("expected ErrNoData got %v", err)
	}
}

func TestStationLocationInvalidCode(t *testing.T) {
	c := fdsn.NewClient("http://localhost", nil, fdsn.DefaultCacheBytes)

	if _, err := c.StationLocation(context.Background(), "IU", "AN*", start, start.Add(3600e9)); err == nil {
		t.Error("expected an error for a wildcard station code")
	}
}

func TestFirstStation(t *testing.T) {
	s, err := fdsn.FirstStation([]byte(anmo))
	if err != nil {
		t.Fatal(err)
	}

	if s.Code != "ANMO" || s.Site.Name != "Albuquerque, New Mexico, USA" {
		t.Errorf("unexpected station %s %s", s.Code, s.Site.Name)
	}

	if s.Elevation.Value != 1671 {
		t.Errorf("expected first station elevation 1671 got %f", s.Elevation.Value)
	}

	empty := `<FDSNStationXML xmlns="http://www.fdsn.org/xml/station/1" schemaVersion="1.1"><Source>test</Source><Created>2021-03-05T00:00:00</Created></FDSNStationXML>`

	if _, err := fdsn.FirstStation([]byte(empty)); !errors.Is(err, fdsn.ErrNoData) {
		t.Errorf("expected ErrNoData got %v", err)
	}

	if _, err := fdsn.FirstStation([]byte("not xml")); err == nil {
		t.Error("expected an error for invalid xml")
	}
}
