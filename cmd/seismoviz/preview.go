package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"

	"github.com/GeoNet/seismoviz/internal/app"
	"github.com/GeoNet/seismoviz/internal/signal"
)

var captions = []string{"north - south displacement (mm)", "east - west displacement (mm)", "up - down displacement (mm)"}

// preview writes terminal plots of the displacement and the travel time table to w.
func preview(w io.Writer, req app.Request, p app.Prepared) error {
	fmt.Fprintf(w, "%s.%s %.2f° (%.0f km) from %.3f %.3f depth %.1f km, %d Hz\n\n",
		req.Network, req.Station, p.Degrees, p.Kilometres, p.Quake.Latitude, p.Quake.Longitude, p.Quake.Depth, p.Rate)

	for i, d := range p.Displacement {
		if len(d) == 0 {
			continue
		}

		graph := asciigraph.Plot(d,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s %s", p.Traces[i].ID(), captions[i])),
		)
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "stream\tpeak displacement (mm)\tpeak velocity (m/s)")
	for i, d := range p.Displacement {
		v, err := signal.Differentiate(d, p.Rate)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3g\n", p.Traces[i].ID(), peak(d), peak(v))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "phase\tarrival (s)")
	for _, ph := range p.Table.Phases() {
		t, _ := p.Table.Arrival(ph)
		fmt.Fprintf(tw, "%s\t%.2f\n", ph, t)
	}

	return tw.Flush()
}

// peak is the largest absolute value in v.
func peak(v []float64) float64 {
	var p float64
	for _, x := range v {
		p = math.Max(p, math.Abs(x))
	}
	return p
}
