package render

import (
	"image/color"
	"testing"

	"github.com/GeoNet/seismoviz/internal/config"
	"github.com/GeoNet/seismoviz/internal/traveltime"
)

func TestPhaseLabels(t *testing.T) {
	cfg := config.Default().Render
	cfg.Phases = []string{"P", "S", "X"}
	cfg.PhaseAlpha = 0.2

	n := make([]float64, 201)
	for i := range n {
		n[i] = float64(i % 7)
	}

	s, err := NewSeries(n, n, n, 20, cfg.Trail)
	if err != nil {
		t.Fatal(err)
	}

	// S and X are not in the table so are not marked.
	r := NewRenderer(cfg, s, traveltime.Table{"P": 5, "PKiKP": 7}, Station{Code: "ANMO"})

	in := []struct {
		t     float64
		alpha uint8
	}{
		{t: 4, alpha: 51},
		{t: 5, alpha: 255},
		{t: 9, alpha: 255},
	}

	for _, v := range in {
		l, err := r.phases(v.t, 3)
		if err != nil {
			t.Fatal(err)
		}

		if l == nil {
			t.Fatalf("t %g: expected a label", v.t)
		}

		if len(l.Labels) != 1 || l.Labels[0] != "P" {
			t.Errorf("t %g: expected label P got %v", v.t, l.Labels)
		}

		if l.XYs[0].X != 5 || l.XYs[0].Y != 3 {
			t.Errorf("t %g: expected label at 5,3 got %v", v.t, l.XYs[0])
		}

		c, ok := l.TextStyle[0].Color.(color.NRGBA)
		if !ok {
			t.Fatalf("t %g: unexpected colour type %T", v.t, l.TextStyle[0].Color)
		}

		if c.A != v.alpha {
			t.Errorf("t %g: expected alpha %d got %d", v.t, v.alpha, c.A)
		}
	}

	r = NewRenderer(cfg, s, traveltime.Table{"PKiKP": 7}, Station{Code: "ANMO"})

	l, err := r.phases(10, 3)
	if err != nil {
		t.Fatal(err)
	}

	if l != nil {
		t.Errorf("expected no labels got %v", l.Labels)
	}
}
