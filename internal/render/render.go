package render

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/GeoNet/seismoviz/internal/config"
	"github.com/GeoNet/seismoviz/internal/traveltime"
)

// FramePattern is the file name for frame images, with the frame index.
const FramePattern = "frame%06d.png"

// dpi for frame images.  Width and height in pixels are converted to canvas lengths with this.
const dpi = 96

// the seismogram is drawn with at most this many min/max pairs per pixel column.
const pointsPerPixel = 2

var (
	black = color.NRGBA{A: 255}
	grey  = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	red   = color.NRGBA{R: 220, A: 255}
)

var components = []string{"North - South", "East - West", "Up - Down"}

// Renderer draws frames for one station and earthquake.
type Renderer struct {
	cfg     config.Render
	series  Series
	table   traveltime.Table
	station string
	degrees float64
	km      float64

	offset, limit, scale float64
	traces               [3]plotter.XYs
}

// Station describes the recording station for the text panel.
type Station struct {
	Code       string
	Degrees    float64 // epicentral distance.
	Kilometres float64
}

// NewRenderer returns a Renderer for s.  table holds the phase arrivals to mark.
func NewRenderer(cfg config.Render, s Series, table traveltime.Table, st Station) *Renderer {
	r := &Renderer{
		cfg:     cfg,
		series:  s,
		table:   table,
		station: st.Code,
		degrees: st.Degrees,
		km:      st.Kilometres,
		offset:  s.Offset(),
		limit:   s.AxisLimit(),
	}

	r.scale = OrderOfMagnitude(r.offset)

	n := cfg.Width * pointsPerPixel
	for i, c := range [][]float64{s.N, s.E, s.Z} {
		r.traces[i] = decimate(s.Time, c, float64(i)*r.offset, n)
	}

	return r
}

// Image draws f onto a new image canvas.
func (r *Renderer) Image(f Frame) (*vgimg.Canvas, error) {
	w := vg.Length(r.cfg.Width) * vg.Inch / dpi
	h := vg.Length(r.cfg.Height) * vg.Inch / dpi

	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))

	if err := r.Draw(draw.New(c), f); err != nil {
		return nil, err
	}

	return c, nil
}

// WriteFrame draws f and saves it as a PNG in dir.  The file path is returned.
func (r *Renderer) WriteFrame(dir string, f Frame) (string, error) {
	c, err := r.Image(f)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf(FramePattern, f.Index))

	fi, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(fi); err != nil {
		fi.Close()
		return "", err
	}

	return path, fi.Close()
}

/*
Draw draws f onto dc:

	+---------------------------+
	|           title           |
	+-------------+-------------+
	|  3D motion  |    text     |
	+-------------+-------------+
	|        seismograms        |
	+---------------------------+
*/
func (r *Renderer) Draw(dc draw.Canvas, f Frame) error {
	lo, hi := dc.Min, dc.Max
	w, h := hi.X-lo.X, hi.Y-lo.Y

	title := lo.Y + 0.93*h
	middle := lo.Y + 0.5*h
	centre := lo.X + 0.5*w

	motion, err := r.motion(f)
	if err != nil {
		return err
	}
	motion.Draw(sub(dc, lo.X, middle, centre, title))

	r.info(sub(dc, centre, middle, hi.X, title), f)

	seis, err := r.seismogram(f)
	if err != nil {
		return err
	}
	seis.Draw(sub(dc, lo.X, lo.Y+0.04*h, hi.X, middle))

	sty := r.style(r.cfg.LabelSize + 5)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter
	dc.FillText(sty, vg.Point{X: centre, Y: lo.Y + 0.965*h}, fmt.Sprintf("%d Seconds After Earthquake", f.Index))

	sty = r.style(r.cfg.LabelSize - 4)
	dc.FillText(sty, vg.Point{X: lo.X + 0.02*w, Y: lo.Y + 0.01*h}, r.cfg.Tagline)

	return nil
}

// motion is the rotating 3D particle motion panel.
func (r *Renderer) motion(f Frame) (*plot.Plot, error) {
	p := plot.New()
	p.HideAxes()

	lim := r.limit
	if lim <= 0 {
		lim = 1
	}

	// projected cube corners are within sqrt(3) limits of the centre.
	ext := lim * math.Sqrt(3)
	p.X.Min, p.X.Max = -ext, ext
	p.Y.Min, p.Y.Max = -ext, ext

	az, el := f.Azimuth, r.cfg.Elevation

	line := func(a, b Vec3, c color.Color, width vg.Length) error {
		ua, va := Project(a, az, el)
		ub, vb := Project(b, az, el)

		l, err := plotter.NewLine(plotter.XYs{{X: ua, Y: va}, {X: ub, Y: vb}})
		if err != nil {
			return err
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = width
		p.Add(l)

		return nil
	}

	for _, e := range cubeEdges(lim) {
		if err := line(e[0], e[1], grey, vg.Points(0.5)); err != nil {
			return nil, err
		}
	}

	if len(f.Trail) == 0 {
		return p, nil
	}

	// shadows on the back walls and the floor.
	walls := []func(Vec3) Vec3{
		func(v Vec3) Vec3 { return Vec3{X: -lim, Y: v.Y, Z: v.Z} },
		func(v Vec3) Vec3 { return Vec3{X: v.X, Y: lim, Z: v.Z} },
		func(v Vec3) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: -lim} },
	}

	for _, wall := range walls {
		s, err := plotter.NewScatter(projectAll(f.Trail, wall, az, el))
		if err != nil {
			return nil, err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: black, Radius: vg.Points(1.5), Shape: draw.CircleGlyph{}}
		p.Add(s)
	}

	newest := f.Trail[len(f.Trail)-1]
	for _, wall := range walls {
		if err := line(wall(newest), newest, black, vg.Points(1)); err != nil {
			return nil, err
		}
	}

	s, err := plotter.NewScatter(projectAll(f.Trail, nil, az, el))
	if err != nil {
		return nil, err
	}

	ramp := colours(len(f.Trail))
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: ramp[i], Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
	}
	p.Add(s)

	return p, nil
}

// seismogram is the stacked three component plot with time and phase markers.
func (r *Renderer) seismogram(f Frame) (*plot.Plot, error) {
	s := r.series

	p := plot.New()
	p.HideY()
	p.X.Label.Text = "Seconds Since Earthquake"
	p.X.Label.TextStyle.Font.Size = vg.Points(r.cfg.LabelSize)
	p.X.Tick.Label.Font.Size = vg.Points(r.cfg.TickSize)

	tMin, tMax := s.Time[0], s.Time[len(s.Time)-1]
	nMin := floats.Min(s.N)
	zMax := floats.Max(s.Z)

	p.X.Min, p.X.Max = tMin, tMax
	p.Y.Min, p.Y.Max = nMin*1.3, zMax+2.3*r.offset
	if p.Y.Max <= p.Y.Min {
		p.Y.Min, p.Y.Max = p.Y.Min-1, p.Y.Min+1
	}

	for _, xy := range r.traces {
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = black
		p.Add(l)
	}

	// scale bar
	x := 0.03 * tMax
	bar, err := plotter.NewLine(plotter.XYs{{X: x, Y: nMin}, {X: x, Y: nMin + r.scale}})
	if err != nil {
		return nil, err
	}
	bar.LineStyle.Color = black
	bar.LineStyle.Width = vg.Points(2)
	p.Add(bar)

	labels := plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0.04 * tMax, Y: nMin + 0.35*r.scale}},
		Labels: []string{fmt.Sprintf("%.2f mm", r.scale)},
	}

	for i, c := range components {
		labels.XYs = append(labels.XYs, plotter.XY{X: 0.8 * tMax, Y: 0.2*r.scale + float64(i)*r.offset})
		labels.Labels = append(labels.Labels, c)
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(r.cfg.LabelSize - 2)
	}
	l.TextStyle[0].Font.Size = vg.Points(r.cfg.LabelSize - 4)
	p.Add(l)

	// time marker
	t := float64(f.Index)
	marker, err := plotter.NewLine(plotter.XYs{{X: t, Y: p.Y.Min}, {X: t, Y: p.Y.Max}})
	if err != nil {
		return nil, err
	}
	marker.LineStyle.Color = red
	p.Add(marker)

	phases, err := r.phases(t, zMax+2.05*r.offset)
	if err != nil {
		return nil, err
	}
	if phases != nil {
		p.Add(phases)
	}

	return p, nil
}

// phases returns the phase labels at height y for elapsed time t or nil if there are none to mark.
func (r *Renderer) phases(t, y float64) (*plotter.Labels, error) {
	var labels plotter.XYLabels
	var alpha []float64

	for _, ph := range r.cfg.Phases {
		m, ok := traveltime.Mark(t, ph, r.table, r.cfg.PhaseAlpha)
		if !ok {
			continue
		}

		labels.XYs = append(labels.XYs, plotter.XY{X: m.Time, Y: y})
		labels.Labels = append(labels.Labels, m.Phase)
		alpha = append(alpha, m.Alpha)
	}

	if len(labels.Labels) == 0 {
		return nil, nil
	}

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}

	for i := range l.TextStyle {
		l.TextStyle[i].Font.Size = vg.Points(r.cfg.LabelSize + 6)
		l.TextStyle[i].Color = color.NRGBA{A: uint8(math.Round(alpha[i] * 255))}
	}

	return l, nil
}

// info is the station and current displacement panel.
func (r *Renderer) info(c draw.Canvas, f Frame) {
	var now Vec3
	if len(f.Trail) > 0 {
		now = f.Trail[len(f.Trail)-1]
	}

	lines := []string{
		fmt.Sprintf("Station: %s", r.station),
		fmt.Sprintf("Distance: %.2f° (%.0f km)", r.degrees, r.km),
		fmt.Sprintf("North-South Disp:  %6.2f", now.X),
		fmt.Sprintf("East-West Disp:    %6.2f", now.Y),
		fmt.Sprintf("Up-Down Disp:      %6.2f", now.Z),
	}

	sty := r.style(r.cfg.LabelSize - 2)

	h := c.Max.Y - c.Min.Y
	for i, l := range lines {
		c.FillText(sty, vg.Point{X: c.Min.X, Y: c.Min.Y + h*(0.9-0.08*vg.Length(i))}, l)
	}
}

// style returns the default plot text style at size points.
func (r *Renderer) style(size float64) text.Style {
	sty := plot.New().Title.TextStyle
	sty.Font.Size = vg.Points(size)
	sty.Color = black
	sty.XAlign = text.XLeft
	sty.YAlign = text.YBottom

	return sty
}

func sub(dc draw.Canvas, x0, y0, x1, y1 vg.Length) draw.Canvas {
	return draw.Canvas{
		Canvas:    dc.Canvas,
		Rectangle: vg.Rectangle{Min: vg.Point{X: x0, Y: y0}, Max: vg.Point{X: x1, Y: y1}},
	}
}

func projectAll(v []Vec3, f func(Vec3) Vec3, az, el float64) plotter.XYs {
	xy := make(plotter.XYs, len(v))

	for i, p := range v {
		if f != nil {
			p = f(p)
		}
		xy[i].X, xy[i].Y = Project(p, az, el)
	}

	return xy
}

// cubeEdges returns the 12 edges of the cube with half width l.
func cubeEdges(l float64) [][2]Vec3 {
	var corners []Vec3
	for _, x := range []float64{-l, l} {
		for _, y := range []float64{-l, l} {
			for _, z := range []float64{-l, l} {
				corners = append(corners, Vec3{X: x, Y: y, Z: z})
			}
		}
	}

	var edges [][2]Vec3
	for i := range corners {
		for j := i + 1; j < len(corners); j++ {
			a, b := corners[i], corners[j]
			same := 0
			if a.X == b.X {
				same++
			}
			if a.Y == b.Y {
				same++
			}
			if a.Z == b.Z {
				same++
			}
			if same == 2 {
				edges = append(edges, [2]Vec3{a, b})
			}
		}
	}

	return edges
}

// colours returns n colours along a ramp, oldest to newest.
func colours(n int) []color.Color {
	if n < 1 {
		return nil
	}

	c := palette.Heat(max(n, 3), 1).Colors()

	out := make([]color.Color, n)
	for i := range out {
		j := 0
		if n > 1 {
			j = i * (len(c) - 1) / (n - 1)
		}
		out[i] = c[j]
	}

	return out
}

/*
decimate returns x, y+offset with at most n points.  Longer series are reduced to the
min and max of y in each of n/2 buckets so peaks survive at any frame width.
*/
func decimate(x, y []float64, offset float64, n int) plotter.XYs {
	if n < 2 || len(y) <= n {
		xy := make(plotter.XYs, len(y))
		for i := range y {
			xy[i] = plotter.XY{X: x[i], Y: y[i] + offset}
		}
		return xy
	}

	buckets := n / 2
	xy := make(plotter.XYs, 0, buckets*2)

	for b := 0; b < buckets; b++ {
		lo := b * len(y) / buckets
		hi := (b + 1) * len(y) / buckets
		if hi <= lo {
			continue
		}

		iMin, iMax := lo, lo
		for i := lo; i < hi; i++ {
			if y[i] < y[iMin] {
				iMin = i
			}
			if y[i] > y[iMax] {
				iMax = i
			}
		}

		first, second := iMin, iMax
		if second < first {
			first, second = second, first
		}

		xy = append(xy, plotter.XY{X: x[first], Y: y[first] + offset})
		if second != first {
			xy = append(xy, plotter.XY{X: x[second], Y: y[second] + offset})
		}
	}

	return xy
}
