package signal_test

import (
	"errors"
	"math"
	"testing"

	"github.com/GeoNet/seismoviz/internal/signal"
)

const tolerance = 1e-9

func sine(n, rate int, freq, amp float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = amp * math.Sin(2.0*math.Pi*freq*float64(i)/float64(rate))
	}
	return s
}

func TestProcessInvalidRate(t *testing.T) {
	for _, r := range []int{0, -1, -40} {
		if _, err := signal.Process([]float64{1, 2, 3}, r); !errors.Is(err, signal.ErrInvalidSampleRate) {
			t.Errorf("rate %d: expected ErrInvalidSampleRate got %v", r, err)
		}
	}

	if _, err := signal.Differentiate([]float64{1, 2}, 0); !errors.Is(err, signal.ErrInvalidSampleRate) {
		t.Errorf("expected ErrInvalidSampleRate got %v", err)
	}
}

func TestProcessEmpty(t *testing.T) {
	d, err := signal.Process([]float64{}, 40)
	if err != nil {
		t.Fatal(err)
	}

	if d == nil || len(d) != 0 {
		t.Errorf("expected empty non nil result got %v", d)
	}
}

func TestDetrendDemeanZero(t *testing.T) {
	in := [][]float64{
		{},
		{3.2},
		{7, 7, 7, 7, 7, 7},
		{-1.5, -1.5, -1.5},
		{1, 2, 3, 4, 5}, // a straight line detrends to zero too.
	}

	for _, v := range in {
		d := signal.Demean(signal.Detrend(v))
		if len(d) != len(v) {
			t.Errorf("%v: expected length %d got %d", v, len(v), len(d))
		}
		for i := range d {
			if math.Abs(d[i]) > tolerance {
				t.Errorf("%v: expected 0 at %d got %g", v, i, d[i])
			}
		}
	}
}

func TestProcessConstant(t *testing.T) {
	d, err := signal.Process([]float64{5, 5, 5, 5, 5, 5, 5, 5}, 20)
	if err != nil {
		t.Fatal(err)
	}

	for i, v := range d {
		if math.Abs(v) > tolerance {
			t.Errorf("expected 0 at %d got %g", i, v)
		}
	}
}

func TestProcessDoesNotModifyInput(t *testing.T) {
	in := []float64{1, 4, 2, 8, 5, 7}
	cp := append([]float64(nil), in...)

	if _, err := signal.Process(in, 10); err != nil {
		t.Fatal(err)
	}

	for i := range in {
		if in[i] != cp[i] {
			t.Fatalf("input modified at %d: %g != %g", i, in[i], cp[i])
		}
	}
}

func TestDetrend(t *testing.T) {
	in := make([]float64, 101)
	odd := make([]float64, 101)
	for i := range in {
		odd[i] = math.Pow(float64(i-50), 3) * 1e-4
		in[i] = 3.0 + 0.5*float64(i) + odd[i]
	}

	line := make([]float64, 101)
	for i := range line {
		line[i] = 3.0 + 0.5*float64(i)
	}

	d := signal.Detrend(line)
	for i, v := range d {
		if math.Abs(v) > 1e-9 {
			t.Errorf("expected 0 at %d got %g", i, v)
		}
	}

	// least-squares residuals have zero mean and zero slope.
	d = signal.Detrend(in)
	var sum, slope float64
	for i, v := range d {
		sum += v
		slope += v * float64(i-50)
	}
	if math.Abs(sum) > 1e-6 || math.Abs(slope) > 1e-6 {
		t.Errorf("expected zero mean and slope residual, got sum %g slope %g", sum, slope)
	}
}

func TestCumTrapz(t *testing.T) {
	d := signal.CumTrapz([]float64{1, 2, 3, 4}, 0.5)
	exp := []float64{0, 0.75, 2.0, 3.75}

	if len(d) != len(exp) {
		t.Fatalf("expected length %d got %d", len(exp), len(d))
	}

	for i := range exp {
		if math.Abs(d[i]-exp[i]) > tolerance {
			t.Errorf("%d: expected %g got %g", i, exp[i], d[i])
		}
	}

	if len(signal.CumTrapz(nil, 1)) != 0 {
		t.Error("expected empty integral for empty input")
	}
}

func TestCumTrapzLinear(t *testing.T) {
	a := sine(400, 40, 0.7, 2.0)
	b := sine(400, 40, 2.3, 0.3)
	sum := make([]float64, len(a))
	for i := range a {
		sum[i] = a[i] + 3*b[i]
	}

	ia := signal.CumTrapz(a, 1.0/40)
	ib := signal.CumTrapz(b, 1.0/40)
	is := signal.CumTrapz(sum, 1.0/40)

	for i := range is {
		if e := ia[i] + 3*ib[i]; math.Abs(is[i]-e) > tolerance {
			t.Errorf("%d: expected %g got %g", i, e, is[i])
		}
	}
}

func TestProcessLinear(t *testing.T) {
	a := sine(500, 50, 1.1, 1e-3)
	b := make([]float64, 500)
	for i := range b {
		b[i] = 2e-4*float64(i%17) - 1e-5*float64(i)
	}
	sum := make([]float64, len(a))
	for i := range a {
		sum[i] = a[i] + b[i]
	}

	pa, err := signal.Process(a, 50)
	if err != nil {
		t.Fatal(err)
	}
	pb, err := signal.Process(b, 50)
	if err != nil {
		t.Fatal(err)
	}
	ps, err := signal.Process(sum, 50)
	if err != nil {
		t.Fatal(err)
	}

	for i := range ps {
		if e := pa[i] + pb[i]; math.Abs(ps[i]-e) > 1e-9 {
			t.Errorf("%d: expected %g got %g", i, e, ps[i])
		}
	}
}

func TestProcessRoundTrip(t *testing.T) {
	const rate = 100

	in := sine(1000, rate, 0.5, 1.0)
	for i := range in {
		in[i] += 0.001 * float64(i)
	}

	disp, err := signal.Process(in, rate)
	if err != nil {
		t.Fatal(err)
	}

	if len(disp) != len(in) {
		t.Fatalf("expected length %d got %d", len(in), len(disp))
	}

	if disp[0] != 0 {
		t.Errorf("expected integration baseline 0 got %g", disp[0])
	}

	vel, err := signal.Differentiate(disp, rate)
	if err != nil {
		t.Fatal(err)
	}

	ref := signal.Demean(signal.Detrend(in))

	for i := 1; i < len(vel); i++ {
		if math.Abs(vel[i]-ref[i]) > 0.02 {
			t.Errorf("%d: expected %g got %g", i, ref[i], vel[i])
		}
	}
}
