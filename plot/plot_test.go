package plot

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/internal/testutil"
)

func TestLimits(t *testing.T) {
	f, err := frame.FromRows([][]float64{{1, 2, 3}, {1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}

	lo, hi := Limits(f, Options{Range: 1})
	std := math.Sqrt(2.0 / 3.0)
	if math.Abs(lo-(2-std)) > 1e-12 || math.Abs(hi-(2+std)) > 1e-12 {
		t.Fatalf("Limits = %v, %v; want %v, %v", lo, hi, 2-std, 2+std)
	}
}

func TestGrayPalette(t *testing.T) {
	cs := grayPalette(grayLevels).Colors()
	if len(cs) != 256 {
		t.Fatalf("len = %d, want 256", len(cs))
	}
	if cs[0] != (color.Gray{Y: 0}) || cs[128] != (color.Gray{Y: 128}) || cs[255] != (color.Gray{Y: 255}) {
		t.Fatalf("ramp = %v %v %v", cs[0], cs[128], cs[255])
	}
}

func TestHeatMapOrientationAndSaturation(t *testing.T) {
	f := testutil.ConstantFrame(10, 20, 100)
	testutil.AddNoise(f, 1, 1)
	f.Set(0, 3, 1e6)  // bottom row
	f.Set(9, 5, -1e6) // top row
	f.Set(4, 4, math.NaN())

	h := heatMap(f, DefaultOptions())
	if c, r := h.GridXYZ.Dims(); c != 20 || r != 10 {
		t.Fatalf("Dims = %d, %d; want 20, 10", c, r)
	}
	if h.GridXYZ.X(3) != 3 || h.GridXYZ.Y(9) != 9 {
		t.Fatalf("pixel centres not at integer coordinates")
	}
	if !(h.Min < 100 && h.Max > 100) {
		t.Fatalf("range [%v, %v] excludes the background", h.Min, h.Max)
	}

	if got := h.GridXYZ.Z(3, 0); got != h.Max {
		t.Fatalf("bright pixel = %v, want saturated at %v", got, h.Max)
	}
	if got := h.GridXYZ.Z(5, 9); got != h.Min {
		t.Fatalf("dark pixel = %v, want saturated at %v", got, h.Min)
	}
	if got := h.GridXYZ.Z(4, 4); !math.IsNaN(got) {
		t.Fatalf("NaN pixel = %v, want NaN", got)
	}
	if got, want := h.GridXYZ.Z(10, 5), f.At(5, 10); got != want {
		t.Fatalf("background pixel = %v, want %v", got, want)
	}
	if h.NaN != color.Black {
		t.Fatalf("NaN colour = %v, want black", h.NaN)
	}
}

func TestHeatMapFlatFrame(t *testing.T) {
	f := testutil.ConstantFrame(3, 3, 7)

	h := heatMap(f, Options{})
	if h.Min != 6.5 || h.Max != 7.5 {
		t.Fatalf("range = [%v, %v], want [6.5, 7.5]", h.Min, h.Max)
	}

	// Palette index as the heat map computes it.
	idx := int((h.GridXYZ.Z(1, 1)-h.Min)*float64(grayLevels-1)/(h.Max-h.Min) + 0.5)
	if idx != 128 {
		t.Fatalf("palette index = %d, want 128", idx)
	}
}

func TestTracePoints(t *testing.T) {
	pts := TracePoints(fit.Line{Slope: 1}, 10, 20, 4)
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10", len(pts))
	}
	for y, p := range pts {
		if p.X != float64(4+y) || p.Y != float64(y) {
			t.Fatalf("vertex %d = %v, want (%d, %d)", y, p, 4+y, y)
		}
	}

	// Default offset is the middle column; vertices past the edge are dropped.
	pts = TracePoints(fit.Line{Slope: 2}, 10, 20, AutoX0)
	if len(pts) != 5 {
		t.Fatalf("len = %d, want 5", len(pts))
	}
	if pts[0] != (plotter.XY{X: 10, Y: 0}) || pts[4] != (plotter.XY{X: 18, Y: 4}) {
		t.Fatalf("vertices = %v", pts)
	}

	// Truncation toward zero, as in linearization.
	pts = TracePoints(fit.Line{Slope: 0.5}, 4, 20, 3)
	want := []float64{3, 3, 4, 4}
	for i, p := range pts {
		if p.X != want[i] {
			t.Fatalf("vertex %d x = %v, want %v", i, p.X, want[i])
		}
	}
}

func TestAddTrace(t *testing.T) {
	f := testutil.ConstantFrame(10, 20, 0)
	p := Figure(f, DefaultOptions())

	n, err := AddTrace(p, fit.Line{Slope: 1}, f.Rows(), f.Cols(), 4, color.RGBA{B: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("vertices = %d, want 10", n)
	}

	n, err = AddTrace(p, fit.Line{Slope: 1}, f.Rows(), f.Cols(), 100, color.Black)
	if err != nil || n != 0 {
		t.Fatalf("off-frame trace = %d, %v; want 0, nil", n, err)
	}
}

func TestWritePNG(t *testing.T) {
	f := testutil.RampFrame(4, 8)
	p := Figure(f, Options{Title: "ramp"})
	if _, err := AddTrace(p, fit.Line{Slope: 1}, f.Rows(), f.Cols(), 1, color.White); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, p, 4*vg.Inch, 2*vg.Inch); err != nil {
		t.Fatal(err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	b := decoded.Bounds()
	if b.Dx() <= b.Dy() || b.Dy() == 0 {
		t.Fatalf("bounds = %v, want a landscape image", b)
	}
}
