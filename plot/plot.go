package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-skysub/dsp/core"
	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/stats/clip"
)

const (
	defaultRange = 3.0
	grayLevels   = 256
)

// AutoX0 selects the middle frame column as the trace offset.
const AutoX0 = -1.0

// Options controls intensity scaling and labelling.
type Options struct {
	Clip  clip.Config // statistics used for the limits
	Range float64     // half-width of the display range in σ; <= 0 selects 3
	Title string
}

// DefaultOptions returns 3σ limits from default sigma clipping.
func DefaultOptions() Options {
	return Options{Clip: clip.DefaultConfig(), Range: defaultRange}
}

// Limits returns the display range of f.
func Limits(f *frame.Frame, opts Options) (lo, hi float64) {
	r := opts.Range
	if r <= 0 {
		r = defaultRange
	}
	st := clip.Calculate(f.Data(), opts.Clip)
	return st.Median - r*st.Std, st.Median + r*st.Std
}

// grayPalette is a black-to-white ramp.
type grayPalette int

func (n grayPalette) Colors() []color.Color {
	cs := make([]color.Color, n)
	for i := range cs {
		level := uint8(i * 255 / max(int(n)-1, 1))
		cs[i] = color.Gray{Y: level}
	}
	return cs
}

// frameGrid exposes a frame to plotter.HeatMap with pixel centres at integer
// coordinates, column along X and row along Y.
type frameGrid struct {
	f      *frame.Frame
	lo, hi float64
}

func (g frameGrid) Dims() (c, r int) { return g.f.Cols(), g.f.Rows() }
func (g frameGrid) X(c int) float64  { return float64(c) }
func (g frameGrid) Y(r int) float64  { return float64(r) }

// Z saturates values outside the display limits. NaN passes through.
func (g frameGrid) Z(c, r int) float64 {
	v := g.f.At(r, c)
	if math.IsNaN(v) {
		return v
	}
	return core.Clamp(v, g.lo, g.hi)
}

// heatMap builds the grayscale layer of f. A frame without spread gets a
// unit range centred on its level so it renders mid-gray.
func heatMap(f *frame.Frame, opts Options) *plotter.HeatMap {
	lo, hi := Limits(f, opts)
	if !(hi > lo) {
		mid := lo
		if !core.IsFinite(mid) {
			mid = 0
		}
		lo, hi = mid-0.5, mid+0.5
	}

	h := plotter.NewHeatMap(frameGrid{f: f, lo: lo, hi: hi}, grayPalette(grayLevels))
	h.Min, h.Max = lo, hi
	h.Underflow = color.Black
	h.Overflow = color.White
	h.NaN = color.Black
	h.Rasterized = f.Rows() > 1 && f.Cols() > 1
	return h
}

// Figure renders f as a grayscale heat map between its display limits.
func Figure(f *frame.Frame, opts Options) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "spectral pixel"
	p.Y.Label.Text = "spatial pixel"
	p.Add(heatMap(f, opts))
	return p
}

// TracePoints returns the overlay vertices: for every frame row y in
// [0, rows) the column int(Slope*y + x0). A negative x0 selects the middle
// column. Vertices outside [0, cols) are dropped.
func TracePoints(line fit.Line, rows, cols int, x0 float64) plotter.XYs {
	if x0 < 0 {
		x0 = float64(cols / 2)
	}

	pts := make(plotter.XYs, 0, rows)
	for y := range rows {
		x, ok := core.TruncIndex(line.Slope*float64(y) + x0)
		if !ok || x < 0 || x >= cols {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(x), Y: float64(y)})
	}
	return pts
}

// AddTrace overlays the slant line on p and returns the number of vertices
// drawn. Nothing is added when the line misses the frame.
func AddTrace(p *gplot.Plot, line fit.Line, rows, cols int, x0 float64, c color.Color) (int, error) {
	pts := TracePoints(line, rows, cols, x0)
	if len(pts) == 0 {
		return 0, nil
	}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return 0, fmt.Errorf("plot: trace: %w", err)
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)
	p.Add(l)
	return len(pts), nil
}

// WritePNG draws p on a width × height canvas and encodes it as PNG.
func WritePNG(w io.Writer, p *gplot.Plot, width, height vg.Length) error {
	c := vgimg.New(width, height)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("plot: encode png: %w", err)
	}
	return nil
}
