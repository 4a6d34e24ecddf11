package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-skysub/dsp/frame"
)

// DeterministicNoise generates uniform noise in [-amplitude, amplitude] with a
// fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// ConstantFrame returns a rows x cols frame filled with value.
func ConstantFrame(rows, cols int, value float64) *frame.Frame {
	f := frame.New(rows, cols)
	for i := range f.Data() {
		f.Data()[i] = value
	}
	return f
}

// RampFrame returns a frame whose pixel (r, c) equals c.
func RampFrame(rows, cols int) *frame.Frame {
	f := frame.New(rows, cols)
	for r := range rows {
		row := f.Row(r)
		for c := range row {
			row[c] = float64(c)
		}
	}
	return f
}

// SkyLine describes a synthetic frame with one slanted emission line on a
// flat background. The line occupies column round(Slope*row + Intercept) in
// every row.
type SkyLine struct {
	Rows       int
	Cols       int
	Slope      float64
	Intercept  float64
	Peak       float64
	Background float64
}

// Frame renders the sky line. Rows where the line falls outside the frame
// contain only background.
func (s SkyLine) Frame() *frame.Frame {
	f := ConstantFrame(s.Rows, s.Cols, s.Background)
	for r := range s.Rows {
		c := int(math.Round(s.Slope*float64(r) + s.Intercept))
		if c >= 0 && c < s.Cols {
			f.Set(r, c, s.Background+s.Peak)
		}
	}
	return f
}

// AddRows adds value to every pixel of the rows selected by w.
func AddRows(f *frame.Frame, w frame.Window, value float64) {
	for r := w.Min; r < w.Max; r++ {
		row := f.Row(r)
		for c := range row {
			row[c] += value
		}
	}
}

// AddNoise adds deterministic uniform noise to every pixel.
func AddNoise(f *frame.Frame, seed int64, amplitude float64) {
	noise := DeterministicNoise(seed, amplitude, len(f.Data()))
	for i, v := range noise {
		f.Data()[i] += v
	}
}
