package extract

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-skysub/dsp/frame"
)

// Spectrum is a one-dimensional spectrum: Flux[i] is the summed signal at
// spectral pixel Pixels[i].
type Spectrum struct {
	Pixels []int
	Flux   []float64
}

// Len returns the number of spectral pixels.
func (s Spectrum) Len() int {
	return len(s.Flux)
}

// Extractor sums a fixed row window of a frame.
type Extractor struct {
	frame  *frame.Frame
	window frame.Window
}

// New returns an extractor for rows [w.Min, w.Max) of f. The window is
// checked by ExtractTrace.
func New(f *frame.Frame, w frame.Window) *Extractor {
	return &Extractor{frame: f, window: w}
}

// Window returns the summed row window.
func (e *Extractor) Window() frame.Window {
	return e.window
}

// ExtractTrace sums the window rows at every column. It returns an error
// wrapping frame.ErrOutOfBounds when the window does not fit the frame.
func (e *Extractor) ExtractTrace() (Spectrum, error) {
	if e.frame == nil {
		return Spectrum{}, fmt.Errorf("extract: nil frame: %w", frame.ErrShape)
	}
	if err := e.window.Validate(e.frame.Rows()); err != nil {
		return Spectrum{}, fmt.Errorf("extract: trace window: %w", err)
	}

	cols := e.frame.Cols()
	spec := Spectrum{
		Pixels: make([]int, cols),
		Flux:   make([]float64, cols),
	}
	for c := range spec.Pixels {
		spec.Pixels[c] = c
	}

	for r := e.window.Min; r < e.window.Max; r++ {
		vecmath.AddBlockInPlace(spec.Flux, e.frame.Row(r))
	}

	return spec, nil
}
