package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/internal/catalog"
	"github.com/cwbudde/algo-skysub/reduce/extract"
)

func TestRuns(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 2)

	err := p.Runs([]catalog.Run{
		{Exposure: "a.csv", Status: catalog.StatusOK, Slope: 0.25, Intercept: 12, TraceRows: 3, Duration: 1200 * time.Millisecond, Output: "out/a.csv"},
		{Exposure: "b.csv", Status: catalog.StatusFailed, Error: "no sky rows"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "a.csv")
	assert.Contains(t, out, "0.25")
	assert.Contains(t, out, "12.00")
	assert.Contains(t, out, "out/a.csv")
	assert.Contains(t, out, "no sky rows")
	assert.Contains(t, out, "2 exposures, 1 failed")
	assert.NotContains(t, out, "\x1b[", "colour disabled")
}

func TestStatusLabel(t *testing.T) {
	plain := NewPrinter(&bytes.Buffer{}, false, 2)
	assert.Equal(t, "ok", plain.StatusLabel(catalog.StatusOK))
	assert.Equal(t, "failed", plain.StatusLabel(catalog.StatusFailed))

	coloured := NewPrinter(&bytes.Buffer{}, true, 2)
	assert.Contains(t, coloured.StatusLabel(catalog.StatusFailed), "failed")
}

func TestFit(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 3)

	require.NoError(t, p.Fit(fit.Result{Line: fit.Line{Slope: 1.5, Intercept: -2}, N: 40, ResidualRMS: 0.01}))

	out := buf.String()
	assert.Contains(t, out, "1.500")
	assert.Contains(t, out, "-2.000")
	assert.Contains(t, out, "40")
	assert.Contains(t, out, "0.010")
}

func TestSpectrum(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, 1)

	spec := extract.Spectrum{Pixels: []int{0, 1, 2}, Flux: []float64{1, 2, 3.5}}
	require.NoError(t, p.Spectrum(spec, 2))

	out := buf.String()
	assert.Contains(t, out, "2.0")
	assert.NotContains(t, out, "3.5", "limited to two pixels")
	assert.Contains(t, out, "3 pixels, total flux 6.5")
}

func TestCleaned(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(&buf, false, -1).Cleaned("a.csv", 3, 2))
	assert.Equal(t, "a.csv: 3 cosmic-ray pixels in 2 iterations\n", buf.String())
}
