package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-skysub/dsp/core"
)

// ErrNoConvergence is returned when the data do not determine a line.
var ErrNoConvergence = errors.New("fit: least-squares fit did not converge")

// Line is the model y = Slope*x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// Eval returns the model value at x.
func (l Line) Eval(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Result holds a fitted line and its diagnostics.
type Result struct {
	Line
	N           int     // number of samples
	ResidualRMS float64 // root-mean-square of y - Eval(x)
}

// FitLine fits y = Slope*x + Intercept by ordinary least squares.
//
// It returns ErrNoConvergence when fewer than two samples are given, when all
// x are equal, or when the inputs contain non-finite values.
func FitLine(x, y []float64) (Result, error) {
	if len(x) != len(y) {
		return Result{}, fmt.Errorf("fit: x has %d samples, y has %d", len(x), len(y))
	}

	n := len(x)
	if n < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 samples, got %d", ErrNoConvergence, n)
	}

	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}

	nf := float64(n)
	meanX /= nf
	meanY /= nf

	var sxx, sxy float64
	for i := range x {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}

	if sxx == 0 || !core.IsFinite(sxx) {
		return Result{}, fmt.Errorf("%w: x has no spread", ErrNoConvergence)
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanX
	if !core.IsFinite(slope) || !core.IsFinite(intercept) {
		return Result{}, fmt.Errorf("%w: non-finite parameters", ErrNoConvergence)
	}

	line := Line{Slope: slope, Intercept: intercept}

	var ss float64
	for i := range x {
		r := y[i] - line.Eval(x[i])
		ss += r * r
	}

	return Result{
		Line:        line,
		N:           n,
		ResidualRMS: math.Sqrt(ss / nf),
	}, nil
}

// FitIndexed fits y against its own indices 0..len(y)-1.
func FitIndexed(y []float64) (Result, error) {
	x := make([]float64, len(y))
	for i := range x {
		x[i] = float64(i)
	}
	return FitLine(x, y)
}
