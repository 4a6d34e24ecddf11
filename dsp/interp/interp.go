package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Errors returned by interpolation functions.
var (
	ErrEmptyInput     = errors.New("interp: no sample points")
	ErrLengthMismatch = errors.New("interp: coordinates and values must have same length")
	ErrNotMonotonic   = errors.New("interp: sample coordinates must be strictly increasing")
)

// Linear2 interpolates between x0 and x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// Linear evaluates the piecewise-linear interpolant through (xp, fp) at each
// coordinate in x. Coordinates left of xp[0] return fp[0] and coordinates
// right of the last sample return the last value. NaN coordinates yield NaN.
func Linear(x, xp, fp []float64) ([]float64, error) {
	out := make([]float64, len(x))
	if err := LinearInto(out, x, xp, fp); err != nil {
		return nil, err
	}
	return out, nil
}

// LinearInto is like [Linear] but writes into dst, which must have len(x).
func LinearInto(dst, x, xp, fp []float64) error {
	if err := validate(xp, fp); err != nil {
		return err
	}
	if len(dst) != len(x) {
		return fmt.Errorf("%w: dst %d, x %d", ErrLengthMismatch, len(dst), len(x))
	}

	last := len(xp) - 1
	for i, xi := range x {
		switch {
		case math.IsNaN(xi):
			dst[i] = math.NaN()
		case xi <= xp[0]:
			dst[i] = fp[0]
		case xi >= xp[last]:
			dst[i] = fp[last]
		default:
			j := sort.SearchFloat64s(xp, xi)
			if xp[j] == xi {
				dst[i] = fp[j]
				continue
			}
			t := (xi - xp[j-1]) / (xp[j] - xp[j-1])
			dst[i] = Linear2(t, fp[j-1], fp[j])
		}
	}

	return nil
}

func validate(xp, fp []float64) error {
	if len(xp) == 0 {
		return ErrEmptyInput
	}
	if len(xp) != len(fp) {
		return fmt.Errorf("%w: xp %d, fp %d", ErrLengthMismatch, len(xp), len(fp))
	}
	for i := 1; i < len(xp); i++ {
		if !(xp[i] > xp[i-1]) {
			return fmt.Errorf("%w: xp[%d]=%v after xp[%d]=%v", ErrNotMonotonic, i, xp[i], i-1, xp[i-1])
		}
	}
	return nil
}
