package testutil

import (
	"math"
	"testing"
)

func TestRequireFrameNearlyEqualPasses(t *testing.T) {
	a := ConstantFrame(2, 3, 1)
	b := ConstantFrame(2, 3, 1+1e-12)
	RequireFrameNearlyEqual(t, a, b, 1e-9)
}

func TestRequireSliceNearlyEqualPasses(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, math.NaN()}, []float64{1 + 1e-13, math.NaN()}, 1e-12)
}
