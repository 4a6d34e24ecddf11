package testutil

import (
	"testing"

	"github.com/cwbudde/algo-skysub/dsp/core"
	"github.com/cwbudde/algo-skysub/dsp/frame"
)

// RequireSliceNearlyEqual fails t on a length mismatch or on the first
// element that is not core.NearlyEqual to want.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if !core.NearlyEqual(got[i], w, eps) {
			t.Fatalf("[%d] = %v, want %v ± %v", i, got[i], w, eps)
		}
	}
}

// RequireFrameNearlyEqual is RequireSliceNearlyEqual for frames, reporting
// the failing pixel as (row, col).
func RequireFrameNearlyEqual(t testing.TB, got, want *frame.Frame, eps float64) {
	t.Helper()
	if !got.SameShape(want) {
		t.Fatalf("shape = %dx%d, want %dx%d", got.Rows(), got.Cols(), want.Rows(), want.Cols())
	}
	g, w := got.Data(), want.Data()
	for i := range w {
		if !core.NearlyEqual(g[i], w[i], eps) {
			t.Fatalf("pixel (%d,%d) = %v, want %v ± %v", i/want.Cols(), i%want.Cols(), g[i], w[i], eps)
		}
	}
}
