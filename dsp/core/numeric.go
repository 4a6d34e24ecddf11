package core

import "math"

// Clamp returns v limited to the closed interval spanned by lo and hi, in
// either order.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return max(lo, min(hi, v))
}

// ClampIndex maps i onto [0, n). An empty range maps everything to 0.
func ClampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(n-1, i))
}

// TruncIndex converts x to an index by truncation toward zero, the same as a
// plain int conversion. It reports false for NaN, infinities and values
// beyond the int32 range.
func TruncIndex(x float64) (idx int, ok bool) {
	if !IsFinite(x) || math.Abs(x) >= math.MaxInt32 {
		return 0, false
	}
	return int(x), true
}

// NearlyEqual reports whether a and b agree to eps, either absolutely or
// relative to the larger magnitude. NaN matches only NaN. A non-positive eps
// selects 1e-12.
func NearlyEqual(a, b, eps float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if eps <= 0 {
		eps = 1e-12
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}
	scale := max(math.Abs(a), math.Abs(b))
	return IsFinite(scale) && diff <= eps*scale
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
