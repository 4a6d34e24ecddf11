package core

// EnsureLen returns buf resliced to n elements when its capacity allows,
// otherwise a new slice. Contents beyond the old length are unspecified.
func EnsureLen[T any](buf []T, n int) []T {
	switch {
	case n <= 0:
		return buf[:0]
	case cap(buf) < n:
		return make([]T, n)
	default:
		return buf[:n]
	}
}

// CopyInto copies the common prefix of src into dst and reports its length.
func CopyInto[T any](dst, src []T) int {
	return copy(dst, src)
}
