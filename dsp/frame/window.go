package frame

import "fmt"

// Window is a half-open pixel range [Min, Max) along one axis.
type Window struct {
	Min int
	Max int
}

// Full returns the window covering all n pixels of an axis.
func Full(n int) Window {
	return Window{Min: 0, Max: n}
}

// Len returns the number of pixels in the window. Inverted windows are empty.
func (w Window) Len() int {
	if w.Max <= w.Min {
		return 0
	}
	return w.Max - w.Min
}

// Contains reports whether i lies in [Min, Max).
func (w Window) Contains(i int) bool {
	return i >= w.Min && i < w.Max
}

// Interior reports whether i lies strictly between Min and Max.
func (w Window) Interior(i int) bool {
	return i > w.Min && i < w.Max
}

// Encloses reports whether o lies entirely inside w.
func (w Window) Encloses(o Window) bool {
	return o.Min >= w.Min && o.Max <= w.Max
}

// Shift returns the window translated by d pixels.
func (w Window) Shift(d int) Window {
	return Window{Min: w.Min + d, Max: w.Max + d}
}

// Validate checks that w is a non-empty range inside an axis of n pixels.
func (w Window) Validate(n int) error {
	if w.Min < 0 || w.Max > n || w.Max <= w.Min {
		return fmt.Errorf("%w: window %s on axis of length %d", ErrOutOfBounds, w, n)
	}
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Min, w.Max)
}
