package frame

import (
	"fmt"

	"github.com/cwbudde/algo-skysub/dsp/core"
)

// Frame is a dense row-major array of flux values indexed [row, col].
type Frame struct {
	rows int
	cols int
	data []float64
}

// New returns a zero-filled frame. Negative dimensions are treated as zero.
func New(rows, cols int) *Frame {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Frame{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// FromSlice wraps row-major data without copying.
// Mutations to data are visible through the Frame and vice versa.
func FromSlice(rows, cols int, data []float64) (*Frame, error) {
	if rows < 0 || cols < 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d frame", ErrShape, len(data), rows, cols)
	}
	return &Frame{rows: rows, cols: cols, data: data}, nil
}

// FromRows copies a slice of equally long rows into a new frame.
func FromRows(rows [][]float64) (*Frame, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}

	cols := len(rows[0])
	f := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, r, len(row), cols)
		}
		core.CopyInto(f.Row(r), row)
	}

	return f, nil
}

// Rows returns the number of rows (spatial pixels).
func (f *Frame) Rows() int { return f.rows }

// Cols returns the number of columns (spectral pixels).
func (f *Frame) Cols() int { return f.cols }

// Data returns the underlying row-major slice.
func (f *Frame) Data() []float64 { return f.data }

// At returns the value at (r, c). It panics if the index is out of range.
func (f *Frame) At(r, c int) float64 {
	return f.data[f.offset(r, c)]
}

// Set stores v at (r, c). It panics if the index is out of range.
func (f *Frame) Set(r, c int, v float64) {
	f.data[f.offset(r, c)] = v
}

// Row returns a view of row r. Writes to the view modify the frame.
func (f *Frame) Row(r int) []float64 {
	if r < 0 || r >= f.rows {
		panic(fmt.Sprintf("frame: row %d out of range [0,%d)", r, f.rows))
	}
	return f.data[r*f.cols : (r+1)*f.cols]
}

// Column copies column c into dst, growing it if needed, and returns it.
func (f *Frame) Column(c int, dst []float64) []float64 {
	if c < 0 || c >= f.cols {
		panic(fmt.Sprintf("frame: column %d out of range [0,%d)", c, f.cols))
	}
	dst = core.EnsureLen(dst, f.rows)
	for r := range f.rows {
		dst[r] = f.data[r*f.cols+c]
	}
	return dst
}

// InBounds reports whether (r, c) addresses a pixel of the frame.
func (f *Frame) InBounds(r, c int) bool {
	return r >= 0 && r < f.rows && c >= 0 && c < f.cols
}

// SameShape reports whether f and o have identical dimensions.
func (f *Frame) SameShape(o *Frame) bool {
	return f.rows == o.rows && f.cols == o.cols
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	data := make([]float64, len(f.data))
	copy(data, f.data)
	return &Frame{rows: f.rows, cols: f.cols, data: data}
}

// Cutout copies the pixels selected by the row and column windows into a new
// frame.
func (f *Frame) Cutout(rows, cols Window) (*Frame, error) {
	if err := rows.Validate(f.rows); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if err := cols.Validate(f.cols); err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}

	out := New(rows.Len(), cols.Len())
	for r := range out.rows {
		copy(out.Row(r), f.Row(rows.Min + r)[cols.Min:cols.Max])
	}
	return out, nil
}

// ToRows returns a copy of the frame as a slice of rows.
func (f *Frame) ToRows() [][]float64 {
	out := make([][]float64, f.rows)
	for r := range out {
		out[r] = append([]float64(nil), f.Row(r)...)
	}
	return out
}

// Sub returns the element-wise difference a - b.
func Sub(a, b *Frame) (*Frame, error) {
	if !a.SameShape(b) {
		return nil, fmt.Errorf("%w: %dx%d minus %dx%d", ErrShape, a.rows, a.cols, b.rows, b.cols)
	}

	out := New(a.rows, a.cols)
	for i := range out.data {
		out.data[i] = a.data[i] - b.data[i]
	}
	return out, nil
}

func (f *Frame) offset(r, c int) int {
	if !f.InBounds(r, c) {
		panic(fmt.Sprintf("frame: index (%d,%d) out of range for %dx%d frame", r, c, f.rows, f.cols))
	}
	return r*f.cols + c
}
