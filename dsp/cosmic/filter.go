package cosmic

import (
	"sort"

	"github.com/cwbudde/algo-skysub/dsp/core"
	"github.com/cwbudde/algo-skysub/dsp/frame"
)

// mirror reflects i into [0, n) about the edge pixel centres without
// repeating them: -1 -> 1, n -> n-2.
func mirror(i, n int) int {
	if n == 1 {
		return 0
	}

	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}

// medianFilter applies a size x size median filter with mirrored borders.
// size must be odd.
func medianFilter(src *frame.Frame, size int) *frame.Frame {
	rows, cols := src.Rows(), src.Cols()
	half := size / 2
	out := frame.New(rows, cols)
	win := make([]float64, size*size)

	for r := range rows {
		orow := out.Row(r)
		for c := range cols {
			n := 0
			for dy := -half; dy <= half; dy++ {
				srow := src.Row(mirror(r+dy, rows))
				for dx := -half; dx <= half; dx++ {
					win[n] = srow[mirror(c+dx, cols)]
					n++
				}
			}
			sort.Float64s(win)
			orow[c] = win[len(win)/2]
		}
	}

	return out
}

// laplacian returns the clipped Laplacian of the 2x block-replicated frame,
// rebinned to the original grid by averaging each 2x2 block.
func laplacian(src *frame.Frame) *frame.Frame {
	rows, cols := src.Rows(), src.Cols()
	subRows, subCols := 2*rows, 2*cols
	at := func(y, x int) float64 {
		return src.At(mirror(y, subRows)/2, mirror(x, subCols)/2)
	}

	out := frame.New(rows, cols)
	for r := range rows {
		orow := out.Row(r)
		for c := range cols {
			var sum float64
			for sy := 0; sy < 2; sy++ {
				for sx := 0; sx < 2; sx++ {
					y, x := 2*r+sy, 2*c+sx
					v := 4*at(y, x) - at(y-1, x) - at(y+1, x) - at(y, x-1) - at(y, x+1)
					if v > 0 {
						sum += v
					}
				}
			}
			orow[c] = sum / 4
		}
	}

	return out
}

// dilate grows mask by one pixel in all eight directions. Pixels outside the
// frame count as unset.
func dilate(mask []bool, rows, cols int) []bool {
	out := make([]bool, len(mask))
	for r := range rows {
		for c := range cols {
			if !mask[r*cols+c] {
				continue
			}
			for y := max(r-1, 0); y <= min(r+1, rows-1); y++ {
				for x := max(c-1, 0); x <= min(c+1, cols-1); x++ {
					out[y*cols+x] = true
				}
			}
		}
	}
	return out
}

// replaceMasked overwrites every pixel flagged in crs with the median of the
// size x size neighbourhood, skipping flagged and defective neighbours.
// Pixels without usable neighbours keep their value.
func replaceMasked(data *frame.Frame, crs, defects []bool, size int) {
	rows, cols := data.Rows(), data.Cols()
	half := size / 2
	var buf []float64

	for r := range rows {
		for c := range cols {
			if !crs[r*cols+c] {
				continue
			}

			buf = core.EnsureLen(buf, size*size)[:0]
			for y := max(r-half, 0); y <= min(r+half, rows-1); y++ {
				for x := max(c-half, 0); x <= min(c+half, cols-1); x++ {
					i := y*cols + x
					if crs[i] || defects[i] {
						continue
					}
					buf = append(buf, data.At(y, x))
				}
			}

			if len(buf) == 0 {
				continue
			}

			sort.Float64s(buf)
			n := len(buf)
			m := buf[n/2]
			if n%2 == 0 {
				m = 0.5 * (buf[n/2-1] + buf[n/2])
			}
			data.Set(r, c, m)
		}
	}
}
