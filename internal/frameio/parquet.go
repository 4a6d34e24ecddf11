package frameio

import (
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/reduce/extract"
)

// Pixel is one record of a Parquet pixel table.
type Pixel struct {
	Row  int32   `parquet:"row,snappy"`
	Col  int32   `parquet:"col,snappy"`
	Flux float64 `parquet:"flux,snappy"`
}

// SpectrumPoint is one record of a Parquet spectrum.
type SpectrumPoint struct {
	Pixel int32   `parquet:"pixel,snappy"`
	Flux  float64 `parquet:"flux,snappy"`
}

const readBatch = 4096

// WriteFrameParquet writes every pixel of f as a (row, col, flux) record in
// row-major order.
func WriteFrameParquet(w io.Writer, f *frame.Frame) error {
	writer := parquet.NewGenericWriter[Pixel](w)

	batch := make([]Pixel, 0, f.Cols())
	for r := range f.Rows() {
		batch = batch[:0]
		for c, v := range f.Row(r) {
			batch = append(batch, Pixel{Row: int32(r), Col: int32(c), Flux: v})
		}
		if _, err := writer.Write(batch); err != nil {
			_ = writer.Close()
			return fmt.Errorf("failed to write data to parquet file: %w", err)
		}
	}

	return writer.Close()
}

// ReadFrameParquet reads a pixel table of size bytes. The frame shape is one
// more than the largest row and column present.
func ReadFrameParquet(r io.ReaderAt, size int64) (*frame.Frame, error) {
	pixels, err := readAll[Pixel](r, size)
	if err != nil {
		return nil, err
	}
	if len(pixels) == 0 {
		return nil, ErrEmpty
	}

	var rows, cols int
	for _, p := range pixels {
		if p.Row < 0 || p.Col < 0 {
			return nil, fmt.Errorf("%w: pixel (%d,%d)", frame.ErrOutOfBounds, p.Row, p.Col)
		}
		rows = max(rows, int(p.Row)+1)
		cols = max(cols, int(p.Col)+1)
	}

	f := frame.New(rows, cols)
	seen := make([]bool, rows*cols)
	for _, p := range pixels {
		i := int(p.Row)*cols + int(p.Col)
		if seen[i] {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicatePixel, p.Row, p.Col)
		}
		seen[i] = true
		f.Set(int(p.Row), int(p.Col), p.Flux)
	}

	return f, nil
}

// WriteSpectrumParquet writes spec as (pixel, flux) records.
func WriteSpectrumParquet(w io.Writer, spec extract.Spectrum) error {
	if len(spec.Pixels) != len(spec.Flux) {
		return fmt.Errorf("frameio: spectrum has %d pixels and %d flux values", len(spec.Pixels), len(spec.Flux))
	}

	points := make([]SpectrumPoint, len(spec.Pixels))
	for i, p := range spec.Pixels {
		points[i] = SpectrumPoint{Pixel: int32(p), Flux: spec.Flux[i]}
	}

	writer := parquet.NewGenericWriter[SpectrumPoint](w)
	if _, err := writer.Write(points); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// ReadSpectrumParquet reads the output of WriteSpectrumParquet.
func ReadSpectrumParquet(r io.ReaderAt, size int64) (extract.Spectrum, error) {
	points, err := readAll[SpectrumPoint](r, size)
	if err != nil {
		return extract.Spectrum{}, err
	}

	spec := extract.Spectrum{
		Pixels: make([]int, len(points)),
		Flux:   make([]float64, len(points)),
	}
	for i, p := range points {
		spec.Pixels[i] = int(p.Pixel)
		spec.Flux[i] = p.Flux
	}
	return spec, nil
}

func readAll[T any](r io.ReaderAt, size int64) ([]T, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet data: %w", err)
	}

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	out := make([]T, 0, reader.NumRows())
	buf := make([]T, readBatch)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet data: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}
