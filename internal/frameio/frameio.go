// Package frameio reads and writes frames and spectra as CSV or Parquet.
//
// A CSV frame holds one frame row per line. A Parquet frame is a pixel table
// with one record per pixel (row, col, flux); pixels missing from the table
// read as zero. Spectra are written as (pixel, flux) records in both formats.
package frameio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/reduce/extract"
)

// Errors returned by the readers.
var (
	ErrUnknownFormat  = errors.New("frameio: unknown file format")
	ErrDuplicatePixel = errors.New("frameio: duplicate pixel")
	ErrEmpty          = errors.New("frameio: no data")
)

// Format is a file encoding.
type Format string

// Supported formats.
const (
	CSV     Format = "csv"
	Parquet Format = "parquet"
)

// FormatFromPath derives the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return CSV, nil
	case ".parquet", ".pq":
		return Parquet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ReadFrameFile reads the frame at path, choosing the format by extension.
func ReadFrameFile(path string) (*frame.Frame, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var f *frame.Frame
	switch format {
	case Parquet:
		var info os.FileInfo
		if info, err = file.Stat(); err != nil {
			return nil, fmt.Errorf("failed to stat frame file: %w", err)
		}
		f, err = ReadFrameParquet(file, info.Size())
	default:
		f, err = ReadFrameCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFrameFile writes f to path, choosing the format by extension.
func WriteFrameFile(path string, f *frame.Frame) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	return writeFile(path, func(file *os.File) error {
		if format == Parquet {
			return WriteFrameParquet(file, f)
		}
		return WriteFrameCSV(file, f)
	})
}

// WriteSpectrumFile writes spec to path, choosing the format by extension.
func WriteSpectrumFile(path string, spec extract.Spectrum) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	return writeFile(path, func(file *os.File) error {
		if format == Parquet {
			return WriteSpectrumParquet(file, spec)
		}
		return WriteSpectrumCSV(file, spec)
	})
}

// ReadSpectrumFile reads the spectrum at path, choosing the format by
// extension.
func ReadSpectrumFile(path string) (extract.Spectrum, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return extract.Spectrum{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return extract.Spectrum{}, fmt.Errorf("failed to open spectrum file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if format == Parquet {
		info, err := file.Stat()
		if err != nil {
			return extract.Spectrum{}, fmt.Errorf("failed to stat spectrum file: %w", err)
		}
		return ReadSpectrumParquet(file, info.Size())
	}
	return ReadSpectrumCSV(file)
}

func writeFile(path string, write func(*os.File) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	return write(file)
}
