package frameio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/reduce/extract"
)

// ReadFrameCSV reads one frame row per record. Lines starting with '#' are
// skipped. Every record must have the same number of fields.
func ReadFrameCSV(r io.Reader) (*frame.Frame, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var rows [][]float64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("frameio: read csv: %w", err)
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("frameio: row %d column %d: %w", len(rows), i, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	return frame.FromRows(rows)
}

// WriteFrameCSV writes one frame row per record with full float precision.
func WriteFrameCSV(w io.Writer, f *frame.Frame) error {
	cw := csv.NewWriter(w)
	record := make([]string, f.Cols())

	for r := range f.Rows() {
		for c, v := range f.Row(r) {
			record[c] = formatFloat(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("frameio: write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSpectrumCSV writes a "pixel,flux" header followed by one record per
// spectral pixel.
func WriteSpectrumCSV(w io.Writer, spec extract.Spectrum) error {
	if len(spec.Pixels) != len(spec.Flux) {
		return fmt.Errorf("frameio: spectrum has %d pixels and %d flux values", len(spec.Pixels), len(spec.Flux))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"pixel", "flux"}); err != nil {
		return err
	}
	for i, p := range spec.Pixels {
		if err := cw.Write([]string{strconv.Itoa(p), formatFloat(spec.Flux[i])}); err != nil {
			return fmt.Errorf("frameio: write csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadSpectrumCSV reads the output of WriteSpectrumCSV.
func ReadSpectrumCSV(r io.Reader) (extract.Spectrum, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return extract.Spectrum{}, fmt.Errorf("frameio: read csv: %w", err)
	}
	if len(records) > 0 && records[0][0] == "pixel" {
		records = records[1:]
	}

	spec := extract.Spectrum{
		Pixels: make([]int, len(records)),
		Flux:   make([]float64, len(records)),
	}
	for i, rec := range records {
		if spec.Pixels[i], err = strconv.Atoi(rec[0]); err != nil {
			return extract.Spectrum{}, fmt.Errorf("frameio: record %d: %w", i, err)
		}
		if spec.Flux[i], err = strconv.ParseFloat(rec[1], 64); err != nil {
			return extract.Spectrum{}, fmt.Errorf("frameio: record %d: %w", i, err)
		}
	}
	return spec, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
