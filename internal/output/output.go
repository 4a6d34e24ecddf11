// Package output renders reduction results as console tables.
package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/internal/catalog"
	"github.com/cwbudde/algo-skysub/reduce/extract"
)

var (
	okColor     = color.New(color.FgGreen)
	failedColor = color.New(color.FgRed, color.Bold)
	headColor   = color.New(color.FgCyan, color.Bold)
)

// Printer writes tables to w.
type Printer struct {
	w         io.Writer
	colour    bool
	precision int
}

// NewPrinter returns a printer writing to w. Colour applies only to status
// labels and summary lines.
func NewPrinter(w io.Writer, colour bool, precision int) *Printer {
	if precision < 0 {
		precision = 4
	}
	return &Printer{w: w, colour: colour, precision: precision}
}

// StatusLabel returns the status text, coloured when enabled.
func (p *Printer) StatusLabel(s catalog.Status) string {
	text := string(s)
	if !p.colour {
		return text
	}
	if s == catalog.StatusOK {
		return okColor.Sprint(text)
	}
	return failedColor.Sprint(text)
}

// Runs writes one table row per exposure and a summary line.
func (p *Printer) Runs(runs []catalog.Run) error {
	table := tablewriter.NewWriter(p.w)
	table.Header([]string{"Exposure", "Status", "Slope", "Intercept", "RMS", "Rows", "Cosmics", "Time", "Detail"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	failed := 0
	for _, r := range runs {
		detail := r.Output
		if r.Status != catalog.StatusOK {
			failed++
			detail = r.Error
		}
		data = append(data, []string{
			r.Exposure,
			p.StatusLabel(r.Status),
			p.float(r.Slope),
			p.float(r.Intercept),
			p.float(r.ResidualRMS),
			strconv.Itoa(r.TraceRows),
			strconv.Itoa(r.Cosmics),
			r.Duration.Round(time.Millisecond).String(),
			detail,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d exposures, %d failed", len(runs), failed)
	if p.colour {
		summary = headColor.Sprint(summary)
	}
	_, err := fmt.Fprintln(p.w, summary)
	return err
}

// Fit writes the fitted slant model.
func (p *Printer) Fit(res fit.Result) error {
	table := tablewriter.NewWriter(p.w)
	table.Header([]string{"Parameter", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"slope", p.float(res.Slope)},
		{"intercept", p.float(res.Intercept)},
		{"rows", strconv.Itoa(res.N)},
		{"residual rms", p.float(res.ResidualRMS)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// Spectrum writes the first limit pixels of spec and its total flux. A
// non-positive limit writes every pixel.
func (p *Printer) Spectrum(spec extract.Spectrum, limit int) error {
	n := spec.Len()
	if limit > 0 && limit < n {
		n = limit
	}

	table := tablewriter.NewWriter(p.w)
	table.Header([]string{"Pixel", "Flux"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, n)
	for i := range n {
		data = append(data, []string{strconv.Itoa(spec.Pixels[i]), p.float(spec.Flux[i])})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	var total float64
	for _, v := range spec.Flux {
		total += v
	}
	summary := fmt.Sprintf("%d pixels, total flux %s", spec.Len(), p.float(total))
	if p.colour {
		summary = headColor.Sprint(summary)
	}
	_, err := fmt.Fprintln(p.w, summary)
	return err
}

// Cleaned writes a one-line cosmic-ray cleaning summary.
func (p *Printer) Cleaned(name string, count, iterations int) error {
	label := okColor
	if count > 0 {
		label = failedColor
	}
	text := fmt.Sprintf("%d cosmic-ray pixels", count)
	if p.colour {
		text = label.Sprint(text)
	}
	_, err := fmt.Fprintf(p.w, "%s: %s in %d iterations\n", name, text, iterations)
	return err
}

func (p *Printer) float(v float64) string {
	return strconv.FormatFloat(v, 'f', p.precision, 64)
}
