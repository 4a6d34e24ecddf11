package skysub

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-skysub/dsp/core"
	"github.com/cwbudde/algo-skysub/dsp/fit"
	"github.com/cwbudde/algo-skysub/dsp/frame"
	"github.com/cwbudde/algo-skysub/dsp/interp"
)

// Config selects the windows used for sky subtraction. All spatial windows
// are in frame row coordinates.
type Config struct {
	// SkylineSpectral brackets the bright sky line along the spectral axis.
	SkylineSpectral frame.Window
	// SkylineSpatial limits the rows searched for the sky line and the rows
	// that are straightened. Nil selects all rows.
	SkylineSpatial *frame.Window
	// Trace holds the target flux. It must lie inside SkylineSpatial.
	Trace frame.Window
	// NearTrace is the guard band around the trace.
	NearTrace frame.Window
}

// Subtractor fits the sky-line slant of one frame and subtracts the
// interpolated sky under the trace. It is not safe for concurrent FitTrace
// calls; all other methods only read fitted state.
type Subtractor struct {
	cfg     Config
	spatial frame.Window
	opts    options

	skyline *frame.Frame // spatial x skyline spectral window
	cutout  *frame.Frame // spatial x all columns

	traceRows  []int // cutout rows inside the trace
	sourceRows []int // cutout rows feeding the sky estimate

	model *fit.Result
}

// New validates the windows against f and prepares the cutouts. f is copied;
// later changes to it do not affect the Subtractor.
func New(f *frame.Frame, cfg Config, opts ...Option) (*Subtractor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	rows, cols := f.Rows(), f.Cols()

	if err := cfg.SkylineSpectral.Validate(cols); err != nil {
		return nil, fmt.Errorf("skysub: skyline spectral window: %w", err)
	}

	spatial := frame.Full(rows)
	if cfg.SkylineSpatial != nil {
		spatial = *cfg.SkylineSpatial
	}
	if err := spatial.Validate(rows); err != nil {
		return nil, fmt.Errorf("skysub: skyline spatial window: %w", err)
	}
	cfg.SkylineSpatial = &spatial

	if err := cfg.Trace.Validate(rows); err != nil {
		return nil, fmt.Errorf("skysub: trace window: %w", err)
	}
	if !spatial.Encloses(cfg.Trace) {
		return nil, fmt.Errorf("skysub: trace window %s outside skyline spatial window %s: %w",
			cfg.Trace, spatial, frame.ErrOutOfBounds)
	}
	if err := cfg.NearTrace.Validate(rows); err != nil {
		return nil, fmt.Errorf("skysub: near-trace window: %w", err)
	}
	if !spatial.Encloses(cfg.NearTrace) {
		return nil, fmt.Errorf("skysub: near-trace window %s outside skyline spatial window %s: %w",
			cfg.NearTrace, spatial, frame.ErrOutOfBounds)
	}
	if o.strictNesting && !cfg.NearTrace.Encloses(cfg.Trace) {
		return nil, fmt.Errorf("%w: near-trace %s, trace %s", ErrWindowNesting, cfg.NearTrace, cfg.Trace)
	}

	skyline, err := f.Cutout(spatial, cfg.SkylineSpectral)
	if err != nil {
		return nil, fmt.Errorf("skysub: skyline cutout: %w", err)
	}
	cutout, err := f.Cutout(spatial, frame.Full(cols))
	if err != nil {
		return nil, fmt.Errorf("skysub: spatial cutout: %w", err)
	}

	s := &Subtractor{
		cfg:     cfg,
		spatial: spatial,
		opts:    o,
		skyline: skyline,
		cutout:  cutout,
	}
	s.traceRows, s.sourceRows = s.partitionRows()

	if len(s.traceRows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTraceRows, cfg.Trace)
	}
	if len(s.sourceRows) == 0 {
		return nil, fmt.Errorf("%w: trace %s, near-trace %s, source %s",
			ErrNoSkyRows, cfg.Trace, cfg.NearTrace, o.source)
	}

	return s, nil
}

// Config returns the resolved configuration. SkylineSpatial is never nil.
func (s *Subtractor) Config() Config {
	cfg := s.cfg
	spatial := s.spatial
	cfg.SkylineSpatial = &spatial
	return cfg
}

// SkylineCutout returns a copy of the sky-line search region.
func (s *Subtractor) SkylineCutout() *frame.Frame {
	return s.skyline.Clone()
}

// TraceRows returns the frame rows, in order, of the rows produced by
// InterpolatedSky and SubtractSky.
func (s *Subtractor) TraceRows() []int {
	out := make([]int, len(s.traceRows))
	for i, r := range s.traceRows {
		out[i] = s.spatial.Min + r
	}
	return out
}

// Slant returns the fitted slant model. ok is false before FitTrace.
func (s *Subtractor) Slant() (line fit.Line, ok bool) {
	if s.model == nil {
		return fit.Line{}, false
	}
	return s.model.Line, true
}

// FitTrace locates the sky line in every row of the skyline cutout and fits
// column = Slope*row + Intercept by least squares. Rows are counted from the
// top of the skyline spatial window and columns from SkylineSpectral.Min.
// The fitted model replaces any previous one.
func (s *Subtractor) FitTrace() (fit.Result, error) {
	peaks := make([]float64, s.skyline.Rows())
	for r := range peaks {
		peaks[r] = float64(argMax(s.skyline.Row(r)))
	}

	res, err := fit.FitIndexed(peaks)
	if err != nil {
		return fit.Result{}, fmt.Errorf("skysub: fit trace: %w", err)
	}

	s.model = &res
	return res, nil
}

// Linearize straightens every row of the skyline spatial cutout across the
// full spectral range: output (y, ind) reads input column int(Slope*y + ind),
// truncated toward zero. Lookups past either edge follow the bounds policy.
func (s *Subtractor) Linearize() (*frame.Frame, error) {
	line, ok := s.Slant()
	if !ok {
		return nil, ErrNotFitted
	}
	return s.linearize(line.Slope)
}

// InterpolatedSky returns, for every column of the straightened cutout, the
// sky flux on the trace rows interpolated linearly from the source rows.
// Trace rows beyond the outermost source rows take the nearest source value.
func (s *Subtractor) InterpolatedSky() (*frame.Frame, error) {
	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}
	return s.interpolate(lin)
}

// SubtractSky returns the straightened trace rows minus the interpolated sky.
// The result has one row per trace row and one column per spectral pixel.
func (s *Subtractor) SubtractSky() (*frame.Frame, error) {
	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}

	sky, err := s.interpolate(lin)
	if err != nil {
		return nil, err
	}

	trace := frame.New(len(s.traceRows), lin.Cols())
	for i, r := range s.traceRows {
		copy(trace.Row(i), lin.Row(r))
	}

	return frame.Sub(trace, sky)
}

func (s *Subtractor) linearize(slope float64) (*frame.Frame, error) {
	rows, cols := s.cutout.Rows(), s.cutout.Cols()
	out := frame.New(rows, cols)

	for y := range rows {
		src := s.cutout.Row(y)
		dst := out.Row(y)
		shift := slope * float64(y)

		for ind := range dst {
			pos := shift + float64(ind)
			col, ok := core.TruncIndex(pos)
			if !ok || col < 0 || col >= cols {
				if s.opts.bounds == BoundsError {
					return nil, fmt.Errorf("%w: row %d column %d looks up column %.3f of %d",
						frame.ErrOutOfBounds, s.spatial.Min+y, ind, pos, cols)
				}
				col = clampLookup(col, ok, pos, cols)
			}
			dst[ind] = src[col]
		}
	}

	return out, nil
}

func (s *Subtractor) interpolate(lin *frame.Frame) (*frame.Frame, error) {
	if len(s.sourceRows) == 0 {
		return nil, ErrNoSkyRows
	}

	xp := make([]float64, len(s.sourceRows))
	for i, r := range s.sourceRows {
		xp[i] = float64(r)
	}
	x := make([]float64, len(s.traceRows))
	for i, r := range s.traceRows {
		x[i] = float64(r)
	}

	out := frame.New(len(s.traceRows), lin.Cols())
	fp := make([]float64, len(xp))
	vals := make([]float64, len(x))
	var column []float64

	for c := range lin.Cols() {
		column = lin.Column(c, column)
		for i, r := range s.sourceRows {
			fp[i] = column[r]
		}
		if err := interp.LinearInto(vals, x, xp, fp); err != nil {
			return nil, fmt.Errorf("skysub: column %d: %w", c, err)
		}
		for i, v := range vals {
			out.Set(i, c, v)
		}
	}

	return out, nil
}

// partitionRows splits the cutout rows into trace rows and sky source rows.
// Both lists are ascending.
func (s *Subtractor) partitionRows() (trace, source []int) {
	for y := range s.cutout.Rows() {
		row := s.spatial.Min + y
		inTrace := s.cfg.Trace.Interior(row)
		inGuard := s.cfg.NearTrace.Interior(row)

		if inTrace {
			trace = append(trace, y)
		}

		switch s.opts.source {
		case SourceGuardRing:
			if inGuard && !inTrace {
				source = append(source, y)
			}
		default:
			if !inGuard && !inTrace {
				source = append(source, y)
			}
		}
	}
	return trace, source
}

// argMax returns the index of the first maximum of row, ignoring NaN.
func argMax(row []float64) int {
	best := 0
	bestVal := math.Inf(-1)
	for i, v := range row {
		if v > bestVal {
			best = i
			bestVal = v
		}
	}
	return best
}

func clampLookup(col int, ok bool, pos float64, n int) int {
	if !ok {
		if pos > 0 {
			return n - 1
		}
		return 0
	}
	return core.ClampIndex(col, n)
}
