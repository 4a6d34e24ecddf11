package cosmic

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-skysub/dsp/frame"
)

const (
	defaultContrast          = 3.0
	defaultCRThreshold       = 5.0
	defaultNeighborThreshold = 0.3
	defaultEffectiveGain     = 1.0
	defaultReadNoise         = 1.0
	defaultMaxIter           = 4

	// minMedian keeps the noise model positive on empty sky.
	minMedian = 1e-5
	// minFineStructure floors the fine-structure image before the contrast
	// test.
	minFineStructure = 0.01
	replaceBoxSize   = 5
)

// Errors returned by Clean.
var (
	ErrMaskShape     = errors.New("cosmic: mask does not match frame shape")
	ErrInvalidConfig = errors.New("cosmic: invalid configuration")
)

// Config holds the detection parameters.
type Config struct {
	Contrast          float64 // minimum Laplacian-to-fine-structure contrast
	CRThreshold       float64 // Laplacian S/N detection threshold
	NeighborThreshold float64 // Laplacian S/N threshold for neighbouring pixels
	EffectiveGain     float64 // electrons per data unit
	ReadNoise         float64 // read noise in electrons
	MaxIter           int

	// Mask marks defective pixels, row-major. Nil selects pixels that are
	// exactly zero.
	Mask []bool
}

// DefaultConfig returns the standard detection parameters.
func DefaultConfig() Config {
	return Config{
		Contrast:          defaultContrast,
		CRThreshold:       defaultCRThreshold,
		NeighborThreshold: defaultNeighborThreshold,
		EffectiveGain:     defaultEffectiveGain,
		ReadNoise:         defaultReadNoise,
		MaxIter:           defaultMaxIter,
	}
}

// Result holds the cleaned frame and the pixels that were replaced.
type Result struct {
	Cleaned    *frame.Frame
	Mask       []bool // cosmic-ray pixels, row-major
	Count      int
	Iterations int
}

// Validate checks the numeric parameters.
func (c Config) Validate() error {
	switch {
	case c.Contrast <= 0:
		return fmt.Errorf("%w: contrast must be > 0: %f", ErrInvalidConfig, c.Contrast)
	case c.CRThreshold <= 0:
		return fmt.Errorf("%w: cr threshold must be > 0: %f", ErrInvalidConfig, c.CRThreshold)
	case c.NeighborThreshold <= 0:
		return fmt.Errorf("%w: neighbor threshold must be > 0: %f", ErrInvalidConfig, c.NeighborThreshold)
	case c.EffectiveGain <= 0:
		return fmt.Errorf("%w: effective gain must be > 0: %f", ErrInvalidConfig, c.EffectiveGain)
	case c.ReadNoise < 0:
		return fmt.Errorf("%w: read noise must be >= 0: %f", ErrInvalidConfig, c.ReadNoise)
	case c.MaxIter <= 0:
		return fmt.Errorf("%w: max iterations must be > 0: %d", ErrInvalidConfig, c.MaxIter)
	}
	return nil
}

// Clean detects and replaces cosmic-ray hits. The input frame is not
// modified.
func Clean(f *frame.Frame, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	defects, err := defectMask(f, cfg.Mask)
	if err != nil {
		return Result{}, err
	}

	clean := f.Clone()
	final := make([]bool, len(f.Data()))
	res := Result{Cleaned: clean, Mask: final}
	if len(final) == 0 {
		return res, nil
	}

	for iter := 0; iter < cfg.MaxIter; iter++ {
		res.Iterations = iter + 1

		crs := detect(clean, defects, cfg)

		found := 0
		for i, hit := range crs {
			if hit && !final[i] {
				found++
			}
			final[i] = final[i] || hit
		}

		if found == 0 {
			break
		}

		res.Count += found
		replaceMasked(clean, final, defects, replaceBoxSize)
	}

	return res, nil
}

// detect runs one L.A.Cosmic pass and returns the candidate mask.
func detect(data *frame.Frame, defects []bool, cfg Config) []bool {
	rows, cols := data.Rows(), data.Cols()

	lap := laplacian(data)
	noise := noiseModel(data, cfg.EffectiveGain, cfg.ReadNoise)

	snr := frame.New(rows, cols)
	inv := make([]float64, cols)
	for r := range rows {
		nrow := noise.Row(r)
		for c := range inv {
			inv[c] = 1 / (2 * nrow[c])
		}
		vecmath.MulBlock(snr.Row(r), lap.Row(r), inv)
	}

	snrMed := medianFilter(snr, 5)
	for i, v := range snrMed.Data() {
		snr.Data()[i] -= v
	}

	med3 := medianFilter(data, 3)
	med7 := medianFilter(med3, 7)

	n := rows * cols
	primary := make([]bool, n)
	candidates := make([]bool, n)
	for i := range n {
		s := snr.Data()[i]
		fine := (med3.Data()[i] - med7.Data()[i]) / noise.Data()[i]
		fine = math.Max(fine, minFineStructure)

		primary[i] = s > cfg.CRThreshold
		candidates[i] = primary[i] && s/fine > cfg.Contrast && !defects[i]
	}

	grown := dilate(candidates, rows, cols)
	for i := range n {
		grown[i] = grown[i] && primary[i]
	}

	grown = dilate(grown, rows, cols)
	for i := range n {
		grown[i] = grown[i] && snr.Data()[i] > cfg.NeighborThreshold && !defects[i]
	}

	return grown
}

// noiseModel returns sqrt(gain*med5 + readnoise²)/gain per pixel.
func noiseModel(data *frame.Frame, gain, readNoise float64) *frame.Frame {
	med5 := medianFilter(data, 5)
	rows, cols := data.Rows(), data.Cols()
	out := frame.New(rows, cols)

	shot := make([]float64, cols)
	rn := make([]float64, cols)
	scale := make([]float64, cols)
	for c := range cols {
		rn[c] = readNoise
		scale[c] = 1 / gain
	}

	for r := range rows {
		mrow := med5.Row(r)
		for c, m := range mrow {
			shot[c] = math.Sqrt(gain * math.Max(m, minMedian))
		}
		orow := out.Row(r)
		vecmath.Magnitude(orow, shot, rn)
		vecmath.MulBlockInPlace(orow, scale)
	}

	return out
}

func defectMask(f *frame.Frame, mask []bool) ([]bool, error) {
	n := len(f.Data())
	if mask != nil {
		if len(mask) != n {
			return nil, fmt.Errorf("%w: %d mask values for %dx%d frame", ErrMaskShape, len(mask), f.Rows(), f.Cols())
		}
		return mask, nil
	}

	out := make([]bool, n)
	for i, v := range f.Data() {
		out[i] = v == 0
	}
	return out, nil
}
