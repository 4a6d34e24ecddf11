// Package clip computes sigma-clipped image statistics.
//
// Values further than Sigma standard deviations from the median are rejected
// and the statistics recomputed until nothing more is rejected or MaxIters is
// reached. NaN values are ignored throughout.
package clip

import (
	"math"
	"sort"
)

const (
	defaultSigma    = 3.0
	defaultMaxIters = 5
)

// Config holds clipping parameters.
type Config struct {
	Sigma    float64 // rejection threshold in standard deviations
	MaxIters int     // maximum clipping passes; <= 0 means until convergence
}

// DefaultConfig returns 3-sigma clipping with at most five passes.
func DefaultConfig() Config {
	return Config{Sigma: defaultSigma, MaxIters: defaultMaxIters}
}

// Stats holds the statistics of the values that survived clipping.
type Stats struct {
	Mean       float64
	Median     float64
	Std        float64 // population standard deviation
	Count      int     // surviving values
	Rejected   int     // values removed by clipping
	Iterations int     // clipping passes performed
}

// Calculate returns sigma-clipped statistics of data. The input is not
// modified.
func Calculate(data []float64, cfg Config) Stats {
	if cfg.Sigma <= 0 {
		cfg.Sigma = defaultSigma
	}

	kept := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			kept = append(kept, v)
		}
	}

	if len(kept) == 0 {
		return Stats{Mean: math.NaN(), Median: math.NaN(), Std: math.NaN()}
	}

	total := len(kept)
	iters := 0
	for cfg.MaxIters <= 0 || iters < cfg.MaxIters {
		median := medianInPlace(kept)
		_, std := MeanStd(kept)
		lo := median - cfg.Sigma*std
		hi := median + cfg.Sigma*std

		n := 0
		for _, v := range kept {
			if v >= lo && v <= hi {
				kept[n] = v
				n++
			}
		}

		iters++
		if n == len(kept) {
			break
		}
		kept = kept[:n]
	}

	mean, std := MeanStd(kept)
	return Stats{
		Mean:       mean,
		Median:     medianInPlace(kept),
		Std:        std,
		Count:      len(kept),
		Rejected:   total - len(kept),
		Iterations: iters,
	}
}

// MeanStd returns the mean and population standard deviation of data using
// Welford's online algorithm.
func MeanStd(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0, 0
	}

	var m2 float64
	for i, x := range data {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}

	return mean, math.Sqrt(m2 / float64(len(data)))
}

// Median returns the median of data without modifying it. It returns NaN for
// empty input.
func Median(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	tmp := append([]float64(nil), data...)
	return medianInPlace(tmp)
}

// medianInPlace sorts data and returns its median.
func medianInPlace(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}

	sort.Float64s(data)
	if n%2 == 1 {
		return data[n/2]
	}
	return 0.5 * (data[n/2-1] + data[n/2])
}
