// Package skysub removes the sky background under a spectral trace.
//
// A [Subtractor] is built around one bright sky emission line. [Subtractor.FitTrace]
// locates the line in every row of the skyline cutout (the column of peak
// flux) and fits a straight line column = Slope*row + Intercept through those
// positions. The slope is then used to straighten the frame: in
// [Subtractor.Linearize] output column ind of row y reads the input column
// int(Slope*y + ind), so the sky line lands on a single column.
//
// [Subtractor.InterpolatedSky] estimates, per column, the sky flux on the
// trace rows by linear interpolation from source rows away from the trace,
// and [Subtractor.SubtractSky] returns the straightened trace rows minus that
// estimate.
//
// # Windows
//
// All spatial windows are given in frame row coordinates. Trace and
// near-trace membership is strict on both ends: a row y belongs to the trace
// when Trace.Min < y < Trace.Max. Source rows are every skyline-cutout row
// outside both the trace and the near-trace guard band, or, with
// [SourceGuardRing], the guard rows that are not trace rows.
//
// # Usage
//
//	sub, err := skysub.New(f, skysub.Config{
//		SkylineSpectral: frame.Window{Min: 410, Max: 440},
//		Trace:           frame.Window{Min: 58, Max: 66},
//		NearTrace:       frame.Window{Min: 50, Max: 74},
//	})
//	if _, err := sub.FitTrace(); err != nil {
//		return err
//	}
//	residual, err := sub.SubtractSky()
package skysub
