// Package fit provides ordinary least-squares fitting of straight lines.
//
// The fit is closed form:
//
//	slope     = (n*Σxy - Σx*Σy) / (n*Σxx - (Σx)²)
//	intercept = (Σy - slope*Σx) / n
//
// Sums are accumulated on mean-centred coordinates to keep the denominator
// well conditioned for large pixel indices.
//
// # Usage
//
//	res, err := fit.FitLine(rows, peaks)
//	if errors.Is(err, fit.ErrNoConvergence) {
//		// degenerate input
//	}
//	col := res.Line.Eval(42)
package fit
