// Package plot renders frames as grayscale heat maps for quick inspection,
// with an optional overlay of the fitted sky-line slant.
//
// Figures put frame row 0 at the bottom, so the spatial axis runs upwards and
// the spectral axis to the right. Display limits are median ± Range·σ of the
// sigma-clipped frame statistics; pixels outside them saturate.
package plot
