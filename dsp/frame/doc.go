// Package frame provides the dense two-dimensional pixel container used by
// every reduction step, plus the half-open [Window] type that selects pixel
// ranges along one axis.
//
// A [Frame] is row-major. Rows index the spatial axis of a long-slit
// spectrum and columns index the spectral (dispersion) axis; all packages in
// this module follow that convention.
//
// Frames returned by reduction steps are new values. Callers that want to
// mutate pixels in place use [Frame.Set] or the [Frame.Row] view explicitly.
package frame
