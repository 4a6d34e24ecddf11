// Package interp provides one-dimensional interpolation over sampled data.
//
// [Linear] evaluates the piecewise-linear interpolant through a set of
// strictly increasing sample coordinates and holds the boundary values
// constant outside the sampled range. [Linear2] is the two-point kernel it is
// built on.
package interp
