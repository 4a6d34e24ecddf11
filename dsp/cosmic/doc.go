// Package cosmic removes cosmic-ray hits from a two-dimensional frame using
// Laplacian edge detection (van Dokkum 2001, "L.A.Cosmic").
//
// Each iteration:
//
//   - subsamples the frame 2x, convolves it with a Laplacian kernel, clips
//     negative values and rebins back to the original grid;
//   - divides by a noise model sqrt(gain*med5 + readnoise²)/gain and removes
//     large structures by subtracting a 5x5 median of the S/N map;
//   - rejects stellar and line-like structure with the fine-structure image
//     (med3 - med7(med3)) / noise and the Contrast threshold;
//   - grows detections into neighbouring pixels above CRThreshold and then
//     above NeighborThreshold;
//   - replaces flagged pixels by the median of their unflagged 5x5
//     neighbourhood.
//
// Iteration stops when no new pixels are flagged or after MaxIter passes.
// Pixels in the defect mask (by default every pixel that is exactly zero) are
// never flagged and never used as replacement values.
package cosmic
