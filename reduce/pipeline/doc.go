// Package pipeline chains cosmic-ray cleaning, sky subtraction and trace
// extraction for single exposures and for batches.
//
// A batch processes exposures in order. A failing exposure is logged,
// recorded with status failed and skipped; the batch carries on with the
// next one. The context is checked between exposures.
package pipeline
