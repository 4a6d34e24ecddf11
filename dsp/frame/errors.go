package frame

import "errors"

// Errors returned by frame and window operations.
var (
	ErrOutOfBounds = errors.New("frame: index out of bounds")
	ErrShape       = errors.New("frame: shape mismatch")
)
