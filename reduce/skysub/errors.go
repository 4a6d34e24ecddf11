package skysub

import "errors"

// Errors returned by the sky subtractor.
var (
	ErrNotFitted     = errors.New("skysub: slant model not fitted; call FitTrace first")
	ErrNoSkyRows     = errors.New("skysub: no sky source rows outside the trace")
	ErrNoTraceRows   = errors.New("skysub: trace window selects no rows")
	ErrWindowNesting = errors.New("skysub: near-trace window must enclose the trace window")
)
