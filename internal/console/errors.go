package console

import "errors"

// Sentinel kinds for console errors.
var (
	ErrAssignment = errors.New("invalid field assignment")
	ErrUnapplied  = errors.New("field not found on any visited page")
	ErrAborted    = errors.New("prompt aborted")
)
