package loop

import "errors"

// Sentinel kinds for loop errors.
var (
	ErrStopped = errors.New("loop stopped")
	ErrFull    = errors.New("loop backlog full")
)
