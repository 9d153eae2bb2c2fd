package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrFixtures   = errors.New("invalid fixtures")
	ErrBadRequest = errors.New("bad request")
)
