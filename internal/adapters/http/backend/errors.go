package backend

import (
	"errors"
	"fmt"
)

// Sentinel kinds for backend errors. Every failure returned by Client
// matches ErrTransport; the narrower kinds say what went wrong.
var (
	ErrTransport  = errors.New("backend unreachable")
	ErrStatus     = errors.New("unexpected backend status")
	ErrDecode     = errors.New("malformed backend response")
	ErrInvalidURL = errors.New("invalid backend url")
)

// TransportError is a failed exchange with the backend. The user only ever
// sees a fixed message; this carries the detail for the logs.
type TransportError struct {
	Endpoint  string
	RequestID string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Endpoint, e.RequestID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }
