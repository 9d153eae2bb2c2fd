package page

import "errors"

// Sentinel kinds for document errors.
var (
	ErrParse     = errors.New("page parse failed")
	ErrNoElement = errors.New("no such element")
	ErrNotForm   = errors.New("element is not a form")
	ErrNoField   = errors.New("no such form field")
	ErrNoOption  = errors.New("no matching option")
)
