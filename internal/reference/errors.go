package reference

import "errors"

var (
	errNoSource    = errors.New("reference source not configured")
	errSourcePanic = errors.New("reference source panicked")
)
