package recommend

import (
	"errors"
	"fmt"
)

// Code classifies an engine failure so callers can pick a status or retry
// policy without matching on messages.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNoGames         Code = "NO_GAMES"
	CodeUpstreamTimeout Code = "UPSTREAM_TIMEOUT"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Error is the typed failure returned by the engine.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code carried by err, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func validationError(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}
