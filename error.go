package weatherbot

import (
	"fmt"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrNotFound Err = iota + 1
	ErrBadParameter
	ErrConflict
	ErrInternalServerError
	ErrLocationNotFound
	ErrProvider
	ErrToolFailed
	ErrModel
	ErrMaxIterations
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Errors
type Err int

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (e Err) Error() string {
	switch e {
	case ErrNotFound:
		return "not found"
	case ErrBadParameter:
		return "bad parameter"
	case ErrConflict:
		return "conflict"
	case ErrInternalServerError:
		return "internal server error"
	case ErrLocationNotFound:
		return "location not found"
	case ErrProvider:
		return "weather provider error"
	case ErrToolFailed:
		return "tool call failed"
	case ErrModel:
		return "language model error"
	case ErrMaxIterations:
		return "too many tool calls, giving up"
	}
	return fmt.Sprintf("error code %d", int(e))
}

func (e Err) With(args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprint(args...))
}

func (e Err) Withf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", e, fmt.Sprintf(format, args...))
}
