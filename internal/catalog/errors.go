package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperation is returned when a name or URI is not registered.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrInvalidArgument marks argument binding failures.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ArgumentError describes a caller argument that could not be bound.
type ArgumentError struct {
	Operation string
	Param     string
	Reason    string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: parameter %q %s", e.Operation, e.Param, e.Reason)
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
