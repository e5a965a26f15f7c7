package args

import (
	"errors"
	"fmt"
)

// ErrMalformedArgument is the sentinel wrapped by every MalformedArgumentError.
var ErrMalformedArgument = errors.New("malformed argument")

// MalformedArgumentError describes a bracket key that cannot be normalized.
type MalformedArgumentError struct {
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *MalformedArgumentError) Error() string {
	return fmt.Sprintf("malformed argument %q: %s", e.Key, e.Reason)
}

// Unwrap returns ErrMalformedArgument.
func (e *MalformedArgumentError) Unwrap() error {
	return ErrMalformedArgument
}

func malformed(key, reason string) error {
	return &MalformedArgumentError{Key: key, Reason: reason}
}
