package xerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine and services. Callers wrap these with
// fmt.Errorf("%w: detail", ...) so the transport layer can classify with
// errors.Is while still getting a renderable message.
var (
	ErrValidation     = errors.New("invalid input")
	ErrConflict       = errors.New("operation conflicts with current state")
	ErrNotFound       = errors.New("resource not found")
	ErrConfiguration  = errors.New("missing or invalid configuration")
	ErrNoAvailability = errors.New("no space available")
	ErrExpired        = errors.New("reservation expired")
	ErrInternal       = errors.New("internal server error")
)

// ErrOverrideRequired signals that occupying a space would consume another
// party's reservation and needs explicit staff confirmation. It classifies
// as a conflict for transport mapping.
var ErrOverrideRequired = fmt.Errorf("%w: space is reserved for a different vehicle, override confirmation required", ErrConflict)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
