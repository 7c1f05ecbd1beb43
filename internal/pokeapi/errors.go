package pokeapi

import (
	"errors"
	"fmt"
)

// Lookup failure classes.
var (
	// ErrNotFound covers non-success responses, empty queries and payloads
	// that do not decode into the expected shape.
	ErrNotFound = errors.New("not found")

	// ErrMalformed is a payload shape mismatch. It is a kind of ErrNotFound.
	ErrMalformed = fmt.Errorf("%w: malformed payload", ErrNotFound)

	// ErrUnavailable covers transport failures: DNS, refused connections,
	// timeouts and cancellation.
	ErrUnavailable = errors.New("api unavailable")
)

// LookupError describes a failed remote lookup.
type LookupError struct {
	Resource string
	Query    string
	Status   int
	Err      error
	Cause    error
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%s %q: %v", e.Resource, e.Query, e.Err)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the failure class and the underlying cause.
func (e *LookupError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// IsLookupFailure reports whether err is any remote lookup failure.
func IsLookupFailure(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable)
}
