package cli

import (
	"errors"
	"fmt"

	"github.com/rshade/pokefinder/internal/pokeapi"
)

// ExitCodeLookupFailed is returned when an entity could not be looked up.
const ExitCodeLookupFailed = 2

// ExitError carries a process exit code alongside the error to print.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// lookupFailed wraps remote lookup failures so main exits with
// ExitCodeLookupFailed. Other errors pass through.
func lookupFailed(err error) error {
	if err == nil {
		return nil
	}
	if pokeapi.IsLookupFailure(err) {
		return &ExitError{Code: ExitCodeLookupFailed, Err: fmt.Errorf("lookup failed: %w", err)}
	}
	return err
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
