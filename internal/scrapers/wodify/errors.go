package wodify

import (
	"errors"
	"fmt"
)

// ErrEndpointNotFound is returned (wrapped in a ResolutionError) when an
// operation's endpoint could not be found in the client bundles.
var ErrEndpointNotFound = errors.New("could not find api")

// ErrRateLimited is returned when the caller's context ends before the local
// rate limiter lets a request through. Nothing was sent to wodify.
var ErrRateLimited = errors.New("rate limited")

var errMissingField = errors.New("missing field")

// ResolutionError means endpoint discovery failed. It is memoized by the
// Resolver, so every later call in the process fails with the same error.
type ResolutionError struct {
	// Operation is empty when the failure is not specific to one operation.
	Operation Operation
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("wodify: resolve endpoint %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("wodify: resolve endpoints: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// TransportError means every attempt of a call timed out or failed at the network level.
type TransportError struct {
	Operation Operation
	Attempts  int
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wodify: %s failed after %d attempt(s): %v", e.Operation, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DomainError is a well-formed response with its error indicator set, the
// message comes from wodify itself (ex. wrong password, class full).
type DomainError struct {
	Operation Operation
	Message   string
}

func (e *DomainError) Error() string {
	return e.Message
}

// ParseError means the response was not json or did not have the expected shape.
type ParseError struct {
	Operation Operation
	Status    int
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wodify: %s: unexpected response (status %d): %v", e.Operation, e.Status, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
