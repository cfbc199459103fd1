// Package errs defines the error taxonomy shared across the trajectory
// module. Every algorithmic failure surfaced to an embedding application
// is one of the kinds below; callers branch on kind with errors.Is against
// the exported sentinels, or errors.As to recover the structured detail.
package errs

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Concrete error types below wrap one of these
// via Unwrap so that errors.Is(err, ErrConfiguration) keeps working after
// fmt.Errorf("%w", ...) wrapping at call sites.
var (
	ErrConfiguration           = errors.New("trajectory: invalid configuration")
	ErrSolutionModification    = errors.New("trajectory: invalid solution modification")
	ErrIncompatibleDelta       = errors.New("trajectory: incompatible delta move")
	ErrSearch                  = errors.New("trajectory: search invariant violated")
	ErrStatus                  = errors.New("trajectory: operation not permitted in current status")
)

// ConfigurationError reports a programmer error discovered at construction
// time: a nil required collaborator, an out-of-range parameter (Tmin >=
// Tmax, non-positive replica count, min size > max size). The offending
// object is never created; the caller must fix the call site and retry.
type ConfigurationError struct {
	Component string // e.g. "ParallelTempering", "Problem"
	Field     string // e.g. "Tmax", "Objective"
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("trajectory: %s: invalid %s: %s", e.Component, e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// SolutionModificationError reports an operation on a Solution that
// referred to an identity absent from its universe (e.g. selecting an
// unknown subset ID). Fatal for the operation; the Solution is left
// unchanged by the caller that produced this error.
type SolutionModificationError struct {
	Operation string
	Identity  any
}

func (e *SolutionModificationError) Error() string {
	return fmt.Sprintf("trajectory: %s: unknown identity %v", e.Operation, e.Identity)
}

func (e *SolutionModificationError) Unwrap() error { return ErrSolutionModification }

// IncompatibleDeltaError reports that a Move's concrete type was not
// recognised by a delta evaluator or validator. Fatal to the current
// search step; the search wraps it and surfaces it from Start.
type IncompatibleDeltaError struct {
	Evaluator string // evaluator/validator type name
	MoveType  string // concrete move type name (via %T)
}

func (e *IncompatibleDeltaError) Error() string {
	return fmt.Sprintf("trajectory: %s does not recognise move type %s", e.Evaluator, e.MoveType)
}

func (e *IncompatibleDeltaError) Unwrap() error { return ErrIncompatibleDelta }

// SearchException reports an internal invariant violation discovered
// during a run — including executor/goroutine failures in parallel
// tempering or BasicParallelSearch. Surfaced to the caller of Start.
type SearchException struct {
	Stage string
	Cause error
}

func (e *SearchException) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("trajectory: search failed during %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("trajectory: search failed during %s", e.Stage)
}

func (e *SearchException) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSearch, e.Cause}
	}
	return []error{ErrSearch}
}

// StatusError reports that an API call required a specific Status (most
// commonly IDLE) and the Search was in another one. Rejected without any
// side effect.
type StatusError struct {
	Operation string
	Required  string
	Actual    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trajectory: %s requires status %s, got %s", e.Operation, e.Required, e.Actual)
}

func (e *StatusError) Unwrap() error { return ErrStatus }
