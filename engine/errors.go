/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Every error here is a definitional or configuration error: the run that
  hits one is aborted and the error surfaces to the caller unchanged.

ERROR CATEGORIES:
  1. Registry errors - Unknown or duplicate variable definitions
  2. Evaluation errors - Period mismatches, cyclic dependencies
  3. Collaborator errors - Malformed scales, periods, enum symbols,
     missing parameters

USAGE:
  Callers test categories with errors.Is:

    if errors.Is(err, engine.ErrCyclicDependency) {
        // formula-author error, fix the variable definitions
    }

SEE ALSO:
  - simulation.go: Produces evaluation errors
  - scale.go, period.go, enum.go: Produce collaborator errors
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownVariable is returned when evaluation requests a name that
	// was never registered.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrDuplicateVariable is returned when a name is registered twice.
	ErrDuplicateVariable = errors.New("duplicate variable")

	// ErrPeriodMismatch is returned when a variable is requested at a
	// granularity its definition does not support.
	ErrPeriodMismatch = errors.New("period mismatch")

	// ErrCyclicDependency is returned when a formula re-enters its own
	// (variable, period) pair while it is still being computed.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrInvalidScale is returned when bracket thresholds are not strictly
	// increasing or the first threshold is not zero.
	ErrInvalidScale = errors.New("invalid bracket scale")

	// ErrInvalidPeriod is returned when a month is outside 1..12.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrUnknownSymbol is returned when an enum comparison names a symbol
	// outside the type's closed set.
	ErrUnknownSymbol = errors.New("unknown enum symbol")

	// ErrUnknownParameter is returned when a dotted parameter path does not
	// resolve to a leaf of the expected kind.
	ErrUnknownParameter = errors.New("unknown parameter")

	// ErrNoParameters is returned when the parameter store has no parameter
	// set in effect for the requested period.
	ErrNoParameters = errors.New("no parameter set for period")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EvaluationError wraps a failure with the (variable, period) pair that was
// being evaluated when it occurred.
type EvaluationError struct {
	Variable string
	Period   Period
	Err      error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluating %s@%s: %v", e.Variable, e.Period, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

// CycleError reports the chain of formula calls that closed a cycle.
type CycleError struct {
	Variable string
	Period   Period
	Stack    []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency: %s@%s re-entered (stack: %v)",
		e.Variable, e.Period, e.Stack)
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsDefinitionError returns true if the error indicates a broken variable or
// parameter definition rather than bad caller input.
func IsDefinitionError(err error) bool {
	return errors.Is(err, ErrCyclicDependency) ||
		errors.Is(err, ErrInvalidScale) ||
		errors.Is(err, ErrDuplicateVariable) ||
		errors.Is(err, ErrUnknownParameter)
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownVariable) ||
		errors.Is(err, ErrPeriodMismatch) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownSymbol)
}
