package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrAmbiguousCommit marks a commit whose outcome cannot be known from the
	// returned error alone: the driver says the transaction is already finished
	// or was rolled back earlier in the same call chain. Callers must re-read
	// the persisted state before deciding whether the write landed.
	ErrAmbiguousCommit = errors.New("commit outcome is ambiguous")

	// ErrPersistenceFailure marks a storage failure after which the
	// transaction was rolled back, or reconciled and found not applied.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// AmbiguousCommitError wraps the driver error of a commit with unknown
// outcome. Only the unit of work creates it, and only the executor consumes it.
type AmbiguousCommitError struct {
	Cause error
}

func NewAmbiguousCommitError(cause error) *AmbiguousCommitError {
	return &AmbiguousCommitError{Cause: cause}
}

func (e *AmbiguousCommitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", ErrAmbiguousCommit, e.Cause)
	}
	return ErrAmbiguousCommit.Error()
}

// Unwrap exposes both the sentinel and the driver error so errors.Is works
// against either.
func (e *AmbiguousCommitError) Unwrap() []error {
	return []error{ErrAmbiguousCommit, e.Cause}
}

// PersistenceFailureError names the operation that could not be persisted.
type PersistenceFailureError struct {
	Operation string
	Cause     error
}

// NewPersistenceFailureError wraps cause, which may be nil.
//
// Example:
//
//	err := errs.NewPersistenceFailureError("restock product 11", cause)
//	// "persistence failure: restock product 11 (cause: ...)"
func NewPersistenceFailureError(operation string, cause error) *PersistenceFailureError {
	return &PersistenceFailureError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *PersistenceFailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrPersistenceFailure, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrPersistenceFailure, e.Operation)
}

// Unwrap keeps the cause reachable, so errors.Is also matches what the cause
// wraps, such as ErrObjectNotFound. Check ErrPersistenceFailure first when
// classifying.
func (e *PersistenceFailureError) Unwrap() []error {
	return []error{ErrPersistenceFailure, e.Cause}
}
