package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition is wrapped by every InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrPreconditionFailed is wrapped by every PreconditionFailedError.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// InvalidTransitionError is returned when the target is not in the current
// state's allowed set. Allowed is what the caller could have asked for.
type InvalidTransitionError struct {
	From    State
	To      State
	Allowed []State
}

// NewInvalidTransitionError fills Allowed from the lifecycle table.
//
// Example:
//
//	err := order.NewInvalidTransitionError(order.Delivered, order.Packing)
//	errors.Is(err, order.ErrInvalidTransition) // true
//	err.Allowed                                // [Completed Refunding]
func NewInvalidTransitionError(from, to State) *InvalidTransitionError {
	return &InvalidTransitionError{
		From:    from,
		To:      to,
		Allowed: AllowedTransitions(from),
	}
}

func (e *InvalidTransitionError) Error() string {
	names := make([]string, 0, len(e.Allowed))
	for _, s := range e.Allowed {
		names = append(names, s.String())
	}
	allowed := strings.Join(names, ", ")
	if allowed == "" {
		allowed = "none, state is terminal"
	}
	return fmt.Sprintf("%s: %s -> %s (allowed: %s)", ErrInvalidTransition, e.From, e.To, allowed)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// PreconditionFailedError is returned when the target state's entry
// requirement is not met, e.g. Packing without a tracking code.
type PreconditionFailedError struct {
	State   State
	Missing string
}

func NewPreconditionFailedError(state State, missing string) *PreconditionFailedError {
	return &PreconditionFailedError{State: state, Missing: missing}
}

func (e *PreconditionFailedError) Error() string {
	return fmt.Sprintf("%s: %s requires %s", ErrPreconditionFailed, e.State, e.Missing)
}

func (e *PreconditionFailedError) Unwrap() error {
	return ErrPreconditionFailed
}
