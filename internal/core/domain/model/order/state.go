package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// State is a position in the order lifecycle. The zero value is not a state.
type State int

const (
	Unknown State = iota
	PendingPayment
	Pending
	Confirmed
	Packing
	ReadyToShip
	Shipping
	Delivered
	Completed
	Cancelled
	DeliveryFailed
	Refunding
	Refunded
)

// AllStates lists every valid state in lifecycle order.
func AllStates() []State {
	return []State{
		PendingPayment, Pending, Confirmed, Packing, ReadyToShip, Shipping,
		Delivered, Completed, Cancelled, DeliveryFailed, Refunding, Refunded,
	}
}

func getStateNames() map[State]string {
	return map[State]string{
		Unknown:        "Unknown",
		PendingPayment: "PendingPayment",
		Pending:        "Pending",
		Confirmed:      "Confirmed",
		Packing:        "Packing",
		ReadyToShip:    "ReadyToShip",
		Shipping:       "Shipping",
		Delivered:      "Delivered",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		DeliveryFailed: "DeliveryFailed",
		Refunding:      "Refunding",
		Refunded:       "Refunded",
	}
}

// ParseState maps a persisted or requested state name back to a State.
// Names are matched exactly; anything else is a ValueIsInvalidError.
func ParseState(name string) (State, error) {
	for s, n := range getStateNames() {
		if s != Unknown && n == name {
			return s, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a known state", name))
}

// Validate rejects Unknown and out-of-range values.
func (s State) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%d is not a valid state", s))
	}
	return nil
}

func (s State) String() string {
	if name, ok := getStateNames()[s]; ok {
		return name
	}
	return getStateNames()[Unknown]
}

// IsTerminal reports whether no transition leaves s.
func (s State) IsTerminal() bool {
	return len(describe(s).allowed) == 0
}
