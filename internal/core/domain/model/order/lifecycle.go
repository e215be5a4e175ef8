package order

import (
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
)

type (
	enterHook func(in hookInput) (changes, error)
	exitHook  func(in hookInput) changes
)

// descriptor is one row of the lifecycle table.
type descriptor struct {
	allowed              []State
	requiresTrackingCode bool
	customerCanCancel    bool
	staffCanCancel       bool
	editable             bool
	onEnter              enterHook
	onExit               exitHook
}

var lifecycle = map[State]descriptor{
	PendingPayment: {
		allowed:           []State{Pending, Cancelled},
		customerCanCancel: true,
		staffCanCancel:    true,
		editable:          true,
		onEnter:           enterPendingPayment,
		onExit:            exitPendingPayment,
	},
	Pending: {
		allowed:           []State{Confirmed, Cancelled},
		customerCanCancel: true,
		staffCanCancel:    true,
		editable:          true,
		onEnter:           enterPending,
	},
	Confirmed: {
		allowed:        []State{Packing, Cancelled},
		staffCanCancel: true,
		editable:       true,
		onEnter:        enterConfirmed,
	},
	Packing: {
		allowed:              []State{ReadyToShip, Cancelled},
		requiresTrackingCode: true,
		staffCanCancel:       true,
		onEnter:              enterPacking,
	},
	ReadyToShip: {
		allowed:              []State{Shipping, Cancelled},
		requiresTrackingCode: true,
		staffCanCancel:       true,
		onEnter:              enterReadyToShip,
	},
	Shipping: {
		allowed:              []State{Delivered, DeliveryFailed},
		requiresTrackingCode: true,
		onEnter:              enterShipping,
	},
	Delivered: {
		allowed: []State{Completed, Refunding},
		onEnter: enterDelivered,
	},
	Completed: {
		onEnter: enterCompleted,
	},
	Cancelled: {
		onEnter: enterCancelled,
	},
	DeliveryFailed: {
		allowed:           []State{Shipping, Cancelled},
		customerCanCancel: true,
		staffCanCancel:    true,
		onEnter:           enterDeliveryFailed,
	},
	Refunding: {
		allowed: []State{Refunded},
		onEnter: enterRefunding,
	},
	Refunded: {
		onEnter: enterRefunded,
	},
}

func describe(s State) descriptor {
	d := lifecycle[s]
	if d.onEnter == nil {
		d.onEnter = func(hookInput) (changes, error) { return changes{}, nil }
	}
	if d.onExit == nil {
		d.onExit = func(hookInput) changes { return changes{} }
	}
	return d
}

// AllowedTransitions returns a copy of the states reachable from s.
func AllowedTransitions(s State) []State {
	return slices.Clone(describe(s).allowed)
}

// CanTransition is the single legality rule: to must be in from's allowed set.
func CanTransition(from, to State) bool {
	return slices.Contains(describe(from).allowed, to)
}

// RequiresTrackingCode reports the entry precondition of s.
func RequiresTrackingCode(s State) bool {
	return describe(s).requiresTrackingCode
}

// CustomerCanCancel reports whether a customer may cancel an order in s:
// only before the order is confirmed, or after a failed delivery attempt.
//
// Example:
//
//	order.CustomerCanCancel(order.Pending)   // true
//	order.CustomerCanCancel(order.Confirmed) // false
func CustomerCanCancel(s State) bool {
	return describe(s).customerCanCancel
}

// StaffCanCancel reports whether staff may cancel an order in s: any time
// before the parcel leaves with the carrier, and after a failed delivery.
// Once Shipping, only the carrier's outcome moves the order on.
func StaffCanCancel(s State) bool {
	return describe(s).staffCanCancel
}

// IsEditable reports whether line items and address may still change.
func IsEditable(s State) bool {
	return describe(s).editable
}

// CanCancel answers the cancellation capability for a role. Scheduled jobs
// share staff rights; the carrier may cancel wherever the table allows it.
func CanCancel(s State, role kernel.Role) bool {
	switch role {
	case kernel.RoleCustomer:
		return CustomerCanCancel(s)
	case kernel.RoleStaff, kernel.RoleSystem:
		return StaffCanCancel(s)
	case kernel.RoleCarrier:
		return CanTransition(s, Cancelled)
	default:
		return false
	}
}
