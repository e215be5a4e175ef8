package services

import (
	"fmt"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/order"
)

// Carrier status codes as reported by the GHN shipping API.
const (
	CarrierStatusReadyToPick        = "ready_to_pick"
	CarrierStatusPicking            = "picking"
	CarrierStatusPicked             = "picked"
	CarrierStatusStoring            = "storing"
	CarrierStatusTransporting       = "transporting"
	CarrierStatusSorting            = "sorting"
	CarrierStatusDelivering         = "delivering"
	CarrierStatusDelivered          = "delivered"
	CarrierStatusDeliveryFail       = "delivery_fail"
	CarrierStatusWaitingToReturn    = "waiting_to_return"
	CarrierStatusReturn             = "return"
	CarrierStatusReturnTransporting = "return_transporting"
	CarrierStatusReturnSorting      = "return_sorting"
	CarrierStatusReturning          = "returning"
	CarrierStatusReturnFail         = "return_fail"
	CarrierStatusReturned           = "returned"
	CarrierStatusCancel             = "cancel"
	CarrierStatusException          = "exception"
	CarrierStatusDamage             = "damage"
	CarrierStatusLost               = "lost"
)

// Outcome classifies a carrier report against the current order state.
type Outcome int

const (
	// OutcomeApply means the report maps to a legal transition.
	OutcomeApply Outcome = iota + 1
	// OutcomeUnmapped means the status has no internal counterpart.
	OutcomeUnmapped
	// OutcomeAlreadyInState means the order already reflects the report.
	OutcomeAlreadyInState
	// OutcomeIllegal means the report is stale or out of order.
	OutcomeIllegal
)

// Decision is the translator's verdict. Target is set for every mapped
// status. Path lists the lifecycle steps that lead from the current state to
// Target, Target last; it is set only for OutcomeApply.
type Decision struct {
	Outcome Outcome
	Target  order.State
	Path    []order.State
	Message string
}

type mapping struct {
	target order.State
	// routes maps each accepted source state to the steps that reach target.
	// nil means any state with a direct transition to target.
	routes map[order.State][]order.State
}

// CarrierStatusTranslator owns the carrier status -> lifecycle table. It
// never bypasses the lifecycle: a route is applied only when
// order.CanTransition agrees with every step of it.
//
// Carriers skip states the lifecycle records. A parcel picked up straight
// from Packing passes through ReadyToShip, and a parcel returned to sender
// while Shipping passes through DeliveryFailed.
type CarrierStatusTranslator struct {
	table map[string]mapping
}

func NewCarrierStatusTranslator() CarrierStatusTranslator {
	returnedInTransit := mapping{
		target: order.DeliveryFailed,
		routes: map[order.State][]order.State{
			order.Shipping: {order.DeliveryFailed},
		},
	}
	return CarrierStatusTranslator{table: map[string]mapping{
		CarrierStatusPicked: {
			target: order.Shipping,
			routes: map[order.State][]order.State{
				order.Packing:     {order.ReadyToShip, order.Shipping},
				order.ReadyToShip: {order.Shipping},
			},
		},
		CarrierStatusDelivered: {
			target: order.Delivered,
			routes: map[order.State][]order.State{
				order.Shipping: {order.Delivered},
			},
		},
		CarrierStatusDeliveryFail: returnedInTransit,

		CarrierStatusWaitingToReturn:    returnedInTransit,
		CarrierStatusReturn:             returnedInTransit,
		CarrierStatusReturnTransporting: returnedInTransit,
		CarrierStatusReturning:          returnedInTransit,

		CarrierStatusReturned: {
			target: order.Cancelled,
			routes: map[order.State][]order.State{
				order.Shipping:       {order.DeliveryFailed, order.Cancelled},
				order.DeliveryFailed: {order.Cancelled},
			},
		},
		CarrierStatusCancel: {target: order.Cancelled},
	}}
}

// Normalize lower-cases and trims a raw carrier status.
func Normalize(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// Target returns the lifecycle state a carrier status maps to.
func (t CarrierStatusTranslator) Target(status string) (order.State, bool) {
	m, ok := t.table[Normalize(status)]
	return m.target, ok
}

// Decide evaluates a carrier report against the freshly read current state.
func (t CarrierStatusTranslator) Decide(current order.State, status string) Decision {
	status = Normalize(status)
	m, ok := t.table[status]
	if !ok {
		return Decision{
			Outcome: OutcomeUnmapped,
			Message: fmt.Sprintf("carrier status %q has no internal transition", status),
		}
	}

	if current == m.target {
		return Decision{
			Outcome: OutcomeAlreadyInState,
			Target:  m.target,
			Message: fmt.Sprintf("already in state %s", current),
		}
	}

	path, ok := m.route(current)
	if !ok {
		return Decision{
			Outcome: OutcomeIllegal,
			Target:  m.target,
			Message: fmt.Sprintf("carrier status %q cannot move order from %s to %s", status, current, m.target),
		}
	}

	return Decision{
		Outcome: OutcomeApply,
		Target:  m.target,
		Path:    path,
		Message: fmt.Sprintf("carrier status %q moves order from %s to %s", status, current, m.target),
	}
}

// route returns a copy of the steps from current to the mapping's target, or
// false when no route starts at current or a step is not a legal transition.
func (m mapping) route(current order.State) ([]order.State, bool) {
	var path []order.State
	if m.routes == nil {
		path = []order.State{m.target}
	} else {
		steps, ok := m.routes[current]
		if !ok {
			return nil, false
		}
		path = slices.Clone(steps)
	}

	from := current
	for _, step := range path {
		if !order.CanTransition(from, step) {
			return nil, false
		}
		from = step
	}
	return path, true
}
