package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipping"
)

// TransitionContext carries who asked for a transition, why, and the
// auxiliary fields merged into the persisted order and shipping record.
type TransitionContext struct {
	Actor              kernel.Actor
	Reason             string
	TrackingCode       kernel.TrackingCode
	CarrierName        string
	CarrierStatus      string
	ExpectedDeliveryAt time.Time
	CancelReason       string
	OccurredAt         time.Time
}

// Transition is the outcome of a successful TransitionTo. Shipping is the
// record to persist, or nil when the order has none. Restock and Events are
// the side effects the executor still has to carry out.
type Transition struct {
	From            State
	To              State
	Shipping        *shipping.Record
	ShippingChanged bool
	Restock         []Restock
	Events          []Event
}

// hookInput is the read-only view handed to lifecycle hooks.
type hookInput struct {
	order    Order
	shipping *shipping.Record
	previous State
	next     State
	ctx      TransitionContext
	at       time.Time
}

// changes is what a hook asks the aggregate to apply.
type changes struct {
	incrementFailedDeliveries bool
	flagRefund                bool
	carrierStatus             string
	dispatchReadyAt           *time.Time
	deliveredAt               *time.Time
	restock                   []Restock
	events                    []Event
}

// TransitionTo moves the order to target, validating legality and the entry
// precondition first. rec is the current shipping record (nil if none); it is
// never modified. All work happens on copies, so a rejected transition leaves
// the order untouched.
func (o *Order) TransitionTo(target State, rec *shipping.Record, tc TransitionContext) (Transition, error) {
	if err := o.Validate(); err != nil {
		return Transition{}, err
	}
	if err := target.Validate(); err != nil {
		return Transition{}, err
	}
	if err := tc.Actor.Validate(); err != nil {
		return Transition{}, err
	}

	from := o.state
	if !CanTransition(from, target) {
		return Transition{}, NewInvalidTransitionError(from, target)
	}

	at := tc.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	next := o.clone()
	record, shippingChanged, err := mergeShipping(next.id, rec.Clone(), tc)
	if err != nil {
		return Transition{}, err
	}

	if describe(target).requiresTrackingCode && !record.HasTrackingCode() {
		return Transition{}, NewPreconditionFailedError(target, "tracking code")
	}

	exit := describe(from).onExit(hookInput{
		order: *next, shipping: record.Clone(), previous: from, next: target, ctx: tc, at: at,
	})

	next.state = target
	next.updatedAt = at
	next.appendNote(auditLine(at, from, target, tc))
	if tc.CancelReason != "" {
		next.cancelReason = tc.CancelReason
	}

	enter, err := describe(target).onEnter(hookInput{
		order: *next, shipping: record.Clone(), previous: from, next: target, ctx: tc, at: at,
	})
	if err != nil {
		return Transition{}, err
	}

	if next.apply(enter, record) {
		shippingChanged = true
	}

	*o = *next
	return Transition{
		From:            from,
		To:              target,
		Shipping:        record,
		ShippingChanged: shippingChanged,
		Restock:         enter.restock,
		Events:          append(exit.events, enter.events...),
	}, nil
}

// apply writes hook changes into the order and the shipping record and
// reports whether the record changed.
func (o *Order) apply(c changes, rec *shipping.Record) bool {
	recordChanged := false
	if c.incrementFailedDeliveries {
		o.failedDeliveryCount++
		if rec != nil {
			rec.MirrorFailedDeliveries(o.failedDeliveryCount)
			recordChanged = true
		}
	}
	if c.flagRefund {
		o.refundRequired = true
	}
	if rec == nil {
		return recordChanged
	}
	if c.carrierStatus != "" {
		rec.RecordCarrierStatus(c.carrierStatus)
		recordChanged = true
	}
	if c.dispatchReadyAt != nil {
		rec.MarkDispatchReady(*c.dispatchReadyAt)
		recordChanged = true
	}
	if c.deliveredAt != nil {
		rec.MarkDelivered(*c.deliveredAt)
		recordChanged = true
	}
	return recordChanged
}

// mergeShipping folds the context's carrier fields into the record, creating
// it when the context brings the first tracking code.
func mergeShipping(orderID int64, rec *shipping.Record, tc TransitionContext) (*shipping.Record, bool, error) {
	changed := false
	if rec == nil {
		if tc.TrackingCode.IsEmpty() {
			return nil, false, nil
		}
		created, err := shipping.NewRecord(orderID, tc.TrackingCode, tc.CarrierName)
		if err != nil {
			return nil, false, err
		}
		rec, changed = created, true
	} else if err := rec.AttachTrackingCode(tc.TrackingCode); err != nil {
		return nil, false, err
	}

	if tc.CarrierName != "" && tc.CarrierName != rec.CarrierName() {
		rec.SetCarrierName(tc.CarrierName)
		changed = true
	}
	if tc.CarrierStatus != "" && tc.CarrierStatus != rec.CarrierStatus() {
		rec.RecordCarrierStatus(tc.CarrierStatus)
		changed = true
	}
	if !tc.ExpectedDeliveryAt.IsZero() {
		rec.SetExpectedDeliveryAt(tc.ExpectedDeliveryAt)
		changed = true
	}
	return rec, changed, nil
}

// auditLine renders "[<time>] From -> To by role:name: reason".
func auditLine(at time.Time, from, to State, tc TransitionContext) string {
	line := fmt.Sprintf("[%s] %s -> %s by %s", at.UTC().Format(time.RFC3339), from, to, tc.Actor)
	if tc.Reason != "" {
		line += ": " + tc.Reason
	}
	return line
}
