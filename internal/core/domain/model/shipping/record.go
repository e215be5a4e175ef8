// Package shipping models the carrier-facing companion of an order.
package shipping

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// StatusReadyToPick is written when an order enters ReadyToShip, before the
// carrier reports anything of its own.
const StatusReadyToPick = "ready_to_pick"

var (
	// ErrRecordIsNotConstructed is returned by Validate for a nil or zero Record.
	ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord or RestoreRecord")
	// ErrTrackingCodeImmutable is returned when a different tracking code is
	// attached to a record that already has one.
	ErrTrackingCodeImmutable = errors.New("tracking code cannot be changed once assigned")
)

// Record is the 1:1 shipping companion of an order. It is created the first
// time a carrier shipment is requested and its tracking code never changes
// afterwards. The carrier status is free text owned by the carrier; the
// internal state machine never reads it for decisions.
type Record struct {
	orderID             int64
	trackingCode        kernel.TrackingCode
	carrierName         string
	carrierStatus       string
	expectedDeliveryAt  *time.Time
	dispatchReadyAt     *time.Time
	deliveredAt         *time.Time
	failedDeliveryCount int
	isNew               bool
	isConstructed       bool
}

// NewRecord starts a record for a freshly created carrier shipment. The
// record reports IsNew until the repository has inserted it.
//
// Parameters:
//   - orderID: the owning order (must be positive)
//   - trackingCode: the carrier's code (required)
//   - carrierName: the carrier that issued the code, e.g. "ghn"
//
// Returns every validation problem joined into one error.
//
// Example:
//
//	code, _ := kernel.NewTrackingCode("GHN8X2K")
//	rec, err := shipping.NewRecord(7, code, "ghn")
func NewRecord(orderID int64, trackingCode kernel.TrackingCode, carrierName string) (*Record, error) {
	var problems []error
	if orderID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", orderID)))
	}
	if trackingCode.IsEmpty() {
		problems = append(problems, errs.NewValueIsRequiredError("tracking code"))
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}

	return &Record{
		orderID:       orderID,
		trackingCode:  trackingCode,
		carrierName:   carrierName,
		isNew:         true,
		isConstructed: true,
	}, nil
}

// RestoreParams carries persisted column values back into a Record.
type RestoreParams struct {
	OrderID             int64
	TrackingCode        kernel.TrackingCode
	CarrierName         string
	CarrierStatus       string
	ExpectedDeliveryAt  *time.Time
	DispatchReadyAt     *time.Time
	DeliveredAt         *time.Time
	FailedDeliveryCount int
}

// RestoreRecord rebuilds a Record from storage without validation; the
// stored row was validated when it was written. The result is not new.
func RestoreRecord(p RestoreParams) *Record {
	return &Record{
		orderID:             p.OrderID,
		trackingCode:        p.TrackingCode,
		carrierName:         p.CarrierName,
		carrierStatus:       p.CarrierStatus,
		expectedDeliveryAt:  p.ExpectedDeliveryAt,
		dispatchReadyAt:     p.DispatchReadyAt,
		deliveredAt:         p.DeliveredAt,
		failedDeliveryCount: p.FailedDeliveryCount,
		isConstructed:       true,
	}
}

// Validate rejects a nil record and one built without a constructor.
func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

// Clone returns an independent copy; timestamps are copied by value.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.expectedDeliveryAt = copyTime(r.expectedDeliveryAt)
	c.dispatchReadyAt = copyTime(r.dispatchReadyAt)
	c.deliveredAt = copyTime(r.deliveredAt)
	return &c
}

// AttachTrackingCode accepts the same code again and rejects a different one.
func (r *Record) AttachTrackingCode(code kernel.TrackingCode) error {
	if code.IsEmpty() || r.trackingCode.IsEqual(code) {
		return nil
	}
	return fmt.Errorf("%w: %s != %s", ErrTrackingCodeImmutable, r.trackingCode, code)
}

// SetCarrierName ignores an empty name.
func (r *Record) SetCarrierName(name string) {
	if name != "" {
		r.carrierName = name
	}
}

// RecordCarrierStatus stores the carrier's latest raw status. An empty
// status is ignored.
func (r *Record) RecordCarrierStatus(status string) {
	if status != "" {
		r.carrierStatus = status
	}
}

// SetExpectedDeliveryAt ignores the zero time.
func (r *Record) SetExpectedDeliveryAt(at time.Time) {
	if !at.IsZero() {
		r.expectedDeliveryAt = &at
	}
}

// MarkDispatchReady stamps when the parcel became ready for pickup.
func (r *Record) MarkDispatchReady(at time.Time) {
	r.dispatchReadyAt = &at
}

// MarkDelivered stamps when the carrier delivered the parcel.
func (r *Record) MarkDelivered(at time.Time) {
	r.deliveredAt = &at
}

// MirrorFailedDeliveries copies the order's counter; the order owns it.
func (r *Record) MirrorFailedDeliveries(count int) {
	r.failedDeliveryCount = count
}

// MarkPersisted clears the new flag once the repository has inserted the row.
func (r *Record) MarkPersisted() {
	r.isNew = false
}

// Accessors. Timestamps are returned as copies.

func (r *Record) OrderID() int64                   { return r.orderID }
func (r *Record) TrackingCode() kernel.TrackingCode { return r.trackingCode }
func (r *Record) HasTrackingCode() bool             { return r != nil && !r.trackingCode.IsEmpty() }
func (r *Record) CarrierName() string               { return r.carrierName }
func (r *Record) CarrierStatus() string             { return r.carrierStatus }
func (r *Record) ExpectedDeliveryAt() *time.Time    { return copyTime(r.expectedDeliveryAt) }
func (r *Record) DispatchReadyAt() *time.Time       { return copyTime(r.dispatchReadyAt) }
func (r *Record) DeliveredAt() *time.Time           { return copyTime(r.deliveredAt) }
func (r *Record) FailedDeliveryCount() int          { return r.failedDeliveryCount }
func (r *Record) IsNew() bool                       { return r.isNew }

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
