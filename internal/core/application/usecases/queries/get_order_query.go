// Package queries contains read operations over orders. Handlers read with
// plain SQL and return flat read models; nothing here locks or mutates.
package queries

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery fetches one order together with its shipping record and the
// transitions currently open to it.
//
// Example:
//
//	query, err := NewGetOrderQuery(42)
//	view, err := NewGetOrderQueryHandler(db).Handle(ctx, query)
//	fmt.Println(view.State, view.AvailableTransitions)
type GetOrderQuery struct {
	orderID int64
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID int64) (GetOrderQuery, error) {
	if err := validateOrderID(orderID); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

type GetOrderQueryResponse struct {
	ID                   int64
	Code                 string
	State                order.State
	PaymentMethod        string
	Paid                 bool
	RefundRequired       bool
	FailedDeliveryCount  int
	CancelReason         string
	Note                 string
	GrandTotal           decimal.Decimal
	Editable             bool
	AvailableTransitions []order.State
	Shipping             *ShippingView
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ShippingView is nil on the response until a shipment was booked.
type ShippingView struct {
	TrackingCode       string
	CarrierName        string
	CarrierStatus      string
	ExpectedDeliveryAt *time.Time
	DeliveredAt        *time.Time
}

func validateOrderID(orderID int64) error {
	if orderID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", orderID))
	}
	return nil
}
