package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestShipmentCommandIsNotConstructed = errors.New(
	"RequestShipmentCommand must be created via NewRequestShipmentCommand constructor",
)

// RequestShipmentCommand books a carrier pickup for a confirmed order and
// moves it to Packing with the returned tracking code.
type RequestShipmentCommand struct {
	orderID int64
	actor   kernel.Actor
	guard   guard.ConstructorGuard
}

func NewRequestShipmentCommand(orderID int64, actor kernel.Actor) (RequestShipmentCommand, error) {
	var idErr error
	if orderID <= 0 {
		idErr = errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", orderID))
	}
	if err := errors.Join(idErr, actor.Validate()); err != nil {
		return RequestShipmentCommand{}, err
	}
	return RequestShipmentCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRequestShipmentCommandIsNotConstructed)
}
