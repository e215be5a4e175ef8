package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order on behalf of a customer, staff member
// or job, subject to that role's cancellation rights.
type CancelOrderCommand struct {
	orderID int64
	actor   kernel.Actor
	reason  string
	guard   guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID int64, actor kernel.Actor, reason string) (CancelOrderCommand, error) {
	reason = strings.TrimSpace(reason)
	var problems []error
	if orderID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", orderID)))
	}
	if reason == "" {
		problems = append(problems, errs.NewValueIsRequiredError("cancel reason"))
	}
	problems = append(problems, actor.Validate())
	if err := errors.Join(problems...); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		actor:   actor,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}
