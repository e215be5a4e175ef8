package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move one order to a target state.
//
// Example:
//
//	actor, _ := kernel.NewActor(kernel.RoleStaff, "alice")
//	cmd, err := NewTransitionOrderCommand(42, order.Confirmed, order.TransitionContext{
//	    Actor:  actor,
//	    Reason: "stock verified",
//	})
//	updated, err := executor.Handle(ctx, cmd)
type TransitionOrderCommand struct {
	orderID             int64
	target              order.State
	context             order.TransitionContext
	enforceCancelRights bool
	guard               guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID int64,
	target order.State,
	tc order.TransitionContext,
) (TransitionOrderCommand, error) {
	var problems []error
	if orderID <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("orderID", fmt.Errorf("%d is not positive", orderID)))
	}
	problems = append(problems, target.Validate(), tc.Actor.Validate())
	if err := errors.Join(problems...); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		target:  target,
		context: tc,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// WithCancelRights makes the executor check, under the row lock, that the
// actor's role may cancel from the order's current state.
func (c TransitionOrderCommand) WithCancelRights() TransitionOrderCommand {
	c.enforceCancelRights = true
	return c
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() int64 {
	return c.orderID
}

func (c TransitionOrderCommand) Target() order.State {
	return c.target
}

func (c TransitionOrderCommand) Context() order.TransitionContext {
	return c.context
}
