package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCanCancelOrderQueryIsNotConstructed = errors.New(
	"CanCancelOrderQuery must be created via NewCanCancelOrderQuery constructor",
)

// CanCancelOrderQuery tells whether a role may cancel an order right now.
// The answer is advisory: the cancel command re-checks under the row lock.
type CanCancelOrderQuery struct {
	orderID int64
	role    kernel.Role
	guard   guard.ConstructorGuard
}

func NewCanCancelOrderQuery(orderID int64, role string) (CanCancelOrderQuery, error) {
	r, roleErr := kernel.ParseRole(role)
	if err := errors.Join(validateOrderID(orderID), roleErr); err != nil {
		return CanCancelOrderQuery{}, err
	}
	return CanCancelOrderQuery{orderID: orderID, role: r, guard: guard.NewConstructorGuard()}, nil
}

func (q CanCancelOrderQuery) Validate() error {
	return q.guard.Validate(ErrCanCancelOrderQueryIsNotConstructed)
}

type CanCancelOrderQueryResponse struct {
	OrderID   int64
	State     order.State
	Role      kernel.Role
	CanCancel bool
}
