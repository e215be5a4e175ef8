package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAvailableTransitionsQueryIsNotConstructed = errors.New(
	"GetAvailableTransitionsQuery must be created via NewGetAvailableTransitionsQuery constructor",
)

// GetAvailableTransitionsQuery answers which states an order may move to
// next. Admin screens use it to render their action buttons.
type GetAvailableTransitionsQuery struct {
	orderID int64
	guard   guard.ConstructorGuard
}

func NewGetAvailableTransitionsQuery(orderID int64) (GetAvailableTransitionsQuery, error) {
	if err := validateOrderID(orderID); err != nil {
		return GetAvailableTransitionsQuery{}, err
	}
	return GetAvailableTransitionsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAvailableTransitionsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableTransitionsQueryIsNotConstructed)
}

type GetAvailableTransitionsQueryResponse struct {
	OrderID int64
	State   order.State
	Allowed []order.State
}
