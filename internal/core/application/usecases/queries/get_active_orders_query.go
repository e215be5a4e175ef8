package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

const maxActiveOrdersLimit = 200

// GetActiveOrdersQuery lists orders that have not reached a terminal state,
// oldest first. It backs the operations dashboard.
type GetActiveOrdersQuery struct {
	limit int
	guard guard.ConstructorGuard
}

func NewGetActiveOrdersQuery(limit int) (GetActiveOrdersQuery, error) {
	if limit < 1 || limit > maxActiveOrdersLimit {
		return GetActiveOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, maxActiveOrdersLimit)
	}
	return GetActiveOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

type GetActiveOrdersQueryResponse struct {
	ID           int64
	Code         string
	State        order.State
	TrackingCode string
}
