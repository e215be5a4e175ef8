package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type GetAvailableTransitionsQueryHandler struct {
	db *gorm.DB
}

func NewGetAvailableTransitionsQueryHandler(db *gorm.DB) GetAvailableTransitionsQueryHandler {
	return GetAvailableTransitionsQueryHandler{db: db}
}

func (h GetAvailableTransitionsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableTransitionsQuery,
) (GetAvailableTransitionsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAvailableTransitionsQueryResponse{}, err
	}

	state, err := readState(ctx, h.db, query.orderID)
	if err != nil {
		return GetAvailableTransitionsQueryResponse{}, err
	}

	return GetAvailableTransitionsQueryResponse{
		OrderID: query.orderID,
		State:   state,
		Allowed: order.AllowedTransitions(state),
	}, nil
}
