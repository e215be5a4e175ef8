package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

type CanCancelOrderQueryHandler struct {
	db *gorm.DB
}

func NewCanCancelOrderQueryHandler(db *gorm.DB) CanCancelOrderQueryHandler {
	return CanCancelOrderQueryHandler{db: db}
}

func (h CanCancelOrderQueryHandler) Handle(ctx context.Context, query CanCancelOrderQuery) (CanCancelOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CanCancelOrderQueryResponse{}, err
	}

	state, err := readState(ctx, h.db, query.orderID)
	if err != nil {
		return CanCancelOrderQueryResponse{}, err
	}

	return CanCancelOrderQueryResponse{
		OrderID:   query.orderID,
		State:     state,
		Role:      query.role,
		CanCancel: order.CanCancel(state, query.role),
	}, nil
}

func readState(ctx context.Context, db *gorm.DB, orderID int64) (order.State, error) {
	var name string
	err := db.WithContext(ctx).Raw(`SELECT state FROM orders WHERE id = ?`, orderID).Row().Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return order.Unknown, errs.NewObjectNotFoundError("orderID", orderID)
	}
	if err != nil {
		return order.Unknown, err
	}
	return order.ParseState(name)
}
