package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CancelOrderCommandHandler runs the Cancelled transition with the actor's
// cancellation rights enforced under the row lock, then withdraws the carrier
// shipment if one was booked. The carrier call happens after commit and its
// failure is only logged.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	executor   TransitionExecutor
	carrier    ports.CarrierClient
	logger     *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	executor TransitionExecutor,
	carrier ports.CarrierClient,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		executor:   executor,
		carrier:    carrier,
		logger:     logger.With("component", "cancel_order"),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, command CancelOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	transition, err := NewTransitionOrderCommand(command.orderID, order.Cancelled, order.TransitionContext{
		Actor:        command.actor,
		Reason:       command.reason,
		CancelReason: command.reason,
	})
	if err != nil {
		return nil, err
	}

	updated, err := h.executor.Handle(ctx, transition.WithCancelRights())
	if err != nil {
		return nil, err
	}

	if command.actor.Role() != kernel.RoleCarrier {
		h.withdrawShipment(ctx, updated.ID())
	}
	return updated, nil
}

func (h CancelOrderCommandHandler) withdrawShipment(ctx context.Context, orderID int64) {
	rec, err := h.uowFactory.Create().ShippingRepository().GetByOrderID(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "load shipping record for carrier cancellation", "order_id", orderID, "error", err)
		return
	}

	if err = h.carrier.CancelShipment(ctx, rec.TrackingCode()); err != nil {
		h.logger.ErrorContext(ctx, "carrier shipment cancellation failed",
			"order_id", orderID,
			"tracking_code", rec.TrackingCode().String(),
			"error", err,
		)
	}
}
