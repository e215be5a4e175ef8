package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// RequestShipmentCommandHandler creates the carrier shipment outside any
// transaction, then hands the tracking code to the executor. If the
// transition is rejected the shipment is cancelled again on a best-effort basis.
type RequestShipmentCommandHandler struct {
	uowFactory UoWFactory
	executor   TransitionExecutor
	carrier    ports.CarrierClient
	logger     *slog.Logger
}

func NewRequestShipmentCommandHandler(
	uowFactory UoWFactory,
	executor TransitionExecutor,
	carrier ports.CarrierClient,
	logger *slog.Logger,
) RequestShipmentCommandHandler {
	return RequestShipmentCommandHandler{
		uowFactory: uowFactory,
		executor:   executor,
		carrier:    carrier,
		logger:     logger.With("component", "request_shipment"),
	}
}

func (h RequestShipmentCommandHandler) Handle(ctx context.Context, command RequestShipmentCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, command.orderID)
	if err != nil {
		return nil, err
	}

	// Cheap early exit; the executor re-checks under the lock.
	if !order.CanTransition(o.State(), order.Packing) {
		return nil, order.NewInvalidTransitionError(o.State(), order.Packing)
	}

	shipment, err := h.carrier.CreateShipment(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("create carrier shipment for order %d: %w", o.ID(), err)
	}

	transition, err := NewTransitionOrderCommand(o.ID(), order.Packing, order.TransitionContext{
		Actor:              command.actor,
		Reason:             fmt.Sprintf("shipment booked with %s", h.carrier.Name()),
		TrackingCode:       shipment.TrackingCode,
		CarrierName:        h.carrier.Name(),
		ExpectedDeliveryAt: shipment.ExpectedDeliveryAt,
	})
	if err != nil {
		return nil, err
	}

	updated, err := h.executor.Handle(ctx, transition)
	if err != nil {
		if cancelErr := h.carrier.CancelShipment(ctx, shipment.TrackingCode); cancelErr != nil {
			h.logger.ErrorContext(ctx, "orphaned carrier shipment",
				"order_id", o.ID(),
				"tracking_code", shipment.TrackingCode.String(),
				"error", cancelErr,
			)
		}
		return nil, err
	}

	return updated, nil
}
