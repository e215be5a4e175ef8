package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

const autoCompleteActorName = "auto-complete"

// AutoCompleteDeliveredOrdersCommandHandler moves long-delivered orders to
// Completed through the executor. Orders that changed state since the listing
// are skipped; the executor's row lock decides.
type AutoCompleteDeliveredOrdersCommandHandler struct {
	uowFactory UoWFactory
	executor   TransitionExecutor
	now        func() time.Time
	logger     *slog.Logger
}

func NewAutoCompleteDeliveredOrdersCommandHandler(
	uowFactory UoWFactory,
	executor TransitionExecutor,
	logger *slog.Logger,
) AutoCompleteDeliveredOrdersCommandHandler {
	return AutoCompleteDeliveredOrdersCommandHandler{
		uowFactory: uowFactory,
		executor:   executor,
		now:        time.Now,
		logger:     logger.With("component", "auto_complete"),
	}
}

// Handle returns how many orders were completed.
func (h AutoCompleteDeliveredOrdersCommandHandler) Handle(
	ctx context.Context,
	command AutoCompleteDeliveredOrdersCommand,
) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	cutoff := h.now().Add(-command.gracePeriod)
	records, err := h.uowFactory.Create().ShippingRepository().ListDeliveredBefore(ctx, cutoff, command.batchSize)
	if err != nil {
		return 0, errs.NewPersistenceFailureError("list delivered orders", err)
	}

	completed := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}

		cmd, err := NewTransitionOrderCommand(rec.OrderID(), order.Completed, order.TransitionContext{
			Actor:  kernel.SystemActor(autoCompleteActorName),
			Reason: "no complaint within " + command.gracePeriod.String(),
		})
		if err != nil {
			return completed, err
		}

		if _, err = h.executor.Handle(ctx, cmd); err != nil {
			if !isDomainRejection(err) {
				h.logger.ErrorContext(ctx, "auto-complete failed", "order_id", rec.OrderID(), "error", err)
			}
			continue
		}
		completed++
	}

	return completed, nil
}
