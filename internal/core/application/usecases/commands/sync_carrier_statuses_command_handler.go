package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// SyncReport summarises one polling pass.
type SyncReport struct {
	Checked int
	Updated int
	Failed  int
}

// inFlightStates are the states in which the carrier may still report progress.
var inFlightStates = []order.State{
	order.Packing,
	order.ReadyToShip,
	order.Shipping,
	order.DeliveryFailed,
}

// SyncCarrierStatusesCommandHandler is the polling twin of the webhook path.
// Each shipment is reconciled on its own; one failure never stops the pass.
type SyncCarrierStatusesCommandHandler struct {
	uowFactory UoWFactory
	carrier    ports.CarrierClient
	reconciler CarrierStatusReconciler
	now        func() time.Time
	logger     *slog.Logger
}

func NewSyncCarrierStatusesCommandHandler(
	uowFactory UoWFactory,
	carrier ports.CarrierClient,
	reconciler CarrierStatusReconciler,
	logger *slog.Logger,
) SyncCarrierStatusesCommandHandler {
	return SyncCarrierStatusesCommandHandler{
		uowFactory: uowFactory,
		carrier:    carrier,
		reconciler: reconciler,
		now:        time.Now,
		logger:     logger.With("component", "carrier_sync"),
	}
}

func (h SyncCarrierStatusesCommandHandler) Handle(ctx context.Context, command SyncCarrierStatusesCommand) (SyncReport, error) {
	if err := command.Validate(); err != nil {
		return SyncReport{}, err
	}

	records, err := h.uowFactory.Create().ShippingRepository().ListByOrderStates(ctx, inFlightStates, command.batchSize)
	if err != nil {
		return SyncReport{}, errs.NewPersistenceFailureError("list in-flight shipments", err)
	}

	var report SyncReport
	for _, rec := range records {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if !rec.HasTrackingCode() {
			continue
		}
		report.Checked++

		status, err := h.carrier.FetchStatus(ctx, rec.TrackingCode())
		if err != nil {
			report.Failed++
			h.logger.WarnContext(ctx, "fetch carrier status",
				"order_id", rec.OrderID(),
				"tracking_code", rec.TrackingCode().String(),
				"error", err,
			)
			continue
		}
		if services.Normalize(status.Status) == rec.CarrierStatus() {
			continue
		}

		reportedAt := status.UpdatedAt
		if reportedAt.IsZero() {
			reportedAt = h.now()
		}
		cmd, err := NewReconcileCarrierStatusCommand(rec.TrackingCode().String(), status.Status, "carrier status poll", reportedAt)
		if err != nil {
			report.Failed++
			h.logger.WarnContext(ctx, "malformed carrier status", "order_id", rec.OrderID(), "error", err)
			continue
		}

		res, err := h.reconciler.Handle(ctx, cmd)
		if err != nil {
			report.Failed++
			continue
		}
		if res.Updated {
			report.Updated++
		}
	}

	h.logger.InfoContext(ctx, "carrier sync finished",
		"checked", report.Checked,
		"updated", report.Updated,
		"failed", report.Failed,
	)
	return report, nil
}
