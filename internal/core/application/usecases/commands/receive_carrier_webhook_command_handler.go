package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// ReceiveCarrierWebhookCommandHandler drops repeated webhook deliveries and
// forwards the rest to the reconciler. When the de-duplication store is
// unreachable the delivery is still reconciled: reconciliation is idempotent,
// the store only saves work. A delivery whose reconciliation fails is
// forgotten again, so the carrier's redelivery gets another chance.
type ReceiveCarrierWebhookCommandHandler struct {
	dedup      ports.WebhookDeduplicator
	reconciler CarrierStatusReconciler
	logger     *slog.Logger
}

func NewReceiveCarrierWebhookCommandHandler(
	dedup ports.WebhookDeduplicator,
	reconciler CarrierStatusReconciler,
	logger *slog.Logger,
) ReceiveCarrierWebhookCommandHandler {
	return ReceiveCarrierWebhookCommandHandler{
		dedup:      dedup,
		reconciler: reconciler,
		logger:     logger.With("component", "carrier_webhook"),
	}
}

func (h ReceiveCarrierWebhookCommandHandler) Handle(
	ctx context.Context,
	command ReceiveCarrierWebhookCommand,
) (ReconciliationResult, error) {
	if err := command.Validate(); err != nil {
		return ReconciliationResult{}, err
	}

	key := command.DeliveryKey()
	first, err := h.dedup.FirstSeen(ctx, key)
	remembered := err == nil
	if err != nil {
		h.logger.WarnContext(ctx, "webhook de-duplication unavailable", "error", err)
		first = true
	}
	if !first {
		return ReconciliationResult{Updated: false, Message: "duplicate webhook delivery"}, nil
	}

	res, err := h.reconciler.Handle(ctx, command.reconcile)
	if err != nil && remembered {
		if forgetErr := h.dedup.Forget(context.WithoutCancel(ctx), key); forgetErr != nil {
			h.logger.WarnContext(ctx, "release webhook delivery failed", "key", key, "error", forgetErr)
		}
	}
	return res, err
}
