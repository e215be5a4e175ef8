package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/guard"
)

var ErrReceiveCarrierWebhookCommandIsNotConstructed = errors.New(
	"ReceiveCarrierWebhookCommand must be created via NewReceiveCarrierWebhookCommand constructor",
)

// ReceiveCarrierWebhookCommand is one webhook delivery from the carrier.
// Carriers retry deliveries, so the same report may arrive several times.
type ReceiveCarrierWebhookCommand struct {
	reconcile ReconcileCarrierStatusCommand
	guard     guard.ConstructorGuard
}

func NewReceiveCarrierWebhookCommand(
	trackingCode string,
	carrierStatus string,
	reason string,
	reportedAt time.Time,
) (ReceiveCarrierWebhookCommand, error) {
	if reason == "" {
		reason = "carrier webhook"
	}
	reconcile, err := NewReconcileCarrierStatusCommand(trackingCode, carrierStatus, reason, reportedAt)
	if err != nil {
		return ReceiveCarrierWebhookCommand{}, err
	}
	return ReceiveCarrierWebhookCommand{
		reconcile: reconcile,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReceiveCarrierWebhookCommand) Validate() error {
	return c.guard.Validate(ErrReceiveCarrierWebhookCommandIsNotConstructed)
}

// DeliveryKey identifies a delivery for de-duplication.
func (c ReceiveCarrierWebhookCommand) DeliveryKey() string {
	return fmt.Sprintf("%s:%s:%d",
		c.reconcile.trackingCode, c.reconcile.carrierStatus, c.reconcile.reportedAt.Unix())
}
