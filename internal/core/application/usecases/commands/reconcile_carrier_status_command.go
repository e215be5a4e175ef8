package commands

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcileCarrierStatusCommandIsNotConstructed = errors.New(
	"ReconcileCarrierStatusCommand must be created via NewReconcileCarrierStatusCommand constructor",
)

// ReconcileCarrierStatusCommand reports a carrier status for a tracking code,
// whether it came from a webhook or from polling.
type ReconcileCarrierStatusCommand struct {
	trackingCode  kernel.TrackingCode
	carrierStatus string
	reason        string
	reportedAt    time.Time
	guard         guard.ConstructorGuard
}

func NewReconcileCarrierStatusCommand(
	trackingCode string,
	carrierStatus string,
	reason string,
	reportedAt time.Time,
) (ReconcileCarrierStatusCommand, error) {
	code, codeErr := kernel.NewTrackingCode(trackingCode)
	status := services.Normalize(carrierStatus)
	var statusErr error
	if status == "" {
		statusErr = errs.NewValueIsRequiredError("carrier status")
	}
	if err := errors.Join(codeErr, statusErr); err != nil {
		return ReconcileCarrierStatusCommand{}, err
	}

	return ReconcileCarrierStatusCommand{
		trackingCode:  code,
		carrierStatus: status,
		reason:        strings.TrimSpace(reason),
		reportedAt:    reportedAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcileCarrierStatusCommand) Validate() error {
	return c.guard.Validate(ErrReconcileCarrierStatusCommandIsNotConstructed)
}

func (c ReconcileCarrierStatusCommand) TrackingCode() kernel.TrackingCode {
	return c.trackingCode
}

func (c ReconcileCarrierStatusCommand) CarrierStatus() string {
	return c.carrierStatus
}
