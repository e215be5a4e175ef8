package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSyncCarrierStatusesCommandIsNotConstructed = errors.New(
	"SyncCarrierStatusesCommand must be created via NewSyncCarrierStatusesCommand constructor",
)

const maxSyncBatch = 500

// SyncCarrierStatusesCommand polls the carrier for up to batchSize in-flight
// shipments.
type SyncCarrierStatusesCommand struct {
	batchSize int
	guard     guard.ConstructorGuard
}

func NewSyncCarrierStatusesCommand(batchSize int) (SyncCarrierStatusesCommand, error) {
	if batchSize < 1 || batchSize > maxSyncBatch {
		return SyncCarrierStatusesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, maxSyncBatch)
	}
	return SyncCarrierStatusesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SyncCarrierStatusesCommand) Validate() error {
	return c.guard.Validate(ErrSyncCarrierStatusesCommandIsNotConstructed)
}
