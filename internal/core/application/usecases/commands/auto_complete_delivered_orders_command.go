package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrAutoCompleteDeliveredOrdersCommandIsNotConstructed = errors.New(
	"AutoCompleteDeliveredOrdersCommand must be created via NewAutoCompleteDeliveredOrdersCommand constructor",
)

// AutoCompleteDeliveredOrdersCommand closes orders that have been Delivered
// for longer than the grace period without a complaint.
type AutoCompleteDeliveredOrdersCommand struct {
	gracePeriod time.Duration
	batchSize   int
	guard       guard.ConstructorGuard
}

func NewAutoCompleteDeliveredOrdersCommand(gracePeriod time.Duration, batchSize int) (AutoCompleteDeliveredOrdersCommand, error) {
	var problems []error
	if gracePeriod <= 0 {
		problems = append(problems, errs.NewValueIsInvalidError("gracePeriod"))
	}
	if batchSize < 1 || batchSize > maxSyncBatch {
		problems = append(problems, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, maxSyncBatch))
	}
	if err := errors.Join(problems...); err != nil {
		return AutoCompleteDeliveredOrdersCommand{}, err
	}

	return AutoCompleteDeliveredOrdersCommand{
		gracePeriod: gracePeriod,
		batchSize:   batchSize,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c AutoCompleteDeliveredOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAutoCompleteDeliveredOrdersCommandIsNotConstructed)
}
