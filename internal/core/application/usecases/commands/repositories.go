// Package commands contains the operations that change order state.
// Every write follows the same shape: validate the command, open a unit of
// work, lock, mutate through the domain, persist, commit.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	ShippingRepoFactory interface {
		ShippingRepository() ports.ShippingRepository
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	// UoW scopes a transition: the order row lock, the shipping record and
	// the inventory adjustments all commit or roll back together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	//   // ... transition, save order, save shipping record, restock
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		ShippingRepoFactory
		InventoryRepoFactory
	}

	// UoWFactory creates independent units of work. A unit that is never
	// begun reads outside any transaction.
	UoWFactory interface {
		Create() UoW
	}
)

// Metrics receives lifecycle counters. Implemented by telemetry.Metrics.
type Metrics interface {
	ObserveTransition(from, to, outcome string)
	ObserveCarrierSync(carrierStatus, outcome string)
	ObserveAmbiguousCommit(resolution string)
}
