package ports

import (
	"context"
)

// UnitOfWorkFactory creates independent units of work. A unit that is never
// begun hands out repositories bound to the plain connection pool, which is
// how post-commit re-reads avoid the original transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes one database transaction. Repositories obtained after
// Begin share the transaction; Commit or Rollback ends it and later calls
// to either return an error.
//
// Example:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
//	// ... mutate and save
//	return uow.Commit(ctx)
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an errs.AmbiguousCommitError when the driver cannot
	// tell whether the transaction was applied.
	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository

	ShippingRepository() ShippingRepository

	InventoryRepository() InventoryRepository
}
