package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrCancellationNotAllowed = errors.New("actor may not cancel the order in its current state")

// DefaultPublishTimeout bounds how long a committed transition waits for the
// event publisher.
const DefaultPublishTimeout = 2 * time.Second

// Transition outcome labels reported to Metrics.
const (
	outcomeApplied            = "applied"
	outcomeInvalidTransition  = "invalid_transition"
	outcomePreconditionFailed = "precondition_failed"
	outcomeNotAllowed         = "not_allowed"
	outcomeNotFound           = "not_found"
	outcomePersistenceFailure = "persistence_failure"
	outcomeRejected           = "rejected"
)

// TransitionExecutor is the contract other handlers and jobs use to move
// orders. TransitionOrderCommandHandler is the only implementation.
type TransitionExecutor interface {
	Handle(ctx context.Context, command TransitionOrderCommand) (*order.Order, error)
	RecordCarrierStatus(ctx context.Context, orderID int64, carrierStatus string) error
}

// TransitionOrderCommandHandler executes one lifecycle transition as one
// unit of work:
//
//  1. lock the order row
//  2. check legality and the target's entry precondition
//  3. run the exit hook of the current state
//  4. persist state, audit note and context fields
//  5. run the entry hook and persist its writes (shipping record, restock)
//  6. commit, reconciling an ambiguous commit against a fresh read
//
// Any failure before the commit rolls everything back. Events produced by
// the hooks are published only after a successful commit, and a publishing
// failure never undoes the transition.
type TransitionOrderCommandHandler struct {
	uowFactory     UoWFactory
	publisher      ports.EventPublisher
	publishTimeout time.Duration
	metrics        Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
}

func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	metrics Metrics,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:     uowFactory,
		publisher:      publisher,
		publishTimeout: DefaultPublishTimeout,
		metrics:        metrics,
		logger:         logger.With("component", "transition_executor"),
		tracer:         otel.Tracer("fulfillment/commands"),
	}
}

// WithPublishTimeout returns a copy of the handler that gives up on the
// publisher after d. Non-positive values keep the current timeout.
func (h TransitionOrderCommandHandler) WithPublishTimeout(d time.Duration) TransitionOrderCommandHandler {
	if d > 0 {
		h.publishTimeout = d
	}
	return h
}

// Handle returns the order as committed. Domain rejections come back as
// *order.InvalidTransitionError, *order.PreconditionFailedError or
// ErrCancellationNotAllowed; storage problems as *errs.PersistenceFailureError.
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	command TransitionOrderCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	ctx, span := h.tracer.Start(ctx, "order.transition", trace.WithAttributes(
		attribute.Int64("order.id", command.orderID),
		attribute.String("order.target_state", command.target.String()),
		attribute.String("actor", command.context.Actor.String()),
	))
	defer span.End()

	updated, tr, err := h.execute(ctx, command)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		h.reject(ctx, command, err)
		return nil, err
	}

	h.metrics.ObserveTransition(tr.From.String(), tr.To.String(), outcomeApplied)
	h.logger.InfoContext(ctx, "order transitioned",
		"order_id", updated.ID(),
		"from", tr.From.String(),
		"to", tr.To.String(),
		"actor", command.context.Actor.String(),
	)
	h.publish(ctx, tr.Events)
	return updated, nil
}

func (h TransitionOrderCommandHandler) execute(
	ctx context.Context,
	command TransitionOrderCommand,
) (*order.Order, order.Transition, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, order.Transition{}, errs.NewPersistenceFailureError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	shippingRepo := uow.ShippingRepository()

	o, err := orderRepo.GetForUpdate(ctx, command.orderID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, order.Transition{}, err
		}
		return nil, order.Transition{}, errs.NewPersistenceFailureError("lock order", err)
	}

	rec, err := shippingRepo.GetByOrderID(ctx, command.orderID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, order.Transition{}, errs.NewPersistenceFailureError("load shipping record", err)
	}

	if command.enforceCancelRights && command.target == order.Cancelled {
		role := command.context.Actor.Role()
		if !o.CanCancel(role) {
			return nil, order.Transition{}, fmt.Errorf("%w: %s cannot cancel from %s", ErrCancellationNotAllowed, role, o.State())
		}
	}

	tr, err := o.TransitionTo(command.target, rec, command.context)
	if err != nil {
		return nil, order.Transition{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, order.Transition{}, errs.NewPersistenceFailureError("update order", err)
	}

	if err = h.applyEffects(ctx, uow, shippingRepo, tr); err != nil {
		return nil, order.Transition{}, err
	}

	if err = h.commitOrReconcile(ctx, uow, o.ID(), tr.To); err != nil {
		return nil, order.Transition{}, err
	}

	return o, tr, nil
}

// applyEffects writes what the entry hook asked for inside the same
// transaction: the shipping record and one restock per product.
func (h TransitionOrderCommandHandler) applyEffects(
	ctx context.Context,
	uow UoW,
	shippingRepo ports.ShippingRepository,
	tr order.Transition,
) error {
	if tr.ShippingChanged && tr.Shipping != nil {
		if err := shippingRepo.Save(ctx, tr.Shipping); err != nil {
			return errs.NewPersistenceFailureError("save shipping record", err)
		}
	}

	if len(tr.Restock) == 0 {
		return nil
	}
	inventory := uow.InventoryRepository()
	for _, r := range tr.Restock {
		if err := inventory.Restock(ctx, r.ProductID, r.Quantity); err != nil {
			return errs.NewPersistenceFailureError(fmt.Sprintf("restock product %d", r.ProductID), err)
		}
	}
	return nil
}

// commitOrReconcile is the only place an ambiguous commit is interpreted.
// When the driver cannot say whether the commit landed, the order is re-read
// outside the finished transaction: matching the target means the write is
// durable, anything else is a persistence failure.
func (h TransitionOrderCommandHandler) commitOrReconcile(
	ctx context.Context,
	uow UoW,
	orderID int64,
	target order.State,
) error {
	err := uow.Commit(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrAmbiguousCommit) {
		return errs.NewPersistenceFailureError("commit transition", err)
	}

	persisted, readErr := h.uowFactory.Create().OrderRepository().Get(ctx, orderID)
	if readErr != nil {
		h.metrics.ObserveAmbiguousCommit("unresolved")
		return errs.NewPersistenceFailureError("reconcile ambiguous commit", errors.Join(err, readErr))
	}

	if persisted.State() == target {
		h.metrics.ObserveAmbiguousCommit("applied")
		h.logger.WarnContext(ctx, "ambiguous commit resolved as applied",
			"order_id", orderID, "state", target.String(), "error", err)
		return nil
	}

	h.metrics.ObserveAmbiguousCommit("not_applied")
	h.logger.WarnContext(ctx, "ambiguous commit resolved as not applied",
		"order_id", orderID, "target", target.String(), "persisted", persisted.State().String(), "error", err)
	return errs.NewPersistenceFailureError("commit transition", err)
}

// RecordCarrierStatus stores a carrier-reported status without moving the
// order. It takes the same row lock as a transition so it never interleaves
// with one. Orders without a shipping record are left alone.
func (h TransitionOrderCommandHandler) RecordCarrierStatus(
	ctx context.Context,
	orderID int64,
	carrierStatus string,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.NewPersistenceFailureError("begin transaction", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.OrderRepository().GetForUpdate(ctx, orderID); err != nil {
		return errs.NewPersistenceFailureError("lock order", err)
	}

	shippingRepo := uow.ShippingRepository()
	rec, err := shippingRepo.GetByOrderID(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return errs.NewPersistenceFailureError("load shipping record", err)
	}
	if rec.CarrierStatus() == carrierStatus {
		return nil
	}

	rec.RecordCarrierStatus(carrierStatus)
	if err = shippingRepo.Save(ctx, rec); err != nil {
		return errs.NewPersistenceFailureError("save carrier status", err)
	}

	// The carrier status is informational: an ambiguous commit here is
	// rewritten by the next report, so it is not reconciled.
	if err = uow.Commit(ctx); err != nil && !errors.Is(err, errs.ErrAmbiguousCommit) {
		return errs.NewPersistenceFailureError("commit carrier status", err)
	}
	return nil
}

func (h TransitionOrderCommandHandler) reject(ctx context.Context, command TransitionOrderCommand, err error) {
	var (
		invalid *order.InvalidTransitionError
		from    = "unknown"
		outcome = outcomeRejected
		level   = slog.LevelWarn
	)
	switch {
	case errors.As(err, &invalid):
		from, outcome = invalid.From.String(), outcomeInvalidTransition
	case errors.Is(err, order.ErrPreconditionFailed):
		outcome = outcomePreconditionFailed
	case errors.Is(err, ErrCancellationNotAllowed):
		outcome = outcomeNotAllowed
	case errors.Is(err, errs.ErrPersistenceFailure):
		outcome, level = outcomePersistenceFailure, slog.LevelError
	case errors.Is(err, errs.ErrObjectNotFound):
		outcome = outcomeNotFound
	case errors.Is(err, shipping.ErrTrackingCodeImmutable):
		outcome = outcomePreconditionFailed
	}

	h.metrics.ObserveTransition(from, command.target.String(), outcome)
	h.logger.Log(ctx, level, "order transition rejected",
		"order_id", command.orderID,
		"target", command.target.String(),
		"actor", command.context.Actor.String(),
		"outcome", outcome,
		"error", err,
	)
}

func (h TransitionOrderCommandHandler) publish(ctx context.Context, events []order.Event) {
	if len(events) == 0 {
		return
	}
	// The transition is already committed: a caller that goes away must not
	// drop its events, and a stuck broker must not hold the caller.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.publishTimeout)
	defer cancel()

	if err := h.publisher.Publish(pctx, events); err != nil {
		h.logger.ErrorContext(ctx, "publish lifecycle events failed",
			"order_id", events[0].OrderID,
			"events", len(events),
			"error", err,
		)
	}
}
