package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

// ReconciliationResult tells the caller whether a carrier report moved the
// order. Updated=false is a normal answer, not a failure.
type ReconciliationResult struct {
	Updated  bool
	NewState order.State
	Message  string
}

// CarrierStatusReconciler is implemented by ReconcileCarrierStatusCommandHandler.
type CarrierStatusReconciler interface {
	Handle(ctx context.Context, command ReconcileCarrierStatusCommand) (ReconciliationResult, error)
}

// ReconcileCarrierStatusCommandHandler translates carrier reports into
// lifecycle transitions. It reads the order fresh, lets the translator and
// the lifecycle table decide, and delegates any real move to the executor,
// which re-validates under the row lock. Stale, duplicate and unknown
// reports end as Updated=false; only storage failures are returned as errors.
//
// Example:
//
//	cmd, _ := NewReconcileCarrierStatusCommand("GHN8X2K", "delivered", "webhook", time.Now())
//	res, err := handler.Handle(ctx, cmd)
//	// res.Updated == true, res.NewState == order.Delivered
type ReconcileCarrierStatusCommandHandler struct {
	uowFactory  UoWFactory
	executor    TransitionExecutor
	translator  services.CarrierStatusTranslator
	carrierName string
	metrics     Metrics
	logger      *slog.Logger
}

func NewReconcileCarrierStatusCommandHandler(
	uowFactory UoWFactory,
	executor TransitionExecutor,
	carrierName string,
	metrics Metrics,
	logger *slog.Logger,
) ReconcileCarrierStatusCommandHandler {
	return ReconcileCarrierStatusCommandHandler{
		uowFactory:  uowFactory,
		executor:    executor,
		translator:  services.NewCarrierStatusTranslator(),
		carrierName: carrierName,
		metrics:     metrics,
		logger:      logger.With("component", "carrier_reconciler"),
	}
}

func (h ReconcileCarrierStatusCommandHandler) Handle(
	ctx context.Context,
	command ReconcileCarrierStatusCommand,
) (ReconciliationResult, error) {
	if err := command.Validate(); err != nil {
		return ReconciliationResult{}, err
	}

	reads := h.uowFactory.Create()
	rec, err := reads.ShippingRepository().GetByTrackingCode(ctx, command.trackingCode)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return h.ignore(ctx, command, order.Unknown, "unknown tracking code", "unknown_tracking_code"), nil
	}
	if err != nil {
		return h.fail(ctx, command, order.Unknown, errs.NewPersistenceFailureError("resolve tracking code", err))
	}

	current, err := reads.OrderRepository().Get(ctx, rec.OrderID())
	if err != nil {
		return h.fail(ctx, command, order.Unknown, errs.NewPersistenceFailureError("read order", err))
	}

	decision := h.translator.Decide(current.State(), command.carrierStatus)
	if decision.Outcome != services.OutcomeApply {
		if err = h.executor.RecordCarrierStatus(ctx, current.ID(), command.carrierStatus); err != nil {
			return h.fail(ctx, command, current.State(), err)
		}
		return h.ignore(ctx, command, current.State(), decision.Message, outcomeLabel(decision.Outcome)), nil
	}

	return h.walk(ctx, command, current, decision)
}

// walk runs each step of the decided path through the executor, one unit of
// work per step. A step that fails leaves the order at the last step that
// committed; the next report or sync resumes from there.
func (h ReconcileCarrierStatusCommandHandler) walk(
	ctx context.Context,
	command ReconcileCarrierStatusCommand,
	current *order.Order,
	decision services.Decision,
) (ReconciliationResult, error) {
	reached := current.State()
	applied := 0
	for _, step := range decision.Path {
		transition, err := NewTransitionOrderCommand(current.ID(), step, order.TransitionContext{
			Actor:         kernel.CarrierActor(h.carrierName),
			Reason:        h.reasonFor(command),
			CarrierStatus: command.carrierStatus,
			OccurredAt:    command.reportedAt,
		})
		if err != nil {
			return ReconciliationResult{}, err
		}

		updated, err := h.executor.Handle(ctx, transition)
		switch {
		case err == nil:
			reached = updated.State()
			applied++
			continue
		case isDomainRejection(err):
			// Lost a race between the fresh read and the row lock.
			if recErr := h.executor.RecordCarrierStatus(ctx, current.ID(), command.carrierStatus); recErr != nil {
				return h.fail(ctx, command, reached, recErr)
			}
			if applied == 0 {
				return h.ignore(ctx, command, reached, err.Error(), "rejected"), nil
			}
			h.metrics.ObserveCarrierSync(command.carrierStatus, "partial")
			return ReconciliationResult{
				Updated:  true,
				NewState: reached,
				Message:  fmt.Sprintf("stopped at %s: %v", reached, err),
			}, nil
		default:
			return h.fail(ctx, command, reached, err)
		}
	}

	h.metrics.ObserveCarrierSync(command.carrierStatus, "updated")
	return ReconciliationResult{Updated: true, NewState: reached, Message: decision.Message}, nil
}

func (h ReconcileCarrierStatusCommandHandler) reasonFor(command ReconcileCarrierStatusCommand) string {
	if command.reason != "" {
		return command.reason
	}
	return fmt.Sprintf("carrier reported %q", command.carrierStatus)
}

func (h ReconcileCarrierStatusCommandHandler) ignore(
	ctx context.Context,
	command ReconcileCarrierStatusCommand,
	state order.State,
	message string,
	outcome string,
) ReconciliationResult {
	h.metrics.ObserveCarrierSync(command.carrierStatus, outcome)
	h.logger.InfoContext(ctx, "carrier status not applied",
		"tracking_code", command.trackingCode.String(),
		"carrier_status", command.carrierStatus,
		"state", state.String(),
		"reason", message,
	)
	return ReconciliationResult{Updated: false, NewState: state, Message: message}
}

func (h ReconcileCarrierStatusCommandHandler) fail(
	ctx context.Context,
	command ReconcileCarrierStatusCommand,
	state order.State,
	err error,
) (ReconciliationResult, error) {
	h.metrics.ObserveCarrierSync(command.carrierStatus, "failed")
	h.logger.ErrorContext(ctx, "carrier status reconciliation failed",
		"tracking_code", command.trackingCode.String(),
		"carrier_status", command.carrierStatus,
		"error", err,
	)
	return ReconciliationResult{Updated: false, NewState: state, Message: err.Error()}, err
}

func isDomainRejection(err error) bool {
	return errors.Is(err, order.ErrInvalidTransition) ||
		errors.Is(err, order.ErrPreconditionFailed) ||
		errors.Is(err, ErrCancellationNotAllowed)
}

func outcomeLabel(o services.Outcome) string {
	switch o {
	case services.OutcomeUnmapped:
		return "unmapped"
	case services.OutcomeAlreadyInState:
		return "already_in_state"
	case services.OutcomeIllegal:
		return "illegal"
	default:
		return "applied"
	}
}
