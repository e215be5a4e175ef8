package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/generated/servers"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps domain and storage errors onto the API's status codes:
// 409 with the allowed targets for an illegal transition, 422 for an unmet
// entry precondition, 403 for a cancellation the actor may not make. A
// persistence failure is always a 500, whatever cause it wraps, and its text
// stays in the log.
func (s *Server) writeError(ctx echo.Context, err error) error {
	var invalid *order.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		allowed := toOrderStates(invalid.Allowed)
		return ctx.JSON(http.StatusConflict, servers.Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
			Allowed: &allowed,
		})
	case errors.Is(err, order.ErrPreconditionFailed):
		return writeJSONError(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, commands.ErrCancellationNotAllowed):
		return writeJSONError(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrPersistenceFailure):
		return s.internalError(ctx, err)
	case errors.Is(err, errs.ErrObjectNotFound):
		return writeJSONError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return badRequest(ctx, err.Error())
	default:
		return s.internalError(ctx, err)
	}
}

func (s *Server) internalError(ctx echo.Context, err error) error {
	s.logger.ErrorContext(ctx.Request().Context(), "request failed",
		"method", ctx.Request().Method,
		"path", ctx.Path(),
		"error", err,
	)
	return writeJSONError(ctx, http.StatusInternalServerError, "Internal error")
}

func badRequest(ctx echo.Context, message string) error {
	return writeJSONError(ctx, http.StatusBadRequest, message)
}

func writeJSONError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, servers.Error{
		Code:    status,
		Message: message,
	})
}
