package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/generated/servers"

	"github.com/labstack/echo/v4"
)

type (
	OrderTransitioner interface {
		Handle(ctx context.Context, command commands.TransitionOrderCommand) (*order.Order, error)
	}
	ShipmentRequester interface {
		Handle(ctx context.Context, command commands.RequestShipmentCommand) (*order.Order, error)
	}
	OrderCanceller interface {
		Handle(ctx context.Context, command commands.CancelOrderCommand) (*order.Order, error)
	}
	WebhookReceiver interface {
		Handle(ctx context.Context, command commands.ReceiveCarrierWebhookCommand) (commands.ReconciliationResult, error)
	}
	OrderReader interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	TransitionsReader interface {
		Handle(ctx context.Context, query queries.GetAvailableTransitionsQuery) (queries.GetAvailableTransitionsQueryResponse, error)
	}
	CancellabilityReader interface {
		Handle(ctx context.Context, query queries.CanCancelOrderQuery) (queries.CanCancelOrderQueryResponse, error)
	}
	ActiveOrdersReader interface {
		Handle(ctx context.Context, query queries.GetActiveOrdersQuery) ([]queries.GetActiveOrdersQueryResponse, error)
	}
)

const defaultActiveOrdersLimit = 50

// Server implements servers.ServerInterface on top of the command and query
// handlers. Every write answers with the order as read back after commit.
type Server struct {
	// Command handlers
	transition        OrderTransitioner
	requestShipment   ShipmentRequester
	cancelOrder       OrderCanceller
	receiveWebhook    WebhookReceiver

	// Query handlers
	getOrder             OrderReader
	availableTransitions TransitionsReader
	canCancel            CancellabilityReader
	activeOrders         ActiveOrdersReader

	logger *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(
	transition OrderTransitioner,
	requestShipment ShipmentRequester,
	cancelOrder OrderCanceller,
	receiveWebhook WebhookReceiver,
	getOrder OrderReader,
	availableTransitions TransitionsReader,
	canCancel CancellabilityReader,
	activeOrders ActiveOrdersReader,
	logger *slog.Logger,
) *Server {
	return &Server{
		transition:           transition,
		requestShipment:      requestShipment,
		cancelOrder:          cancelOrder,
		receiveWebhook:       receiveWebhook,
		getOrder:             getOrder,
		availableTransitions: availableTransitions,
		canCancel:            canCancel,
		activeOrders:         activeOrders,
		logger:               logger.With("component", "http"),
	}
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(ctx echo.Context, orderId int64) error {
	var body servers.TransitionRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.ParseState(string(body.Target))
	if err != nil {
		return s.writeError(ctx, err)
	}
	actor, err := toActor(body.Actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	tc := order.TransitionContext{
		Actor:         actor,
		Reason:        deref(body.Reason),
		CarrierName:   deref(body.CarrierName),
		CarrierStatus: deref(body.CarrierStatus),
		CancelReason:  deref(body.CancelReason),
	}
	if code := deref(body.TrackingCode); code != "" {
		if tc.TrackingCode, err = kernel.NewTrackingCode(code); err != nil {
			return s.writeError(ctx, err)
		}
	}
	if body.ExpectedDeliveryAt != nil {
		tc.ExpectedDeliveryAt = body.ExpectedDeliveryAt.UTC()
	}

	cmd, err := commands.NewTransitionOrderCommand(orderId, target, tc)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if target == order.Cancelled {
		cmd = cmd.WithCancelRights()
	}

	if _, err = s.transition.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}
	return s.respondWithOrder(ctx, orderId)
}

// GetAvailableTransitions handles GET /api/v1/orders/{orderId}/transitions.
func (s *Server) GetAvailableTransitions(ctx echo.Context, orderId int64) error {
	query, err := queries.NewGetAvailableTransitionsQuery(orderId)
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.availableTransitions.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.AvailableTransitions{
		OrderId: res.OrderID,
		State:   toOrderState(res.State),
		Allowed: toOrderStates(res.Allowed),
	})
}

// CanCancelOrder handles GET /api/v1/orders/{orderId}/cancellable.
func (s *Server) CanCancelOrder(ctx echo.Context, orderId int64, params servers.CanCancelOrderParams) error {
	query, err := queries.NewCanCancelOrderQuery(orderId, string(params.Role))
	if err != nil {
		return s.writeError(ctx, err)
	}

	res, err := s.canCancel.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Cancellability{
		OrderId:   res.OrderID,
		State:     toOrderState(res.State),
		Role:      servers.ActorRole(res.Role),
		CanCancel: res.CanCancel,
	})
}

// RequestShipment handles POST /api/v1/orders/{orderId}/shipment.
func (s *Server) RequestShipment(ctx echo.Context, orderId int64) error {
	var body servers.ShipmentRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor, err := toActor(body.Actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewRequestShipmentCommand(orderId, actor)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if _, err = s.requestShipment.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}
	return s.respondWithOrder(ctx, orderId)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId int64) error {
	var body servers.CancelRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actor, err := toActor(body.Actor)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderId, actor, body.Reason)
	if err != nil {
		return s.writeError(ctx, err)
	}
	if _, err = s.cancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}
	return s.respondWithOrder(ctx, orderId)
}

// ReceiveCarrierWebhook handles POST /api/v1/carrier/webhook. The carrier
// retries anything but a 200, so every outcome, failures included, is
// acknowledged and only logged here.
func (s *Server) ReceiveCarrierWebhook(ctx echo.Context) error {
	var body servers.CarrierWebhook
	if err := ctx.Bind(&body); err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "unreadable carrier webhook", "error", err)
		return ctx.JSON(http.StatusOK, servers.WebhookAck{Message: "unreadable payload"})
	}

	reportedAt := time.Now().UTC()
	if body.Time != nil && !body.Time.IsZero() {
		reportedAt = body.Time.UTC()
	}

	cmd, err := commands.NewReceiveCarrierWebhookCommand(body.OrderCode, body.Status, deref(body.Reason), reportedAt)
	if err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "invalid carrier webhook",
			"tracking_code", body.OrderCode, "status", body.Status, "error", err)
		return ctx.JSON(http.StatusOK, servers.WebhookAck{Message: err.Error()})
	}

	res, err := s.receiveWebhook.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		s.logger.ErrorContext(ctx.Request().Context(), "carrier webhook not reconciled",
			"tracking_code", body.OrderCode, "status", body.Status, "error", err)
		return ctx.JSON(http.StatusOK, servers.WebhookAck{Message: "accepted, reconciliation failed"})
	}

	ack := servers.WebhookAck{Updated: res.Updated, Message: res.Message}
	if res.Updated {
		state := res.NewState.String()
		ack.State = &state
	}
	return ctx.JSON(http.StatusOK, ack)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId int64) error {
	return s.respondWithOrder(ctx, orderId)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context, params servers.GetActiveOrdersParams) error {
	limit := defaultActiveOrdersLimit
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewGetActiveOrdersQuery(limit)
	if err != nil {
		return s.writeError(ctx, err)
	}

	rows, err := s.activeOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	response := make([]servers.OrderSummary, len(rows))
	for i, row := range rows {
		response[i] = servers.OrderSummary{
			Id:           row.ID,
			Code:         row.Code,
			State:        toOrderState(row.State),
			TrackingCode: optional(row.TrackingCode),
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) respondWithOrder(ctx echo.Context, orderID int64) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(view))
}
