package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type shipmentFixture struct {
	factory  *MockUoWFactory
	reads    *MockUoW
	orders   *MockOrderRepository
	executor *MockTransitionExecutor
	carrier  *MockCarrierClient
}

func newShipmentFixture(t *testing.T, current *order.Order) *shipmentFixture {
	t.Helper()
	f := &shipmentFixture{
		factory:  new(MockUoWFactory),
		reads:    new(MockUoW),
		orders:   new(MockOrderRepository),
		executor: new(MockTransitionExecutor),
		carrier:  new(MockCarrierClient),
	}
	mock.InOrder(
		f.factory.On("Create").Return(f.reads).Once(),
		f.reads.On("OrderRepository").Return(f.orders).Once(),
		f.orders.On("Get", mock.Anything, testOrderID).Return(current, nil).Once(),
	)
	return f
}

func (f *shipmentFixture) handler() commands.RequestShipmentCommandHandler {
	return commands.NewRequestShipmentCommandHandler(f.factory, f.executor, f.carrier, discardLogger())
}

func requestShipmentCommand(t *testing.T) commands.RequestShipmentCommand {
	t.Helper()
	cmd, err := commands.NewRequestShipmentCommand(testOrderID, staffActor(t))
	require.NoError(t, err)
	return cmd
}

func TestNewRequestShipmentCommand_InvalidArguments(t *testing.T) {
	_, err := commands.NewRequestShipmentCommand(0, kernel.Actor{})

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRequestShipmentCommandHandler_Handle_Success(t *testing.T) {
	// Arrange
	ctx := t.Context()
	current := orderIn(t, order.Confirmed)
	f := newShipmentFixture(t, current)
	eta := testTime.Add(72 * time.Hour)

	f.carrier.On("CreateShipment", ctx, current).Return(ports.Shipment{
		TrackingCode:       trackingCode(t, "GHN8X2K"),
		Fee:                decimal.RequireFromString("3.00"),
		ExpectedDeliveryAt: eta,
	}, nil).Once()
	f.executor.On("Handle", ctx, mock.MatchedBy(func(cmd commands.TransitionOrderCommand) bool {
		tc := cmd.Context()
		return cmd.Target() == order.Packing &&
			tc.TrackingCode.String() == "GHN8X2K" &&
			tc.CarrierName == "ghn" &&
			tc.ExpectedDeliveryAt.Equal(eta)
	})).Return(orderIn(t, order.Packing), nil).Once()

	// Act
	updated, err := f.handler().Handle(ctx, requestShipmentCommand(t))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, order.Packing, updated.State())
	f.carrier.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything)
	f.executor.AssertExpectations(t)
	f.carrier.AssertExpectations(t)
}

func TestRequestShipmentCommandHandler_Handle_WrongStateSkipsCarrier(t *testing.T) {
	ctx := t.Context()
	f := newShipmentFixture(t, orderIn(t, order.Pending))

	_, err := f.handler().Handle(ctx, requestShipmentCommand(t))

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	f.carrier.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
	f.executor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRequestShipmentCommandHandler_Handle_CarrierFailure(t *testing.T) {
	ctx := t.Context()
	current := orderIn(t, order.Confirmed)
	f := newShipmentFixture(t, current)
	f.carrier.On("CreateShipment", ctx, current).Return(ports.Shipment{}, errors.New("carrier timeout")).Once()

	_, err := f.handler().Handle(ctx, requestShipmentCommand(t))

	require.ErrorContains(t, err, "carrier timeout")
	f.executor.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestRequestShipmentCommandHandler_Handle_RejectedTransitionCancelsShipment(t *testing.T) {
	// Arrange
	ctx := t.Context()
	current := orderIn(t, order.Confirmed)
	f := newShipmentFixture(t, current)
	code := trackingCode(t, "GHN8X2K")

	mock.InOrder(
		f.carrier.On("CreateShipment", ctx, current).Return(ports.Shipment{TrackingCode: code}, nil).Once(),
		f.executor.On("Handle", ctx, mock.Anything).
			Return(nil, order.NewInvalidTransitionError(order.Cancelled, order.Packing)).Once(),
		f.carrier.On("CancelShipment", ctx, code).Return(nil).Once(),
	)

	// Act
	_, err := f.handler().Handle(ctx, requestShipmentCommand(t))

	// Assert
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	f.carrier.AssertExpectations(t)
}
