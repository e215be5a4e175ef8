package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/shipping"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockShippingRepository struct{ mock.Mock }

func (m *MockShippingRepository) GetByOrderID(ctx context.Context, orderID int64) (*shipping.Record, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Record), args.Error(1)
}

func (m *MockShippingRepository) GetByTrackingCode(ctx context.Context, code kernel.TrackingCode) (*shipping.Record, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Record), args.Error(1)
}

func (m *MockShippingRepository) Save(ctx context.Context, r *shipping.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockShippingRepository) ListByOrderStates(ctx context.Context, states []order.State, limit int) ([]*shipping.Record, error) {
	args := m.Called(ctx, states, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.Record), args.Error(1)
}

func (m *MockShippingRepository) ListDeliveredBefore(ctx context.Context, cutoff time.Time, limit int) ([]*shipping.Record, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.Record), args.Error(1)
}

type MockInventoryRepository struct{ mock.Mock }

func (m *MockInventoryRepository) Restock(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ShippingRepository() ports.ShippingRepository {
	args := m.Called()
	return args.Get(0).(ports.ShippingRepository)
}

func (m *MockUoW) InventoryRepository() ports.InventoryRepository {
	args := m.Called()
	return args.Get(0).(ports.InventoryRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events []order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockCarrierClient struct{ mock.Mock }

func (m *MockCarrierClient) Name() string {
	return "ghn"
}

func (m *MockCarrierClient) CreateShipment(ctx context.Context, o *order.Order) (ports.Shipment, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(ports.Shipment), args.Error(1)
}

func (m *MockCarrierClient) FetchStatus(ctx context.Context, code kernel.TrackingCode) (ports.ShipmentStatus, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(ports.ShipmentStatus), args.Error(1)
}

func (m *MockCarrierClient) CancelShipment(ctx context.Context, code kernel.TrackingCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

type MockWebhookDeduplicator struct{ mock.Mock }

func (m *MockWebhookDeduplicator) FirstSeen(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookDeduplicator) Forget(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockTransitionExecutor struct{ mock.Mock }

func (m *MockTransitionExecutor) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockTransitionExecutor) RecordCarrierStatus(ctx context.Context, orderID int64, carrierStatus string) error {
	args := m.Called(ctx, orderID, carrierStatus)
	return args.Error(0)
}

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Handle(
	ctx context.Context,
	cmd commands.ReconcileCarrierStatusCommand,
) (commands.ReconciliationResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconciliationResult), args.Error(1)
}
