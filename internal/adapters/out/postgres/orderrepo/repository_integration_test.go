package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), "")
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AssignsIDAndPersistsItems() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1", order.PaymentOnline, suite.item(11, 2, "20.50"), suite.item(12, 1, "59"))

	suite.Require().NoError(suite.repository.Add(ctx, o))

	suite.Positive(o.ID())
	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal("ORD-1", got.Code())
	suite.Equal(order.PendingPayment, got.State())
	suite.Equal(order.PaymentOnline, got.PaymentMethod())
	suite.True(got.Amounts().GrandTotal().Equal(decimal.RequireFromString("108")))
	suite.Require().Len(got.Items(), 2)
	suite.Equal(int64(11), got.Items()[0].ProductID())
	suite.True(got.Items()[0].UnitPrice().Equal(decimal.RequireFromString("20.50")))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateCode() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("ORD-1", order.PaymentCOD)))

	err := suite.repository.Add(ctx, suite.newOrder("ORD-1", order.PaymentCOD))

	suite.Require().Error(err)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_NotConstructed() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.Get(context.Background(), 404)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WritesLifecycleColumns() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1", order.PaymentCOD, suite.item(11, 1, "100"))
	suite.Require().NoError(suite.repository.Add(ctx, o))

	actor, err := kernel.NewActor(kernel.RoleStaff, "alice")
	suite.Require().NoError(err)
	_, err = o.TransitionTo(order.Cancelled, nil, order.TransitionContext{
		Actor:        actor,
		Reason:       "duplicate order",
		CancelReason: "duplicate order",
		OccurredAt:   time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, got.State())
	suite.Equal("duplicate order", got.CancelReason())
	suite.Contains(got.Note(), "[2026-10-17T09:30:00Z] Pending -> Cancelled by staff:alice: duplicate order")
	suite.Len(got.Items(), 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	o := suite.newOrder("ORD-1", order.PaymentCOD)
	o.AssignID(404)

	err := suite.repository.Update(context.Background(), o)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_OutsideTransaction() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1", order.PaymentCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	got, err := suite.repository.GetForUpdate(ctx, o.ID())

	suite.Require().NoError(err)
	suite.Equal(o.ID(), got.ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_CorruptedStateIsRejected() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1", order.PaymentCOD)
	suite.Require().NoError(suite.repository.Add(ctx, o))
	suite.Require().NoError(suite.db.Exec("UPDATE orders SET state = 'Teleported' WHERE id = ?", o.ID()).Error)

	_, err := suite.repository.Get(ctx, o.ID())

	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(code string, method order.PaymentMethod, items ...order.LineItem) *order.Order {
	if len(items) == 0 {
		items = []order.LineItem{suite.item(11, 1, "100")}
	}
	amounts, err := order.NewAmounts(
		decimal.RequireFromString("100"),
		decimal.RequireFromString("10"),
		decimal.RequireFromString("5"),
		decimal.RequireFromString("3"),
		decimal.RequireFromString("108"),
	)
	suite.Require().NoError(err)

	o, err := order.NewOrder(code, amounts, method, items)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) item(productID int64, qty int, price string) order.LineItem {
	li, err := order.NewLineItem(productID, qty, decimal.RequireFromString(price))
	suite.Require().NoError(err)
	return li
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
