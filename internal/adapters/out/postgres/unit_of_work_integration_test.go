package postgres_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/inventoryrepo"
	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/telemetry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises transactions, row locks and the
// transition executor against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *adapter.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), adapter.DriverPgx)
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.factory = adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_CommitPersists() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("ORD-1")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RollbackDiscards() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	o := suite.newOrder("ORD-1")
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), errs.ErrAmbiguousCommit)
	suite.Require().Error(uow.Rollback(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RowLockBlocksSecondLocker() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	_, err := first.OrderRepository().GetForUpdate(ctx, o.ID())
	suite.Require().NoError(err)

	acquired := make(chan error, 1)
	go func() {
		second := suite.factory.Create()
		if beginErr := second.Begin(ctx); beginErr != nil {
			acquired <- beginErr
			return
		}
		defer func() { _ = second.Rollback(ctx) }()
		_, lockErr := second.OrderRepository().GetForUpdate(ctx, o.ID())
		acquired <- lockErr
	}()

	select {
	case <-acquired:
		suite.Fail("second transaction acquired a held row lock")
	case <-time.After(300 * time.Millisecond):
	}

	suite.Require().NoError(first.Commit(ctx))
	select {
	case lockErr := <-acquired:
		suite.Require().NoError(lockErr)
	case <-time.After(5 * time.Second):
		suite.Fail("second transaction never acquired the lock")
	}
}

// Two cancellations race on the same order. The row lock serializes them:
// the second re-validates against the committed Cancelled state and is
// rejected, so stock is returned exactly once.
func (suite *UnitOfWorkIntegrationTestSuite) TestExecutor_ConcurrentTransitionsExactlyOneWins() {
	ctx := context.Background()
	suite.Require().NoError(suite.db.Create(&inventoryrepo.ProductDTO{ID: 11, Stock: 0}).Error)
	o := suite.newOrder("ORD-1")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))
	suite.Require().NoError(suite.db.Exec("UPDATE orders SET state = ? WHERE id = ?", order.Confirmed.String(), o.ID()).Error)

	publisher := &recordingPublisher{}
	executor := suite.newExecutor(publisher)

	staff, err := kernel.NewActor(kernel.RoleStaff, "alice")
	suite.Require().NoError(err)
	system, err := kernel.NewActor(kernel.RoleSystem, "payment-timeout")
	suite.Require().NoError(err)

	var cmds []commands.TransitionOrderCommand
	for _, actor := range []kernel.Actor{staff, system} {
		cmd, cmdErr := commands.NewTransitionOrderCommand(o.ID(), order.Cancelled, order.TransitionContext{
			Actor: actor, CancelReason: "cancelled by " + actor.Name(),
		})
		suite.Require().NoError(cmdErr)
		cmds = append(cmds, cmd)
	}

	var (
		wg      sync.WaitGroup
		results = make([]error, len(cmds))
	)
	for i, cmd := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = executor.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	var winners, rejected int
	for _, r := range results {
		switch {
		case r == nil:
			winners++
		case errors.Is(r, order.ErrInvalidTransition):
			rejected++
		default:
			suite.Failf("unexpected error", "%v", r)
		}
	}
	suite.Equal(1, winners)
	suite.Equal(1, rejected)

	persisted, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, persisted.State())

	var product inventoryrepo.ProductDTO
	suite.Require().NoError(suite.db.First(&product, "id = ?", 11).Error)
	suite.Equal(1, product.Stock)
	suite.NotEmpty(publisher.recorded())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestExecutor_PackingPersistsShippingRecord() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))
	suite.Require().NoError(suite.db.Exec("UPDATE orders SET state = ? WHERE id = ?", order.Confirmed.String(), o.ID()).Error)

	staff, err := kernel.NewActor(kernel.RoleStaff, "alice")
	suite.Require().NoError(err)
	code, err := kernel.NewTrackingCode("GHN0001")
	suite.Require().NoError(err)
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), order.Packing, order.TransitionContext{
		Actor: staff, TrackingCode: code, CarrierName: "ghn",
	})
	suite.Require().NoError(err)

	updated, err := suite.newExecutor(&recordingPublisher{}).Handle(ctx, cmd)
	suite.Require().NoError(err)
	suite.Equal(order.Packing, updated.State())

	rec, err := suite.factory.Create().ShippingRepository().GetByOrderID(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal("GHN0001", rec.TrackingCode().String())
	suite.Equal("ghn", rec.CarrierName())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestExecutor_CancelRestocksInSameTransaction() {
	ctx := context.Background()
	o := suite.newOrder("ORD-1")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, o))

	executor := suite.newExecutor(&recordingPublisher{})
	cmd, err := commands.NewTransitionOrderCommand(o.ID(), order.Cancelled, order.TransitionContext{
		Actor: kernel.SystemActor("test"),
	})
	suite.Require().NoError(err)

	// Product 11 is missing, so the restock fails and the whole transition
	// must roll back.
	_, err = executor.Handle(ctx, cmd)
	suite.Require().ErrorIs(err, errs.ErrPersistenceFailure)

	persisted, err := suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, persisted.State())
	suite.Empty(persisted.Note())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOpenDSN_LibPQDriver() {
	ctx := context.Background()
	dsn, err := suite.container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := adapter.OpenDSN(adapter.DriverPq, dsn)
	suite.Require().NoError(err)

	o := suite.newOrder("ORD-PQ")
	uow := adapter.NewGormUnitOfWorkFactory(db).Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, o.ID())
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) newExecutor(publisher *recordingPublisher) commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(
		funcUoWFactory(func() commands.UoW { return suite.factory.Create() }),
		publisher,
		telemetry.NewMetrics(prometheus.NewRegistry()),
		slog.New(slog.DiscardHandler),
	)
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder(code string) *order.Order {
	amounts, err := order.NewAmounts(
		decimal.RequireFromString("100"),
		decimal.Zero,
		decimal.Zero,
		decimal.Zero,
		decimal.RequireFromString("100"),
	)
	suite.Require().NoError(err)
	item, err := order.NewLineItem(11, 1, decimal.RequireFromString("100"))
	suite.Require().NoError(err)
	o, err := order.NewOrder(code, amounts, order.PaymentCOD, []order.LineItem{item})
	suite.Require().NoError(err)
	return o
}

type funcUoWFactory func() commands.UoW

func (f funcUoWFactory) Create() commands.UoW {
	return f()
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []order.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events []order.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) recorded() []order.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]order.Event(nil), p.events...)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
