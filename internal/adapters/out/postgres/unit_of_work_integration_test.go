package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/statusrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes PostgreSQL container and database connection for all tests.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// Start PostgreSQL container
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	// Connect to database
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	// Run migrations
	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.SubOrderDTO{}, &statusrepo.StatusEventDTO{})
	suite.Require().NoError(err)

	// Create factory
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, sub_orders, status_events").Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

// TestUnitOfWorkFactory_Create verifies factory creates unit of work instances
// with proper initialization and isolation between instances.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	// Create multiple unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Verify instances are different
	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	// Verify both instances provide access to repositories
	suite.NotNil(uow1.OrderRepository(), "First instance should provide order repository")
	suite.NotNil(uow1.StatusEventRepository(), "First instance should provide status event repository")
	suite.NotNil(uow2.OrderRepository(), "Second instance should provide order repository")
	suite.NotNil(uow2.StatusEventRepository(), "Second instance should provide status event repository")
}

// TestUnitOfWork_TransactionLifecycle verifies proper transaction management
// including begin, commit, and rollback operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	// Test multiple begin calls are safe
	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	// Test commit
	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	// Test rollback on new transaction
	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

// TestUnitOfWork_TransactionErrors verifies error handling for invalid transaction operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Test commit without begin
	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	// Test rollback without begin
	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_SingleRepositoryTransaction verifies repository operations
// within a single transaction boundary work correctly.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_SingleRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder, subOrders := createTestOrderWithSubOrders(suite.T(), 2)

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Add order within transaction
	err = uow.OrderRepository().Add(ctx, testOrder, subOrders)
	suite.Require().NoError(err)

	// Verify order exists within transaction
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrievedOrder.ID().IsEqual(testOrder.ID()))

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify order persists after commit using new unit of work
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrievedOrder.ID().IsEqual(testOrder.ID()))
}

// TestUnitOfWork_MultiRepositoryTransaction verifies a status write and its
// timeline event commit atomically within one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_MultiRepositoryTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder, subOrders := createTestOrderWithSubOrders(suite.T(), 1)

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder, subOrders)
	suite.Require().NoError(err)

	// Advance the order and append the matching timeline event
	err = testOrder.AdvanceTo(order.StoreAccepted)
	suite.Require().NoError(err)
	err = uow.OrderRepository().Update(ctx, testOrder)
	suite.Require().NoError(err)

	event, err := order.NewStatusEvent(testOrder.ID(), order.StoreAccepted, "stores accepted the order")
	suite.Require().NoError(err)
	err = uow.StatusEventRepository().Add(ctx, event)
	suite.Require().NoError(err)

	// Commit transaction
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify both writes persisted
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StoreAccepted, retrievedOrder.Status())

	events, err := newUow.StatusEventRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal(order.StoreAccepted, events[0].Status())
	suite.Equal("stores accepted the order", events[0].Note())
}

// TestUnitOfWork_TransactionRollback verifies rollback discards all changes
// made within the transaction across both repositories.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder, subOrders := createTestOrderWithSubOrders(suite.T(), 1)

	// Begin transaction
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder, subOrders)
	suite.Require().NoError(err)

	event, err := order.NewStatusEvent(testOrder.ID(), order.PendingAtStore, "")
	suite.Require().NoError(err)
	err = uow.StatusEventRepository().Add(ctx, event)
	suite.Require().NoError(err)

	// Verify entities exist within transaction
	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	// Rollback transaction
	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify nothing exists after rollback using new unit of work
	newUow := suite.factory.Create()

	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")

	events, err := newUow.StatusEventRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(events, "Events should not exist after rollback")
}

// TestUnitOfWork_RepositoryIsolation verifies that repositories obtained
// from different unit of work instances operate independently.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := context.Background()

	// Create two unit of work instances
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	// Create test orders
	order1, subOrders1 := createTestOrderWithSubOrders(suite.T(), 1)
	order2, subOrders2 := createTestOrderWithSubOrders(suite.T(), 1)

	// Begin transactions on both
	err := uow1.Begin(ctx)
	suite.Require().NoError(err)

	err = uow2.Begin(ctx)
	suite.Require().NoError(err)

	// Add different orders in each transaction
	err = uow1.OrderRepository().Add(ctx, order1, subOrders1)
	suite.Require().NoError(err)

	err = uow2.OrderRepository().Add(ctx, order2, subOrders2)
	suite.Require().NoError(err)

	// Each transaction should only see its own changes
	_, err = uow1.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "UOW1 should see order1")

	_, err = uow1.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "UOW1 should not see order2")

	_, err = uow2.OrderRepository().Get(ctx, order2.ID())
	suite.Require().NoError(err, "UOW2 should see order2")

	_, err = uow2.OrderRepository().Get(ctx, order1.ID())
	suite.Require().Error(err, "UOW2 should not see order1")

	// Commit first transaction
	err = uow1.Commit(ctx)
	suite.Require().NoError(err)

	// Rollback second transaction
	err = uow2.Rollback(ctx)
	suite.Require().NoError(err)

	// Verify only order1 persisted
	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, order1.ID())
	suite.Require().NoError(err, "Order1 should persist after commit")

	_, err = newUow.OrderRepository().Get(ctx, order2.ID())
	suite.Require().Error(err, "Order2 should not persist after rollback")
}

// TestUnitOfWork_WithoutTransaction verifies that repositories work correctly
// without explicit transaction boundaries for immediate operations.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_WithoutTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Create test order
	testOrder, subOrders := createTestOrderWithSubOrders(suite.T(), 1)

	// Add order without beginning transaction (should auto-commit)
	err := uow.OrderRepository().Add(ctx, testOrder, subOrders)
	suite.Require().NoError(err)

	// Verify order persists immediately
	retrievedOrder, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrievedOrder.ID().IsEqual(testOrder.ID()))

	// Verify with new unit of work instance
	newUow := suite.factory.Create()
	retrievedOrder, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(retrievedOrder.ID().IsEqual(testOrder.ID()))
}

// TestUnitOfWork_FulfillmentWorkflow tests a full order fulfillment pass
// involving the order, its sub-orders, and the status timeline in one transaction.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_FulfillmentWorkflow() {
	ctx := context.Background()
	uow := suite.factory.Create()

	// Begin transaction for the entire workflow
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	// Step 1: Create and add a new order with its sub-order
	testOrder, subOrders := createTestOrderWithSubOrders(suite.T(), 1)
	err = uow.OrderRepository().Add(ctx, testOrder, subOrders)
	suite.Require().NoError(err)

	// Step 2: Walk the order through the store phases
	for _, status := range []order.Status{order.StoreAccepted, order.PreparingOrder, order.ReadyForPickup} {
		err = testOrder.AdvanceTo(status)
		suite.Require().NoError(err)
		err = uow.OrderRepository().Update(ctx, testOrder)
		suite.Require().NoError(err)

		event, eventErr := order.NewStatusEvent(testOrder.ID(), status, "")
		suite.Require().NoError(eventErr)
		err = uow.StatusEventRepository().Add(ctx, event)
		suite.Require().NoError(err)
	}

	// Step 3: Assign an agent to the sub-order
	agentID := kernel.NewUUID()
	subOrder := subOrders[0]
	for _, status := range []order.Status{order.StoreAccepted, order.PreparingOrder, order.ReadyForPickup} {
		err = subOrder.AdvanceTo(status)
		suite.Require().NoError(err)
	}
	err = subOrder.AssignAgent(agentID, time.Now().UTC())
	suite.Require().NoError(err)
	err = uow.OrderRepository().UpdateSubOrder(ctx, subOrder)
	suite.Require().NoError(err)

	// Commit the entire workflow
	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	// Verify final state using a new unit of work
	newUow := suite.factory.Create()

	retrievedOrder, err := newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.ReadyForPickup, retrievedOrder.Status())

	retrievedSubOrders, err := newUow.OrderRepository().GetSubOrders(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(retrievedSubOrders, 1)
	suite.Equal(order.DeliveryPartnerAssigned, retrievedSubOrders[0].Status())
	suite.Require().NotNil(retrievedSubOrders[0].Agent())
	suite.True(retrievedSubOrders[0].Agent().IsEqual(agentID))

	events, err := newUow.StatusEventRepository().GetByOrderID(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 3)
	suite.Equal(order.StoreAccepted, events[0].Status())
	suite.Equal(order.PreparingOrder, events[1].Status())
	suite.Equal(order.ReadyForPickup, events[2].Status())
}

// createTestOrderWithSubOrders creates a valid pending order with vendor sub-orders.
func createTestOrderWithSubOrders(t *testing.T, count int) (*order.Order, []*order.SubOrder) {
	t.Helper()

	id := kernel.NewUUID()
	delivery, err := kernel.NewGeoPoint(40.7128, -74.0060)
	if err != nil {
		t.Fatal(err)
	}

	testOrder, err := order.NewOrder(id, delivery, count)
	if err != nil {
		t.Fatal(err)
	}

	subOrders := make([]*order.SubOrder, 0, count)
	for i := range count {
		vendorLocation, locErr := kernel.NewGeoPoint(40.70+float64(i)*0.01, -74.01)
		if locErr != nil {
			t.Fatal(locErr)
		}

		subOrder, subErr := order.NewSubOrder(kernel.NewUUID(), id, kernel.NewUUID(), vendorLocation)
		if subErr != nil {
			t.Fatal(subErr)
		}
		subOrders = append(subOrders, subOrder)
	}

	return testOrder, subOrders
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
