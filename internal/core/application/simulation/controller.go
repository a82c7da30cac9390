package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fulfillment/internal/core/domain/model/agent"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// cancelWriteTimeout bounds the terminal status writes performed after the
// run's own context has already been cancelled.
const cancelWriteTimeout = 5 * time.Second

// OrderLifecycleController drives the full fulfillment timeline for one
// order: the shared store-side phases, the concurrent per-vendor drive
// simulations, and the final aggregation into the customer-facing status.
//
// A controller is stateless between runs and safe to share; each Run call
// owns exactly one order's timeline. The persisted order status doubles as
// the phase cursor, so a run launched against a half-finished order resumes
// from the first phase the order has not yet reached instead of replaying
// the timeline from the start.
type OrderLifecycleController struct {
	uowFactory ports.UnitOfWorkFactory
	routes     ports.RouteProvider
	locations  ports.LocationPublisher
	statusLog  ports.StatusLog
	planner    *services.PathPlanner
	agents     *agent.Pool
	config     Config
	logger     *slog.Logger
}

// NewOrderLifecycleController creates a controller with the given collaborators.
func NewOrderLifecycleController(
	uowFactory ports.UnitOfWorkFactory,
	routes ports.RouteProvider,
	locations ports.LocationPublisher,
	statusLog ports.StatusLog,
	agents *agent.Pool,
	config Config,
	logger *slog.Logger,
) *OrderLifecycleController {
	return &OrderLifecycleController{
		uowFactory: uowFactory,
		routes:     routes,
		locations:  locations,
		statusLog:  statusLog,
		planner:    services.NewPathPlanner(),
		agents:     agents,
		config:     config.withDefaults(),
		logger:     logger.With("component", "order_lifecycle_controller"),
	}
}

// Run plays the order's timeline to a terminal state. It blocks until the
// order is delivered, the context is cancelled, or an unrecoverable error
// occurs before any side effect. Cancellation marks the order and its
// unfinished sub-orders as cancelled.
func (c *OrderLifecycleController) Run(ctx context.Context, orderID kernel.UUID) error {
	ord, subOrders, err := c.load(ctx, orderID)
	if err != nil {
		return err
	}

	if ord.Status().IsTerminal() {
		c.logger.InfoContext(ctx, "Order is already terminal, nothing to simulate",
			"orderID", orderID.String(), "status", ord.Status().String())
		return nil
	}

	totalBudget := c.config.totalBudget(len(subOrders))
	storeBudget := c.config.storeBudget(totalBudget)

	if err := c.runStorePhases(ctx, orderID, ord.Status(), storeBudget); err != nil {
		return c.finishOnError(ctx, orderID, err)
	}

	if _, err := c.advanceOrder(ctx, orderID, order.DeliveryPartnerAssigned, "delivery partners are being assigned"); err != nil {
		return c.finishOnError(ctx, orderID, err)
	}

	driveBudget := totalBudget - storeBudget
	c.runSubOrderSimulations(ctx, orderID, subOrders, driveBudget)

	if ctx.Err() != nil {
		return c.finishOnError(ctx, orderID, ctx.Err())
	}

	return c.finalize(ctx, orderID)
}

// load reads the order and its sub-orders. Nothing is written, so a failure
// here aborts the run without side effects.
func (c *OrderLifecycleController) load(
	ctx context.Context,
	orderID kernel.UUID,
) (*order.Order, []*order.SubOrder, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ord, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	subOrders, err := uow.OrderRepository().GetSubOrders(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if len(subOrders) == 0 {
		return nil, nil, order.ErrNoSubOrders
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return ord, subOrders, nil
}

// runStorePhases plays the three store-side phases, each followed by an
// equal share of the store budget. Phases the order has already passed are
// skipped without sleeping, which is what makes resumed runs catch up.
func (c *OrderLifecycleController) runStorePhases(
	ctx context.Context,
	orderID kernel.UUID,
	current order.Status,
	storeBudget time.Duration,
) error {
	phases := []struct {
		status order.Status
		note   string
	}{
		{order.StoreAccepted, "stores accepted the order"},
		{order.PreparingOrder, "stores are preparing the items"},
		{order.ReadyForPickup, "items are ready for pickup"},
	}

	phaseSleep := storeBudget / time.Duration(len(phases))

	for _, phase := range phases {
		if current >= phase.status {
			continue
		}

		if err := c.advanceOrderAndSubOrders(ctx, orderID, phase.status, phase.note); err != nil {
			return err
		}

		if err := sleepCtx(ctx, phaseSleep); err != nil {
			return err
		}
	}

	return nil
}

// runSubOrderSimulations fans out one simulator goroutine per sub-order and
// blocks until all of them finish. A failing simulator only logs: its
// siblings keep running and the final aggregation decides the outcome.
func (c *OrderLifecycleController) runSubOrderSimulations(
	ctx context.Context,
	orderID kernel.UUID,
	subOrders []*order.SubOrder,
	driveBudget time.Duration,
) {
	var firstPickedUp, firstInTransit atomic.Bool
	var wg sync.WaitGroup

	for _, subOrder := range subOrders {
		if subOrder.Status().IsTerminal() {
			continue
		}

		if !subOrder.HasVendorLocation() {
			c.logger.WarnContext(ctx, "Sub-order has no vendor coordinates, skipping its simulation",
				"orderID", orderID.String(), "subOrderID", subOrder.ID().String())
			continue
		}

		agentID := c.agents.Acquire()

		sim := newSubOrderSimulator(subOrderSimulatorParams{
			uowFactory:     c.uowFactory,
			routes:         c.routes,
			locations:      c.locations,
			statusLog:      c.statusLog,
			planner:        c.planner,
			logger:         c.logger,
			config:         c.config,
			orderID:        orderID,
			subOrderID:     subOrder.ID(),
			agentID:        agentID,
			vendorLocation: subOrder.VendorLocation(),
			driveBudget:    driveBudget,
			firstPickedUp:  &firstPickedUp,
			firstInTransit: &firstInTransit,
		})

		wg.Add(1)
		go func(subOrderID kernel.UUID, agentID kernel.UUID) {
			defer wg.Done()
			defer func() {
				if err := c.agents.Release(agentID); err != nil {
					c.logger.ErrorContext(ctx, "Failed to release delivery agent",
						"agentID", agentID.String(), "error", err)
				}
			}()
			defer func() {
				if r := recover(); r != nil {
					c.logger.ErrorContext(ctx, "Sub-order simulation panicked",
						"orderID", orderID.String(), "subOrderID", subOrderID.String(), "panic", r)
				}
			}()

			if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.ErrorContext(ctx, "Sub-order simulation failed",
					"orderID", orderID.String(), "subOrderID", subOrderID.String(), "error", err)
			}
		}(subOrder.ID(), agentID)
	}

	wg.Wait()
}

// finalize writes the terminal delivered status when and only when every
// sub-order reports delivered. Anything less leaves the order in its
// last-known aggregate status.
func (c *OrderLifecycleController) finalize(ctx context.Context, orderID kernel.UUID) error {
	_, subOrders, err := c.load(ctx, orderID)
	if err != nil {
		return err
	}

	for _, subOrder := range subOrders {
		if subOrder.Status() != order.OrderDelivered {
			c.logger.WarnContext(ctx, "Order finished with undelivered sub-orders, leaving aggregate status as is",
				"orderID", orderID.String(), "subOrderID", subOrder.ID().String(),
				"subOrderStatus", subOrder.Status().String())
			return nil
		}
	}

	if _, err := c.advanceOrder(ctx, orderID, order.OrderDelivered, "all vendor deliveries completed"); err != nil {
		return err
	}

	c.logger.InfoContext(ctx, "Order delivered", "orderID", orderID.String())
	return nil
}

// finishOnError converts a cancellation into the cancelled terminal state
// and passes every other error through.
func (c *OrderLifecycleController) finishOnError(ctx context.Context, orderID kernel.UUID, cause error) error {
	if !errors.Is(cause, context.Canceled) && !errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}

	// The run's context is dead, so the terminal writes get their own.
	writeCtx, cancel := context.WithTimeout(context.Background(), cancelWriteTimeout)
	defer cancel()

	if err := c.advanceOrderAndSubOrders(writeCtx, orderID, order.OrderCancelled, "simulation cancelled"); err != nil {
		c.logger.ErrorContext(writeCtx, "Failed to mark cancelled order",
			"orderID", orderID.String(), "error", err)
	} else {
		c.logger.InfoContext(writeCtx, "Order simulation cancelled", "orderID", orderID.String())
	}

	return cause
}

// advanceOrder moves the order to the next phase and appends the status
// event. An order already at or past the phase is left untouched and
// reported as not advanced, which makes racing phase writers safe.
func (c *OrderLifecycleController) advanceOrder(
	ctx context.Context,
	orderID kernel.UUID,
	next order.Status,
	note string,
) (bool, error) {
	advanced, err := advanceOrderTx(ctx, c.uowFactory, orderID, next, false)
	if err != nil || !advanced {
		return advanced, err
	}

	if err := c.statusLog.Append(ctx, orderID, next, note); err != nil {
		return true, err
	}

	return true, nil
}

// advanceOrderAndSubOrders moves the order and every non-terminal sub-order
// that is still behind to the next phase, then appends the status event.
func (c *OrderLifecycleController) advanceOrderAndSubOrders(
	ctx context.Context,
	orderID kernel.UUID,
	next order.Status,
	note string,
) error {
	advanced, err := advanceOrderTx(ctx, c.uowFactory, orderID, next, true)
	if err != nil {
		return err
	}

	if advanced {
		if err := c.statusLog.Append(ctx, orderID, next, note); err != nil {
			return err
		}
	}

	return nil
}

// advanceOrderTx performs the transactional part of a phase transition.
// With includeSubOrders it also drags lagging, non-terminal sub-orders
// forward to the same phase. Cancellation additionally reaches sub-orders
// regardless of how far ahead they are, as long as they are not terminal.
func advanceOrderTx(
	ctx context.Context,
	uowFactory ports.UnitOfWorkFactory,
	orderID kernel.UUID,
	next order.Status,
	includeSubOrders bool,
) (bool, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	ord, err := repo.Get(ctx, orderID)
	if err != nil {
		return false, err
	}

	advanced := false
	if ord.Status() < next && !ord.Status().IsTerminal() {
		if err := ord.AdvanceTo(next); err != nil {
			return false, err
		}
		if err := repo.Update(ctx, ord); err != nil {
			return false, err
		}
		advanced = true
	}

	if includeSubOrders {
		subOrders, err := repo.GetSubOrders(ctx, orderID)
		if err != nil {
			return false, err
		}

		for _, subOrder := range subOrders {
			if subOrder.Status().IsTerminal() {
				continue
			}
			if next != order.OrderCancelled && subOrder.Status() >= next {
				continue
			}

			if err := subOrder.AdvanceTo(next); err != nil {
				return false, err
			}
			if err := repo.UpdateSubOrder(ctx, subOrder); err != nil {
				return false, err
			}
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return false, err
	}

	return advanced, nil
}

// sleepCtx sleeps for the given duration or returns early with the context's
// error when the run is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
